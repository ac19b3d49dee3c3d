package hocon

// mergeValues merges left over right with left winning, the single merge
// routine behind duplicate keys, includes, and WithFallback. When either
// side still contains substitutions and the collision is not a plain
// object-over-object one, the merge is recorded as a delayed merge and
// replayed after resolution.
func mergeValues(left, right Value) Value {
	lObj, lIsObj := left.(*Object)
	rObj, rIsObj := right.(*Object)

	if lIsObj && rIsObj {
		return mergeObjects(lObj, rObj)
	}
	if left.ResolveStatus() == StatusResolved && !lIsObj {
		// A concrete non-object completely shadows whatever is underneath.
		return left
	}
	stack := append(flattenMergeStack(left), flattenMergeStack(right)...)
	return newDelayedMerge(mergeOrigins(left.Origin(), right.Origin()), stack)
}

// mergeObjects merges two objects key-wise, left winning on collisions.
// Left's key order comes first, then right's keys that are new.
func mergeObjects(left, right *Object) *Object {
	keys := make([]string, 0, len(left.keys)+len(right.keys))
	fields := make(map[string]Value, len(left.fields)+len(right.fields))
	for _, k := range left.keys {
		keys = append(keys, k)
		fields[k] = left.fields[k]
	}
	for _, k := range right.keys {
		if lv, collides := fields[k]; collides {
			fields[k] = mergeValues(lv, right.fields[k])
		} else {
			keys = append(keys, k)
			fields[k] = right.fields[k]
		}
	}
	merged := newObjectWithFields(mergeOrigins(left.origin, right.origin), keys, fields)
	return merged
}

// flattenMergeStack turns a value into its delayed-merge stack entries so
// nested delayed merges stay a flat ordered vector.
func flattenMergeStack(v Value) []Value {
	if dm, ok := v.(*delayedMerge); ok {
		return dm.stack
	}
	return []Value{v}
}
