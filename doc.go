// Package hocon parses, resolves, and queries HOCON ("Human-Optimized Config
// Object Notation") configuration, a superset of JSON with comments, unquoted
// keys, key paths, value concatenation, object merging, substitutions,
// includes, and duration/size units.
//
// Features:
//   - Full parse -> resolve -> query pipeline with source origins on every value
//   - Formatting-preserving document AST with a small edit surface
//   - Substitutions (${path}, ${?path}) with environment-variable fallback
//   - Includes with file()/url()/classpath()/required() forms and cycle guard
//   - Object merging with left bias and delayed merges across substitutions
//   - Typed accessors including durations and byte sizes with unit suffixes
//   - TOML and YAML sources accepted alongside HOCON and strict JSON
//   - Struct decoding of resolved configuration via mapstructure
//   - Builder with file discovery for one-call application setup
//
// Quick Start:
//
//	cfg, err := hocon.Load("app.conf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.GetString("server.host")
//	port, _ := cfg.GetInt("server.port")
//	timeout, _ := cfg.GetDuration("server.read-timeout")
//
// Or from a string:
//
//	cfg, _ := hocon.LoadString(`
//	    server {
//	        host = localhost
//	        port = 8080
//	        url = "http://"${server.host}":"${server.port}
//	    }
//	`)
//
// Thread Safety:
// A resolved Config is immutable and safe for concurrent readers without
// locking. Parsing is synchronous on the caller's goroutine; independent
// parses on different goroutines are permitted.
package hocon
