// Demonstrates typical usage: loading a layered configuration with
// substitutions, typed access, and struct decoding.
package main

import (
	"fmt"
	"log"
	"time"

	"hocon"
)

const reference = `
server {
    host = localhost
    port = 8080
    read-timeout = 30s
    max-body = 1M
}
log.level = info
`

const overrides = `
server.port = 9090
server.url = "http://"${server.host}":"${server.port}
log.level = debug
`

type serverConfig struct {
	Host        string        `hocon:"host"`
	Port        int           `hocon:"port"`
	ReadTimeout time.Duration `hocon:"read-timeout"`
}

func main() {
	cfg, err := hocon.NewBuilder().
		WithString(overrides).
		WithFallbackString(reference).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	url, _ := cfg.GetString("server.url")
	level, _ := cfg.GetString("log.level")
	body, _ := cfg.GetBytes("server.max-body")
	fmt.Println("url:", url)
	fmt.Println("log level:", level)
	fmt.Println("max body bytes:", body)

	var server serverConfig
	if err := cfg.Scan("server", &server); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("decoded: %+v\n", server)

	fmt.Println(cfg.Render(hocon.DefaultRenderOptions()))
}
