// Command hooktoken prints a bearer token for the host-side hook shim.
// Usage: go run ./cmd/hooktoken -site example.com [-ttl 8760h]
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"wps3sync/internal/config"
	"wps3sync/internal/service"
)

func main() {
	site := flag.String("site", "", "site identifier embedded in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to hooks.token_ttl)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	token, expiresAt, err := service.NewHookAuthService(cfg.Hooks).IssueToken(*site, *ttl)
	if err != nil {
		log.Fatalf("issuing token: %v", err)
	}
	fmt.Println(token)
	log.Printf("token expires %s", expiresAt.Format(time.RFC3339))
}
