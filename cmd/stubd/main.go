// stubd serves the in-memory marketplace backend and token endpoint for
// local development. Point marketctl at it with MARKET_BACKEND_URL and
// MARKET_KEYCLOAK_URL.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/artmarket/marketplace-client/internal/stubserver"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	realm := flag.String("realm", "art-marketplace-realm", "identity realm name")
	clientID := flag.String("client-id", "digital-marketplace-frontend", "OAuth client id")
	adminEmail := flag.String("admin-email", "admin@example.com", "seeded administrator email")
	adminPassword := flag.String("admin-password", "", "seeded administrator password (required)")
	flag.Parse()

	if *adminPassword == "" {
		log.Println("missing -admin-password")
		flag.Usage()
		os.Exit(2)
	}

	srv := stubserver.New(stubserver.Config{
		Realm:        *realm,
		ClientID:     *clientID,
		ClientSecret: os.Getenv("STUB_CLIENT_SECRET"),
	})
	if err := srv.SeedAdmin(*adminEmail, "Administrator", *adminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	log.Printf("stub backend listening on %s (realm %s)", *addr, *realm)
	if err := http.ListenAndServe(*addr, srv); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
