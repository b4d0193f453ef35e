package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"payledger.backend/internal/config"
	"payledger.backend/pkg/crypto"
)

const signatureHeader = "X-Auth-Signature"

func main() {
	clientID := flag.String("client-id", "", "provider client id; PROVIDUS_CLIENT_ID when empty")
	clientSecret := flag.String("client-secret", "", "provider client secret; PROVIDUS_CLIENT_SECRET when empty")
	url := flag.String("url", "http://localhost:8080/api/v1/webhooks/settlements/providus", "settlement endpoint for the sample request")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load().Providus
	if *clientID == "" {
		*clientID = cfg.ClientID
	}
	if *clientSecret == "" {
		*clientSecret = cfg.ClientSecret
	}

	if err := writeSignature(os.Stdout, *clientID, *clientSecret, *url); err != nil {
		log.Fatal(err)
	}
}

func writeSignature(out io.Writer, clientID, clientSecret, url string) error {
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("client id and secret are required")
	}
	sig := crypto.CredentialSignature(clientID, clientSecret)
	fmt.Fprintf(out, "%s: %s\n", signatureHeader, sig)
	fmt.Fprintf(out, "curl -X POST %s -H 'Content-Type: application/json' -H '%s: %s' -d @settlement.json\n", url, signatureHeader, sig)
	return nil
}
