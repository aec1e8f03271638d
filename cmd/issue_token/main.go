package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"prize_wheel/internal/service"

	"github.com/joho/godotenv"
)

// issue_token prints a bearer token for a wallet, for local testing of the
// wheel API and the widget socket
func main() {
	wallet := flag.String("wallet", "", "wallet identifier to sign")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}
	if *wallet == "" {
		log.Fatal("-wallet is required")
	}

	service.InitJWT("")
	token, err := service.GenerateJWTWithTTL(*wallet, *ttl)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	// verify read
	got, err := service.ParseJWT(token)
	if err != nil || got != *wallet {
		log.Fatalf("token does not round trip: %v", err)
	}
	log.Printf("wallet=%s expires_in=%s\n", *wallet, *ttl)
	fmt.Println(token)
}
