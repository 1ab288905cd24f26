package main

import (
	"chat-relay/auth"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// token mints a session token for local clients, signed with JWT_SECRET.
func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "identity carried by the token")
	username := flag.String("name", "", "display name")
	lang := flag.String("lang", "", "preferred language (ISO 639-1)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" || *userID == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET and -user are required")
		os.Exit(2)
	}

	token, err := auth.NewTokenManager(secret).GenerateToken(auth.Session{
		UserID:   *userID,
		Username: *username,
		Lang:     *lang,
	}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token generation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
