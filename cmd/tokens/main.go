package main

import (
	"flag"
	"fmt"
	"log"
	"memory-backend/internal/auth"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	SecretKey string `env:"OAUTH2_SECRET_KEY,notEmpty,required"`
}

func tokenService() *auth.TokenService {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.SecretKey)
	if err != nil {
		log.Fatalf("Error creating token service: %v", err)
	}
	return tokens
}

func issueToken(userId string, ttl time.Duration) {
	if userId == "" {
		log.Fatalf("-user is required")
	}

	token, err := tokenService().IssueWithTTL(auth.Claims{UserId: userId}, ttl)
	if err != nil {
		log.Fatalf("Error issuing token: %v", err)
	}

	fmt.Println(token)
}

func verifyToken(token string) {
	userId, err := tokenService().Verify(token)
	if err != nil {
		log.Fatalf("Token verification failed: %v", err)
	}

	fmt.Println(userId)
}

func main() {
	issueArgs := flag.NewFlagSet("issue", flag.ExitOnError)
	userId := issueArgs.String("user", "", "User id to embed in the token")
	ttl := issueArgs.Duration("ttl", auth.DefaultTTL, "Token lifetime")

	verifyArgs := flag.NewFlagSet("verify", flag.ExitOnError)
	token := verifyArgs.String("token", "", "Token to verify")

	if len(os.Args) < 2 {
		log.Fatalf("expected 'issue' or 'verify' subcommands")
	}

	switch os.Args[1] {
	case "issue":
		if err := issueArgs.Parse(os.Args[2:]); err != nil {
			log.Fatalf("Error parsing arguments: %v", err)
		}
		issueToken(*userId, *ttl)
	case "verify":
		if err := verifyArgs.Parse(os.Args[2:]); err != nil {
			log.Fatalf("Error parsing arguments: %v", err)
		}
		verifyToken(*token)
	default:
		log.Fatalf("expected 'issue' or 'verify' subcommands")
	}
}
