package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/noah-isme/attendance-planner-api/internal/service"
	"github.com/noah-isme/attendance-planner-api/pkg/config"
)

// devtoken prints a bearer token signed with the configured JWT secret, for calling
// the API locally without the identity provider.
func main() {
	var (
		userID string
		email  string
		ttl    time.Duration
	)
	flag.StringVar(&userID, "user", "", "User ID to put in the token")
	flag.StringVar(&email, "email", "", "Optional email claim")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if userID == "" {
		log.Fatal("-user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Env == config.EnvProduction {
		log.Fatal("refusing to mint tokens in production")
	}

	auth := service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	token, err := auth.IssueToken(userID, email, ttl)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
