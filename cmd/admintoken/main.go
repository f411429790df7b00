// Command admintoken prints a signed admin bearer token for the /admin routes.
//
//	admintoken -sub ops@example.com -ttl 24h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"devevents/config"
	"devevents/internal/adapters/auth"
	"devevents/internal/domain"
)

func main() {
	subject := flag.String("sub", "admin", "token subject, e.g. the operator's email")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	if cfg.AdminJWTSecret == "" {
		slog.Error("ADMIN_JWT_SECRET is not set")
		os.Exit(1)
	}
	if *ttl <= 0 {
		slog.Error("ttl must be positive", "ttl", *ttl)
		os.Exit(1)
	}

	token, err := auth.NewJWTIssuer(cfg.AdminJWTSecret).Issue(*subject, domain.RoleAdmin, *ttl)
	if err != nil {
		slog.Error("issue token", "err", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
