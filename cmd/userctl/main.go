// Command userctl performs administrative account operations against the
// database directly: creating users and flipping the active flag. Deactivation
// takes effect on the next authenticated request; outstanding tokens are not
// revoked.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spec-kit/vectorvault/internal/auth"
	"github.com/spec-kit/vectorvault/internal/config"
	"github.com/spec-kit/vectorvault/internal/domain"
	"github.com/spec-kit/vectorvault/internal/observability"
	"github.com/spec-kit/vectorvault/internal/persistence"
	"github.com/spec-kit/vectorvault/internal/repository"
)

func main() {
	var (
		createUser = flag.String("create", "", "create a user with the given username (reads USERCTL_PASSWORD)")
		activate   = flag.String("activate", "", "set is_active=true for the given username")
		deactivate = flag.String("deactivate", "", "set is_active=false for the given username")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, "userctl")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer pg.Close()

	users := repository.NewUserRepository(pg.PoolHandle())

	switch {
	case *createUser != "":
		password := os.Getenv("USERCTL_PASSWORD")
		if password == "" {
			log.Fatal("USERCTL_PASSWORD must be set to create a user")
		}
		hash, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost).Hash(password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		user := &domain.User{Username: *createUser, PasswordHash: hash, IsActive: true}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("failed to create user: %v", err)
		}
		fmt.Printf("created user %s (%s)\n", user.Username, user.ID)
	case *activate != "":
		if err := users.SetActive(ctx, *activate, true); err != nil {
			log.Fatalf("failed to activate user: %v", err)
		}
		fmt.Printf("activated %s\n", *activate)
	case *deactivate != "":
		if err := users.SetActive(ctx, *deactivate, false); err != nil {
			log.Fatalf("failed to deactivate user: %v", err)
		}
		fmt.Printf("deactivated %s\n", *deactivate)
	default:
		flag.Usage()
		os.Exit(2)
	}
}
