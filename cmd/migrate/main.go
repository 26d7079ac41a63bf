package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/infrastructure/config"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/persistence"
)

// Applies the schema and optionally seeds the first admin account. The
// seed is skipped when the username already exists, so re-running against
// the same database is safe.
func main() {
	var (
		adminUser string
		adminPass string
		logLevel  string
	)

	flag.StringVar(&adminUser, "admin-user", os.Getenv("STOREHUB_ADMIN_USER"), "Username for the seeded admin account")
	flag.StringVar(&adminPass, "admin-pass", os.Getenv("STOREHUB_ADMIN_PASS"), "Password for the seeded admin account")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Schema migrated")

	if adminUser == "" || adminPass == "" {
		log.Info("No admin credentials given, skipping seed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := persistence.NewGormUserRepository(db.DB)
	if _, err := users.FindByUsername(ctx, adminUser); err == nil {
		log.Info("Admin account already exists, skipping seed", zap.String("username", adminUser))
		return
	} else if !errors.Is(err, identity.ErrUserNotFound) {
		log.Fatal("Failed to check for existing admin", zap.Error(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password", zap.Error(err))
	}

	now := time.Now()
	admin := &identity.User{
		ID:           uuid.New(),
		Username:     adminUser,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Save(ctx, admin); err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err))
	}

	log.Info("Admin account seeded", zap.String("username", adminUser))
}
