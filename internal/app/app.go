// Package app assembles the pieces shared by the server and cronjob binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"clubhub-backend/internal/config"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
	"clubhub-backend/internal/repository/memory"
	"clubhub-backend/internal/repository/postgres"
	"clubhub-backend/internal/service"
	"clubhub-backend/internal/storage"
)

// OpenStore returns the configured entity store and a func releasing it.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.Store.Type {
	case "", "memory":
		logger.Info("Using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	case "postgres":
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("Database migrations applied")
	}

	return postgres.NewStore(db), func() { db.Close() }, nil
}

// OpenStorage builds the logo object store.
func OpenStorage(cfg *config.Config) (storage.StorageInterface, error) {
	return storage.New(storage.Config{
		Type:      cfg.Storage.Type,
		MockDir:   cfg.Storage.UploadDir,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})
}

// BootstrapUsers provisions the configured accounts. Existing emails are left
// untouched.
func BootstrapUsers(ctx context.Context, users service.UserService, accounts []config.BootstrapUser) error {
	for _, a := range accounts {
		u, err := users.EnsureUser(ctx, service.BootstrapUser{
			Username: a.Username,
			Email:    a.Email,
			Password: a.Password,
			Role:     domain.UserRole(a.Role),
		})
		if err != nil {
			return fmt.Errorf("failed to bootstrap user %s: %w", a.Email, err)
		}
		logger.Info("Bootstrap user ready", "user_id", u.ID, "email", u.Email, "role", u.Role)
	}
	return nil
}
