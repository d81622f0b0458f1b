package storage

import (
	"fmt"
)

// Config holds storage configuration
type Config struct {
	Type      string // "mock" or "s3"
	MockDir   string // Directory for mock storage
	BaseURL   string // HTTP side-surface URL used in mock links
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible providers
	AccessKey string
	SecretKey string
}

// New builds the backend selected by cfg.Type.
func New(cfg Config) (StorageInterface, error) {
	switch cfg.Type {
	case "", "mock":
		return NewMockStorageService(cfg.BaseURL, cfg.MockDir)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
