package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CLUBHUB_DB_HOST.
const EnvPrefix = "clubhub"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server" envconfig:"server"`
	Store        StoreConfig        `yaml:"store" envconfig:"store"`
	Database     DatabaseConfig     `yaml:"database" envconfig:"db"`
	JWT          JWTConfig          `yaml:"jwt" envconfig:"jwt"`
	Log          LogConfig          `yaml:"log" envconfig:"log"`
	Storage      StorageConfig      `yaml:"storage" envconfig:"storage"`
	Email        EmailConfig        `yaml:"email" envconfig:"email"`
	Push         PushConfig         `yaml:"push" envconfig:"push"`
	Registration RegistrationConfig `yaml:"registration" envconfig:"registration"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit" envconfig:"rate_limit"`
	Scheduler    SchedulerConfig    `yaml:"scheduler" envconfig:"scheduler"`
	Bootstrap    BootstrapConfig    `yaml:"bootstrap" ignored:"true"`
}

// ServerConfig contains gRPC server settings. The HTTP side-surface listens
// on Port+1.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	Type string `yaml:"type"` // "memory" or "postgres"
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	AutoMigrate  bool   `yaml:"auto_migrate"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string        `yaml:"secret"`
	AccessTokenExpiry  time.Duration `yaml:"access_token_expiry"`
	RefreshTokenExpiry time.Duration `yaml:"refresh_token_expiry"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// StorageConfig contains logo storage settings
type StorageConfig struct {
	Type              string        `yaml:"type"`       // "mock" or "s3"
	UploadDir         string        `yaml:"upload_dir"` // For mock storage
	BaseURL           string        `yaml:"base_url"`   // Server base URL for mock URLs
	Bucket            string        `yaml:"bucket"`
	Region            string        `yaml:"region"`
	Endpoint          string        `yaml:"endpoint"`
	AccessKey         string        `yaml:"access_key"`
	SecretKey         string        `yaml:"secret_key"`
	UploadURLExpiry   time.Duration `yaml:"upload_url_expiry"`
	DownloadURLExpiry time.Duration `yaml:"download_url_expiry"`
}

// EmailConfig configures SendGrid. Without an API key digests are only logged.
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

type PushConfig struct {
	Enabled         bool          `yaml:"enabled"`
	CredentialsFile string        `yaml:"credentials_file"`
	ProjectID       string        `yaml:"project_id"`
	QueueSize       int           `yaml:"queue_size"`
	SendTimeout     time.Duration `yaml:"send_timeout"`
}

type RegistrationConfig struct {
	EnforceCapacity bool `yaml:"enforce_capacity"`
}

// RateLimitConfig bounds gRPC calls per client address. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	Enabled                bool   `yaml:"enabled"`
	SendUnreadDigests      string `yaml:"send_unread_digests"`
	RemindPendingApprovals string `yaml:"remind_pending_approvals"`
	RemindJoinRequests     string `yaml:"remind_join_requests"`
}

type BootstrapConfig struct {
	Users []BootstrapUser `yaml:"users"`
}

// BootstrapUser is created at startup unless a user with the email exists.
type BootstrapUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// Load reads configuration from a YAML file, then applies .env and
// environment overrides. An empty path skips the file.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server
	if c.Server.Port == 0 {
		c.Server.Port = 50051
	}
	if c.Server.Port < 0 || c.Server.Port > 65534 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	// Store
	switch c.Store.Type {
	case "":
		c.Store.Type = "memory"
	case "memory":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
		if c.Database.MaxOpenConns == 0 {
			c.Database.MaxOpenConns = 10
		}
	default:
		return fmt.Errorf("unknown store type %q (must be 'memory' or 'postgres')", c.Store.Type)
	}

	// JWT
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = time.Hour
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * time.Hour
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Storage
	switch c.Storage.Type {
	case "":
		c.Storage.Type = "mock"
		fallthrough
	case "mock":
		if c.Storage.UploadDir == "" {
			c.Storage.UploadDir = "./uploads"
		}
		if c.Storage.BaseURL == "" {
			c.Storage.BaseURL = fmt.Sprintf("http://localhost:%d", c.HTTPPort())
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for s3")
		}
		if c.Storage.Region == "" {
			return fmt.Errorf("storage region is required for s3")
		}
	default:
		return fmt.Errorf("unknown storage type %q (must be 'mock' or 's3')", c.Storage.Type)
	}
	if c.Storage.UploadURLExpiry == 0 {
		c.Storage.UploadURLExpiry = 15 * time.Minute
	}
	if c.Storage.DownloadURLExpiry == 0 {
		c.Storage.DownloadURLExpiry = 7 * 24 * time.Hour
	}

	// Email
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = "noreply@clubhub.local"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "ClubHub"
	}

	// Push
	if c.Push.Enabled && c.Push.CredentialsFile == "" && c.Push.ProjectID == "" {
		return fmt.Errorf("push requires credentials_file or project_id")
	}

	// Rate limit
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid rate limit: %v", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = int(c.RateLimit.RequestsPerSecond) + 1
	}

	// Scheduler defaults
	if c.Scheduler.SendUnreadDigests == "" {
		c.Scheduler.SendUnreadDigests = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.RemindPendingApprovals == "" {
		c.Scheduler.RemindPendingApprovals = "0 0 9 * * 1-5" // Weekdays at 9 AM UTC
	}
	if c.Scheduler.RemindJoinRequests == "" {
		c.Scheduler.RemindJoinRequests = "0 0 17 * * *" // 5 PM UTC
	}

	// Bootstrap
	for i, u := range c.Bootstrap.Users {
		if u.Email == "" || u.Password == "" {
			return fmt.Errorf("bootstrap user %d: email and password are required", i)
		}
		if u.Role == "" {
			c.Bootstrap.Users[i].Role = "administrator"
		}
		if u.Username == "" {
			c.Bootstrap.Users[i].Username = u.Email
		}
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the gRPC server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) HTTPPort() int {
	return c.Server.Port + 1
}

// GetHTTPAddress returns the address of the HTTP side-surface.
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.HTTPPort())
}
