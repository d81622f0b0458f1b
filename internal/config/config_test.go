package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
jwt:
  secret: "`+testSecret+`"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50051, cfg.Server.Port)
	assert.Equal(t, 50052, cfg.HTTPPort())
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "mock", cfg.Storage.Type)
	assert.Equal(t, "http://localhost:50052", cfg.Storage.BaseURL)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 15*time.Minute, cfg.Storage.UploadURLExpiry)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "0 0 8 * * *", cfg.Scheduler.SendUnreadDigests)
	assert.False(t, cfg.Registration.EnforceCapacity)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
server:
  port: 6000
store:
  type: postgres
database:
  host: yaml-host
  user: clubhub
  database: clubhub
jwt:
  secret: "`+testSecret+`"
  access_token_expiry: 30m
registration:
  enforce_capacity: false
bootstrap:
  users:
    - email: admin@campus.edu
      password: change-me-now
`)
	t.Setenv("CLUBHUB_DB_HOST", "env-host")
	t.Setenv("CLUBHUB_LOG_LEVEL", "debug")
	t.Setenv("CLUBHUB_REGISTRATION_ENFORCECAPACITY", "true")
	t.Setenv("CLUBHUB_SERVER_ALLOWEDORIGINS", "https://a.test,https://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Server.Port)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Registration.EnforceCapacity)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "postgres://clubhub:@env-host:5432/clubhub?sslmode=disable", cfg.GetDatabaseConnectionString())

	require.Len(t, cfg.Bootstrap.Users, 1)
	assert.Equal(t, "administrator", cfg.Bootstrap.Users[0].Role)
	assert.Equal(t, "admin@campus.edu", cfg.Bootstrap.Users[0].Username)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CLUBHUB_JWT_SECRET="+testSecret+"\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CLUBHUB_JWT_SECRET") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "JWT secret is required"},
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "at least 32 characters"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"unknown store", func(c *Config) { c.Store.Type = "sqlite" }, "unknown store type"},
		{"postgres without host", func(c *Config) { c.Store.Type = "postgres" }, "database host is required"},
		{"s3 without bucket", func(c *Config) { c.Storage.Type = "s3" }, "storage bucket is required"},
		{"push without credentials", func(c *Config) { c.Push.Enabled = true }, "push requires"},
		{"bootstrap without password", func(c *Config) {
			c.Bootstrap.Users = []BootstrapUser{{Email: "a@b.c"}}
		}, "bootstrap user 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{JWT: JWTConfig{Secret: testSecret}}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel("/clubhub.v1.AuthService/Login"))
	assert.Equal(t, SecurityRefresh, GetSecurityLevel("/clubhub.v1.AuthService/RefreshToken"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/clubhub.v1.ClubService/ApproveClub"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/clubhub.v1.Unknown/Method"))
}
