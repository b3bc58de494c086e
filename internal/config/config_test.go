package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("FIREBASE_PROJECT_ID", "plantopia-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, TokenFormatJWT, cfg.Auth.TokenFormat)
	assert.Equal(t, 5*24*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, KeyCacheMemory, cfg.Identity.KeyCache)
	assert.Contains(t, cfg.Identity.JWKSURL, "securetoken@system.gserviceaccount.com")
	assert.Equal(t, StoreFirestore, cfg.Store.Backend)
	assert.Equal(t, int64(10<<20), cfg.Photos.MaxBytes)
	assert.False(t, cfg.Photos.PhotosEnabled())
	assert.False(t, cfg.Geocode.GeocodeEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("FIREBASE_PROJECT_ID", "plantopia-test")
	t.Setenv("TRUSTED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SESSION_TOKEN_FORMAT", "paseto")
	t.Setenv("SESSION_DURATION", "1h")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("S3_BUCKET", "photos")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Len(t, cfg.Server.TrustedOrigins, 2)
	assert.Equal(t, TokenFormatPaseto, cfg.Auth.TokenFormat)
	assert.Equal(t, time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, StorePostgres, cfg.Store.Backend)
	assert.True(t, cfg.Photos.PhotosEnabled())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Env: "dev"},
			Auth:     AuthConfig{SessionSecret: testSecret, TokenFormat: TokenFormatJWT, SessionDuration: time.Hour},
			Identity: IdentityConfig{ProjectID: "p", KeyCache: KeyCacheMemory},
			Store:    StoreConfig{Backend: StoreMemory},
			Photos:   PhotoConfig{MaxBytes: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.Auth.SessionSecret = "short" }, wantErr: "SESSION_SECRET"},
		{name: "bad token format", mutate: func(c *Config) { c.Auth.TokenFormat = "xml" }, wantErr: "SESSION_TOKEN_FORMAT"},
		{name: "missing project", mutate: func(c *Config) { c.Identity.ProjectID = "" }, wantErr: "FIREBASE_PROJECT_ID"},
		{name: "bad key cache", mutate: func(c *Config) { c.Identity.KeyCache = "disk" }, wantErr: "KEY_CACHE"},
		{name: "bad backend", mutate: func(c *Config) { c.Store.Backend = "mongo" }, wantErr: "STORE_BACKEND"},
		{name: "memory in prod", mutate: func(c *Config) { c.Server.Env = "prod" }, wantErr: "only allowed"},
		{name: "zero duration", mutate: func(c *Config) { c.Auth.SessionDuration = 0 }, wantErr: "SESSION_DURATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should mention %q", err, tt.wantErr)
		})
	}
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", db.ConnectionString())

	db.ChannelBinding = "require"
	assert.Contains(t, db.ConnectionString(), "channel_binding=require")
}

func TestLoadDatabaseIgnoresAppSettings(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")

	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 7, cfg.MaxOpenConns)
	assert.Equal(t, "plantopia", cfg.DBName)
}
