package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported values for the enumerated settings.
const (
	TokenFormatJWT    = "jwt"
	TokenFormatPaseto = "paseto"

	KeyCacheMemory = "memory"
	KeyCacheRedis  = "redis"

	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"
)

// minSessionSecretLen is the minimum accepted SESSION_SECRET length in bytes.
const minSessionSecretLen = 32

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Identity IdentityConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Photos   PhotoConfig
	Geocode  GeocodeConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Env             string        `env:"APP_ENV" envDefault:"dev"` // dev or prod
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	TrustedOrigins  []string      `env:"TRUSTED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"` // CORS allowed origins for cookie auth
}

type AuthConfig struct {
	// SessionSecret is the server-held secret the session signing key is derived from
	SessionSecret   string        `env:"SESSION_SECRET"`
	TokenFormat     string        `env:"SESSION_TOKEN_FORMAT" envDefault:"jwt"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"120h"`
}

type IdentityConfig struct {
	ProjectID string `env:"FIREBASE_PROJECT_ID"`
	JWKSURL   string `env:"FIREBASE_JWKS_URL" envDefault:"https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"`
	KeyCache  string `env:"KEY_CACHE" envDefault:"memory"`
}

type StoreConfig struct {
	Backend           string `env:"STORE_BACKEND" envDefault:"firestore"`
	FirestoreDatabase string `env:"FIRESTORE_DATABASE" envDefault:"(default)"`
	CredentialsFile   string `env:"GOOGLE_CREDENTIALS_FILE"`
}

type DatabaseConfig struct {
	Host           string `env:"DB_HOST" envDefault:"localhost"`
	Port           string `env:"DB_PORT" envDefault:"5432"`
	User           string `env:"DB_USER" envDefault:"postgres"`
	Password       string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"plantopia"`
	SSLMode        string `env:"DB_SSLMODE" envDefault:"disable"`
	ChannelBinding string `env:"DB_CHANNEL_BINDING"` // "require" for Neon DB, empty for local
	MaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns   int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// PhotoConfig configures the S3-compatible bucket holding plant photos.
// Uploads are disabled when Bucket is empty.
type PhotoConfig struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT"` // MinIO or other S3-compatible endpoint
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`
	PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`
	MaxBytes        int64  `env:"MAX_PHOTO_BYTES" envDefault:"10485760"`
}

type GeocodeConfig struct {
	APIKey  string `env:"OPENWEATHER_API_KEY"`
	BaseURL string `env:"OPENWEATHER_BASE_URL" envDefault:"https://api.openweathermap.org"`
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only the PostgreSQL settings, for tools that do not
// serve requests
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()

	cfg := &DatabaseConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.SessionSecret) < minSessionSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes, got %d", minSessionSecretLen, len(c.Auth.SessionSecret)))
	}
	if c.Auth.TokenFormat != TokenFormatJWT && c.Auth.TokenFormat != TokenFormatPaseto {
		errs = append(errs, fmt.Errorf("SESSION_TOKEN_FORMAT must be %q or %q, got %q", TokenFormatJWT, TokenFormatPaseto, c.Auth.TokenFormat))
	}
	if c.Auth.SessionDuration <= 0 {
		errs = append(errs, errors.New("SESSION_DURATION must be positive"))
	}

	if c.Identity.ProjectID == "" {
		errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required"))
	}
	if c.Identity.KeyCache != KeyCacheMemory && c.Identity.KeyCache != KeyCacheRedis {
		errs = append(errs, fmt.Errorf("KEY_CACHE must be %q or %q, got %q", KeyCacheMemory, KeyCacheRedis, c.Identity.KeyCache))
	}

	switch c.Store.Backend {
	case StoreFirestore, StorePostgres, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be one of firestore, postgres, memory, got %q", c.Store.Backend))
	}
	if c.Store.Backend == StoreMemory && !c.Server.IsDevelopment() {
		errs = append(errs, errors.New("STORE_BACKEND=memory is only allowed when APP_ENV=dev"))
	}

	if c.Photos.MaxBytes <= 0 {
		errs = append(errs, errors.New("MAX_PHOTO_BYTES must be positive"))
	}

	return errors.Join(errs...)
}

func (c *DatabaseConfig) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// Add channel_binding if configured (required for Neon DB)
	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

// PhotosEnabled reports whether an upload bucket is configured
func (c *PhotoConfig) PhotosEnabled() bool {
	return c.Bucket != ""
}

// GeocodeEnabled reports whether reverse geocoding is configured
func (c *GeocodeConfig) GeocodeEnabled() bool {
	return c.APIKey != ""
}
