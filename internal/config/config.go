package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"BLDR IQ"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"bldriq"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Storage struct {
		// Backend selects where projects live. "memory" keeps them in process,
		// the way the browser build kept them in local storage.
		Backend string `envconfig:"STORAGE_BACKEND" default:"postgres"`
	}

	Auth struct {
		JWTSecret   string `envconfig:"JWT_SECRET"`
		GuestUserID string `envconfig:"GUEST_USER_ID" default:"guest-user-1"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Catalog struct {
		Path      string `envconfig:"CATALOG_PATH"`
		ScopesCSV string `envconfig:"CATALOG_SCOPES_CSV"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// UsesDatabase reports whether the configured backend needs a postgres connection.
func (c *Config) UsesDatabase() bool {
	return c.Storage.Backend != StorageBackendMemory
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Storage.Backend {
	case StorageBackendPostgres, StorageBackendMemory:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return &cfg, nil
}
