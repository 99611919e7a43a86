package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Log struct {
		Level  string
		Format string
	}
	Auth struct {
		JWTSecret  string
		TokenTTL   time.Duration
		RateLimit  float64
		RateBurst  int
		BcryptCost int
	}
	Store struct {
		Driver string
	}
	Mongo struct {
		URI      string
		Database string
	}
	SQLite struct {
		Path string
	}
	Storage struct {
		Region     string
		Endpoint   string
		PresignTTL time.Duration
		Enabled    bool
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
// Environment variables use the MYFLIX_ prefix, e.g. MYFLIX_AUTH_JWTSECRET.
func Load() (Config, error) {
	// a missing .env file is fine; real env vars win over it
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MYFLIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", "168h")
	v.SetDefault("auth.ratelimit", 1.0)
	v.SetDefault("auth.rateburst", 10)
	v.SetDefault("auth.bcryptcost", 0)
	v.SetDefault("store.driver", StoreMongo)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "myFlixDB")
	v.SetDefault("sqlite.path", "data/myflix.db")
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.presignttl", "15m")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth jwt secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive")
	}
	switch c.Store.Driver {
	case StoreMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("mongo uri and database are required")
		}
	case StoreSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}
