// Package config loads runtime settings from the environment through viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the service.
type Config struct {
	AppPort        string
	DBDriver       string
	DatabaseDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBTimeout      time.Duration // deadline of the database work of one write
	JWTSecret      string
	TokenTTL       time.Duration
	RabbitMQURL    string // empty disables user events
	LogLevel       string
}

// SetDefaults registers development defaults on v.
// NOTE: the JWT secret default is for local runs only.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=userhub port=5432 sslmode=disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_ACQUIRE_TIMEOUT", "5s")
	v.SetDefault("JWT_SECRET", "local_jwt_secret")
	v.SetDefault("TOKEN_TTL", "8760h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads the configuration from v, falling back to the defaults.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		AppPort:        v.GetString("APP_PORT"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		DBTimeout:      v.GetDuration("DB_ACQUIRE_TIMEOUT"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
	}

	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	// a single sign-up needs two connections at once, so 1 can never succeed.
	// Exhaustion under concurrent sign-ups is bounded by DB_ACQUIRE_TIMEOUT.
	if cfg.DBMaxOpenConns == 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be 0 (unlimited) or at least 2")
	}
	if cfg.DBTimeout <= 0 {
		return Config{}, fmt.Errorf("DB_ACQUIRE_TIMEOUT must be positive, got %s", cfg.DBTimeout)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}
