package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a .env file into the process environment,
	// when one exists, before env vars are read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variable names, so
// CLASSROOMS_HTTP_ADDR maps to the http_addr key.
const envPrefix = "CLASSROOMS_"

// Settings is the root configuration of the service. Every field has a
// default suitable for local development; production deployments override
// via environment variables.
type Settings struct {
	ServiceName string `koanf:"service_name" validate:"required"`
	LogLevel    string `koanf:"log_level" validate:"required"`

	HTTPAddr    string `koanf:"http_addr" validate:"required"`
	MetricsAddr string `koanf:"metrics_addr" validate:"required"`

	DBHost     string `koanf:"db_host" validate:"required"`
	DBPort     string `koanf:"db_port" validate:"required"`
	DBUser     string `koanf:"db_user" validate:"required"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name" validate:"required"`
	DBSSLMode  string `koanf:"db_ssl_mode" validate:"required"`

	DBMaxOpenConns    int           `koanf:"db_max_open_conns" validate:"gt=0"`
	DBMaxIdleConns    int           `koanf:"db_max_idle_conns" validate:"gt=0"`
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime" validate:"gt=0"`

	// Defaults applied to every repository operation.
	RepoRetries int           `koanf:"repo_retries" validate:"gte=0"`
	RepoTimeout time.Duration `koanf:"repo_timeout" validate:"gte=0"`
}

func defaultSettings() Settings {
	return Settings{
		ServiceName:       "classrooms",
		LogLevel:          "info",
		HTTPAddr:          ":8080",
		MetricsAddr:       ":9090",
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "postgres",
		DBName:            "classrooms",
		DBSSLMode:         "disable",
		DBMaxOpenConns:    50,
		DBMaxIdleConns:    25,
		DBConnMaxLifetime: time.Minute,
		RepoRetries:       2,
		RepoTimeout:       30 * time.Second,
	}
}

// Load reads settings from the environment on top of the defaults and
// validates the result.
func Load() (Settings, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	settings := defaultSettings()
	if err := k.Unmarshal("", &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if err := validator.New().Struct(settings); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}
