package config

import (
	"go.uber.org/fx"

	"github.com/classtrack/classrooms/v1/classrooms"
	"github.com/classtrack/classrooms/v1/httpapi"
	"github.com/classtrack/classrooms/v1/logger"
	"github.com/classtrack/classrooms/v1/metrics"
	"github.com/classtrack/classrooms/v1/postgres"
)

// FXModule loads the settings once and derives the per-component Config
// values the other modules consume.
var FXModule = fx.Module("config",
	fx.Provide(
		Load,
		NewLoggerConfig,
		NewPostgresConfig,
		NewMetricsConfig,
		NewHTTPConfig,
		NewClassroomsConfig,
	),
)

// NewLoggerConfig derives the logger configuration.
func NewLoggerConfig(s Settings) logger.Config {
	return logger.Config{
		Level:       s.LogLevel,
		ServiceName: s.ServiceName,
	}
}

// NewPostgresConfig derives the database configuration.
func NewPostgresConfig(s Settings) postgres.Config {
	return postgres.Config{
		Connection: postgres.Connection{
			Host:     s.DBHost,
			Port:     s.DBPort,
			User:     s.DBUser,
			Password: s.DBPassword,
			DbName:   s.DBName,
			SSLMode:  s.DBSSLMode,
		},
		Pool: postgres.Pool{
			MaxOpenConns:    s.DBMaxOpenConns,
			MaxIdleConns:    s.DBMaxIdleConns,
			ConnMaxLifetime: s.DBConnMaxLifetime,
		},
	}
}

// NewMetricsConfig derives the metrics server configuration.
func NewMetricsConfig(s Settings) metrics.Config {
	return metrics.Config{
		Address:                 s.MetricsAddr,
		ServiceName:             s.ServiceName,
		EnableDefaultCollectors: true,
	}
}

// NewHTTPConfig derives the HTTP API configuration.
func NewHTTPConfig(s Settings) httpapi.Config {
	return httpapi.Config{
		Address: s.HTTPAddr,
	}
}

// NewClassroomsConfig derives the repository operation defaults.
func NewClassroomsConfig(s Settings) classrooms.Config {
	return classrooms.Config{
		Retries: s.RepoRetries,
		Timeout: s.RepoTimeout,
	}
}
