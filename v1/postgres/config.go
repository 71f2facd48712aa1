package postgres

import "time"

// Connection holds the PostgreSQL connection parameters.
type Connection struct {
	Host     string
	Port     string
	User     string
	Password string
	DbName   string
	SSLMode  string
}

// Pool tunes the underlying connection pool. Zero values fall back to the
// package defaults (50 open, 25 idle, 1 minute lifetime).
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Config contains everything needed to create a Postgres client.
type Config struct {
	Connection Connection
	Pool       Pool
}
