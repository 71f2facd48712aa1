package postgres

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Postgres is a wrapper around gorm.DB that provides connection monitoring,
// automatic reconnection, and access to the shared database handle.
//
// Concurrency: the active *gorm.DB pointer is stored in an atomic pointer
// and can be swapped during reconnection without blocking readers.
type Postgres struct {
	cfg             Config
	log             *zap.Logger
	client          atomic.Pointer[gorm.DB]
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// NewPostgres creates a new Postgres instance with the provided
// configuration. It establishes the initial database connection and sets up
// the internal state for connection monitoring and recovery.
//
// Returns *Postgres concrete type (following Go best practice: "accept
// interfaces, return structs").
func NewPostgres(cfg Config, log *zap.Logger) (*Postgres, error) {
	conn, err := connectToPostgres(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("error in connecting to postgres: %w", err)
	}

	pg := &Postgres{
		cfg:             cfg,
		log:             log,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
	pg.client.Store(conn)
	return pg, nil
}

// DB returns the current shared database handle. Callers wrap it in a
// session per logical call chain; the handle itself is safe for concurrent
// use.
func (p *Postgres) DB() *gorm.DB {
	return p.client.Load()
}

// connectToPostgres establishes a connection to the PostgreSQL database
// using the provided configuration, and configures the connection pool.
func connectToPostgres(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Connection.Host,
		cfg.Connection.Port,
		cfg.Connection.User,
		cfg.Connection.Password,
		cfg.Connection.DbName,
		cfg.Connection.SSLMode)

	database, err := gorm.Open(
		postgres.Open(connStr),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgreSQL database instance: %w", err)
	}

	// Zero config fields fall back to package defaults.
	maxOpen := cfg.Pool.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 50
	}
	maxIdle := cfg.Pool.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 25
	}
	maxLifetime := cfg.Pool.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = 1 * time.Minute
	}

	databaseInstance.SetMaxOpenConns(maxOpen)
	databaseInstance.SetMaxIdleConns(maxIdle)
	databaseInstance.SetConnMaxLifetime(maxLifetime)

	log.Info("connected to PostgreSQL database",
		zap.String("host", cfg.Connection.Host),
		zap.String("database", cfg.Connection.DbName))

	return database, nil
}

// RetryConnection continuously attempts to reconnect to the database when
// notified of a connection failure. It operates as a goroutine that waits
// for signals on retryChanSignal before attempting reconnection, and
// respects context cancellation and shutdown signals.
func (p *Postgres) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-p.shutdownSignal:
			p.log.Info("stopping reconnection loop due to shutdown signal")
			return
		case <-ctx.Done():
			return
		case <-p.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-p.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToPostgres(p.cfg, p.log)
					if err != nil {
						p.log.Error("PostgreSQL reconnection failed", zap.Error(err))
						time.Sleep(time.Second)
						continue innerLoop
					}
					p.client.Store(newConn)
					p.log.Info("successfully reconnected to PostgreSQL database")
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection periodically checks the health of the database
// connection and signals the RetryConnection goroutine when a failure is
// detected. Health checks run every 10 seconds.
func (p *Postgres) MonitorConnection(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			p.log.Info("stopping connection monitor due to shutdown signal")
			return
		case <-ticker.C:
			if err := p.healthCheck(); err != nil {
				select {
				case p.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// healthCheck pings the database with a 5 second timeout. It snapshots the
// current connection pointer first; no lock is held while pinging.
func (p *Postgres) healthCheck() error {
	dbConn := p.DB()
	if dbConn == nil {
		return fmt.Errorf("database client is not initialized")
	}

	db, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}
	return nil
}

// GracefulShutdown stops the background goroutines and closes the
// underlying connection pool.
func (p *Postgres) GracefulShutdown() error {
	p.closeShutdownOnce.Do(func() {
		close(p.shutdownSignal)
	})
	p.closeRetryChanOnce.Do(func() {
		close(p.retryChanSignal)
	})

	if db := p.DB(); db != nil {
		sqlDB, err := db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
