// Package postgres manages the shared PostgreSQL connection.
//
// It wraps a gorm.DB handle with connection pooling, periodic health
// checks, and automatic reconnection. The handle is stored in an atomic
// pointer so it can be swapped during reconnection without blocking
// concurrent readers.
//
// Basic Usage:
//
//	import (
//		"github.com/classtrack/classrooms/v1/logger"
//		"github.com/classtrack/classrooms/v1/postgres"
//	)
//
//	log, _ := logger.NewLogger(logger.Config{Level: "info", ServiceName: "classrooms"})
//
//	pg, err := postgres.NewPostgres(postgres.Config{
//		Connection: postgres.Connection{
//			Host:    "localhost",
//			Port:    "5432",
//			User:    "postgres",
//			DbName:  "classrooms",
//			SSLMode: "disable",
//		},
//	}, log)
//	if err != nil {
//		log.Fatal("failed to connect to database", zap.Error(err))
//	}
//	defer pg.GracefulShutdown()
//
//	db := pg.DB() // *gorm.DB, safe for concurrent use
//
// FX Module Integration:
//
// This package provides an fx module that starts the monitor and retry
// goroutines on application start and shuts the pool down on stop:
//
//	app := fx.New(
//		logger.FXModule,
//		postgres.FXModule,
//		// ... other modules
//	)
//	app.Run()
//
// Thread Safety:
//
// All methods on Postgres are safe for concurrent use by multiple
// goroutines.
package postgres
