package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule provides the Postgres client to the dependency injection
// container and manages its lifecycle.
//
// Dependencies required by this module:
// - A postgres.Config instance must be available in the container.
// - A *zap.Logger instance must be available in the container.
var FXModule = fx.Module("postgres",
	fx.Provide(NewPostgres),
	fx.Invoke(RegisterPostgresLifecycle),
)

// RegisterPostgresLifecycle starts the connection monitor and retry
// goroutines on application start, and waits for them to exit before
// closing the pool on stop.
func RegisterPostgresLifecycle(lc fx.Lifecycle, pg *Postgres, log *zap.Logger) {
	runCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				pg.MonitorConnection(runCtx)
			}()
			go func() {
				defer wg.Done()
				pg.RetryConnection(runCtx)
			}()
			log.Info("postgres connection monitoring started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			if err := pg.GracefulShutdown(); err != nil {
				log.Error("failed to close postgres connection pool", zap.Error(err))
				return err
			}
			wg.Wait()
			log.Info("postgres connection pool closed")
			return nil
		},
	})
}
