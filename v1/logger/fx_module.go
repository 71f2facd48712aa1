package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule provides the application logger to the dependency injection
// container and registers a shutdown hook that flushes buffered entries.
//
// Dependencies required by this module:
// - A logger.Config instance must be available in the container.
var FXModule = fx.Module("logger",
	fx.Provide(NewLogger),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle syncs the logger on application stop so no
// buffered entries are lost during shutdown.
func RegisterLoggerLifecycle(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync can fail on stderr; shutdown must not.
			_ = log.Sync()
			return nil
		},
	})
}
