package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule wires the HTTP API into the container and manages the server
// lifecycle.
//
// Dependencies required by this module:
// - A httpapi.Config instance must be available in the container.
// - The grade and section services, a *zap.Logger, and a *metrics.Metrics
//   instance must be available.
var FXModule = fx.Module("httpapi",
	fx.Provide(
		NewGradesHandler,
		NewSectionsHandler,
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// RegisterServerLifecycle starts the server on application start and shuts
// it down gracefully on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := s.Start(); err != nil && err != http.ErrServerClosed {
					log.Error("error starting HTTP server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down HTTP server")
			return s.Echo.Shutdown(ctx)
		},
	})
}
