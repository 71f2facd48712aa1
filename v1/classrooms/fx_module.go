package classrooms

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/classtrack/classrooms/v1/observability"
	"github.com/classtrack/classrooms/v1/postgres"
	"github.com/classtrack/classrooms/v1/repository"
)

// Config carries the defaults applied to every repository operation.
type Config struct {
	Retries int
	Timeout time.Duration
}

// GradeRepositoryFactory builds a grades repository over a fresh session.
// Sessions are single-owner, so every logical call chain needs its own;
// the factory is the shared singleton, never a session.
type GradeRepositoryFactory func() *repository.Repository[Grade]

// SectionRepositoryFactory builds a sections repository over a fresh
// session.
type SectionRepositoryFactory func() *repository.Repository[Section]

// FXModule wires the repository factories and services into the container
// and runs schema migrations on startup.
//
// Dependencies required by this module:
// - A *postgres.Postgres instance must be available in the container.
// - A classrooms.Config instance must be available in the container.
// - A *zap.Logger and an observability.Observer must be available.
var FXModule = fx.Module("classrooms",
	fx.Provide(
		NewGradeRepositoryFactory,
		NewSectionRepositoryFactory,
		NewGradeService,
		NewSectionService,
	),
	fx.Invoke(RegisterMigrations),
)

// NewGradeRepositoryFactory returns a factory producing grades repositories
// over the shared connection, one session per call.
func NewGradeRepositoryFactory(pg *postgres.Postgres, cfg Config, log *zap.Logger, obs observability.Observer) GradeRepositoryFactory {
	return func() *repository.Repository[Grade] {
		return repository.NewRepository[Grade](
			repository.NewGormSession(pg.DB()),
			GradeFields,
			repository.WithLogger(log),
			repository.WithObserver(obs),
			repository.WithRetries(cfg.Retries),
			repository.WithTimeout(cfg.Timeout),
		)
	}
}

// NewSectionRepositoryFactory returns a factory producing sections
// repositories over the shared connection, one session per call.
func NewSectionRepositoryFactory(pg *postgres.Postgres, cfg Config, log *zap.Logger, obs observability.Observer) SectionRepositoryFactory {
	return func() *repository.Repository[Section] {
		return repository.NewRepository[Section](
			repository.NewGormSession(pg.DB()),
			SectionFields,
			repository.WithLogger(log),
			repository.WithObserver(obs),
			repository.WithRetries(cfg.Retries),
			repository.WithTimeout(cfg.Timeout),
		)
	}
}

// RegisterMigrations creates or updates the grades and sections tables on
// application start.
func RegisterMigrations(lc fx.Lifecycle, pg *postgres.Postgres, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := pg.DB().WithContext(ctx).AutoMigrate(&Grade{}, &Section{}); err != nil {
				return err
			}
			log.Info("database schema migrated")
			return nil
		},
	})
}
