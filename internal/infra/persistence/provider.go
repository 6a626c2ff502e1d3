// Package persistence selects the document store backend from configuration.
package persistence

import (
	"context"
	"log/slog"

	"lessonradar/config"
	"lessonradar/internal/domain/lifecycle"
	"lessonradar/internal/domain/repository"
	"lessonradar/internal/errors"
	"lessonradar/internal/infra/persistence/memory"
	"lessonradar/internal/infra/persistence/postgres"
	"lessonradar/internal/infra/persistence/sqlite"

	"go.uber.org/fx"
)

const defaultSQLitePath = "lessonradar.db"

// Params defines the dependencies of the document store.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewDocumentStore builds the store named by storage.driver.
func NewDocumentStore(params Params) (repository.DocumentStore, error) {
	driver := params.Config.Storage.Driver
	logger := params.Logger.With(slog.String("driver", driver))

	switch driver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory document store, data is lost on restart")

		return memory.NewDocumentStore(), nil

	case config.StorageDriverSQLite:
		path := params.Config.Storage.SQLitePath
		if path == "" {
			path = defaultSQLitePath
		}

		ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		defer cancel()

		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		params.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return store.Close()
			},
		})
		logger.Info("Opened SQLite document store", slog.String("path", path))

		return store, nil

	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}

		return postgres.NewDocumentStore(db), nil

	default:
		return nil, errors.Errorf("unknown storage driver %q", driver)
	}
}
