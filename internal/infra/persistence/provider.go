// Package persistence selects the snapshot backend from configuration.
package persistence

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"poscore/config"
	"poscore/internal/domain/service"
	"poscore/internal/infra/persistence/blob"
	"poscore/internal/infra/persistence/file"
)

// Backend names accepted in the snapshot configuration.
const (
	BackendFile = "file"
	BackendBlob = "blob"
)

// SnapshotStoreParams holds dependencies for SnapshotStore, injected by Fx
type SnapshotStoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewSnapshotStore creates a SnapshotStore based on configuration
func NewSnapshotStore(params SnapshotStoreParams) (service.SnapshotStore, error) {
	cfg := params.Config.Snapshot
	logger := params.Logger

	switch cfg.Backend {
	case BackendFile, "":
		if cfg.Path == "" {
			return nil, errors.New("path is required for file snapshot backend")
		}
		logger.Info("Using file snapshot store",
			slog.String("path", cfg.Path),
		)

		return file.NewSnapshotStore(cfg.Path, logger), nil

	case BackendBlob:
		if cfg.BucketURL == "" {
			return nil, errors.New("bucket URL is required for blob snapshot backend")
		}
		logger.Info("Using blob snapshot store",
			slog.String("bucket_url", cfg.BucketURL),
			slog.String("key", cfg.Key),
		)

		store, closeBucket, err := blob.NewSnapshotStore(params.Ctx, cfg.BucketURL, cfg.Key, logger)
		if err != nil {
			return nil, err
		}

		params.Lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				logger.Info("Closing snapshot bucket")

				return closeBucket()
			},
		})

		return store, nil

	default:
		return nil, errors.Errorf("unknown snapshot backend: %s", cfg.Backend)
	}
}
