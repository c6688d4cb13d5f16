package catalog

import (
	"log/slog"

	"go.uber.org/fx"

	"poscore/config"
	"poscore/internal/domain/service"
)

// CatalogParams holds dependencies for CatalogService, injected by Fx
type CatalogParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewCatalogService creates a CatalogService based on configuration
func NewCatalogService(params CatalogParams) (service.CatalogService, error) {
	cfg := params.Config.Catalog

	if cfg == nil || cfg.RemoteURL == "" {
		params.Logger.Info("No remote catalog configured, serving the seed list")

		return NewSeedCatalog(cfg), nil
	}

	params.Logger.Info("Using remote HTTP catalog",
		slog.String("endpoint", cfg.RemoteURL),
	)

	return NewHTTPCatalog(params.Config)
}
