package catalog

import (
	"context"

	"poscore/config"
	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

// seedCatalog serves the configured seed list. Used by registers that have
// no upstream catalog endpoint.
type seedCatalog struct {
	products []entity.Product
}

// NewSeedCatalog creates a catalog backed by the configured seed products.
func NewSeedCatalog(cfg *config.CatalogConfig) service.CatalogService {
	var products []entity.Product
	if cfg != nil {
		products = cfg.SeedProducts()
	}

	return &seedCatalog{products: products}
}

func (c *seedCatalog) FetchProducts(_ context.Context) ([]entity.Product, error) {
	out := make([]entity.Product, len(c.products))
	copy(out, c.products)

	return out, nil
}
