// Package catalog implements the read-only product catalog collaborator.
package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"poscore/config"
	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

// httpCatalog fetches the authoritative product list over HTTP. Reconciliation
// treats its answer as the winner for reference data.
type httpCatalog struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPCatalog creates the remote catalog client.
func NewHTTPCatalog(cfg *config.Config) (service.CatalogService, error) {
	if cfg.Catalog == nil || cfg.Catalog.RemoteURL == "" {
		return nil, errors.New("catalog remote URL is required")
	}

	return &httpCatalog{
		endpoint: cfg.Catalog.RemoteURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

func (c *httpCatalog) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var products []entity.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "decode catalog response")
	}

	return products, nil
}
