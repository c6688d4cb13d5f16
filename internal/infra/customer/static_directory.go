// Package customer implements the customer-directory collaborator.
package customer

import (
	"context"

	"github.com/pkg/errors"

	"poscore/config"
	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

// staticDirectory serves the config-seeded customer list. A remote directory
// can replace it behind the same interface.
type staticDirectory struct {
	customers map[string]entity.Customer
}

// NewStaticDirectory creates a directory from the configured seed.
func NewStaticDirectory(cfg *config.Config) service.CustomerDirectory {
	customers := make(map[string]entity.Customer, len(cfg.Customers))
	for _, c := range cfg.Customers {
		customers[c.ID] = entity.Customer{ID: c.ID, Name: c.Name, Email: c.Email}
	}

	return &staticDirectory{customers: customers}
}

func (d *staticDirectory) Lookup(ctx context.Context, id string) (*entity.Customer, error) {
	c, ok := d.customers[id]
	if !ok {
		return nil, errors.Errorf("customer %s not found", id)
	}

	return &c, nil
}
