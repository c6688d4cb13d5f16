package config

import (
	"github.com/paulmach/orb"

	"poscore/internal/domain/entity"
)

// TaxSchedule converts the configured tax rules into domain entities.
func (p *PricingConfig) TaxSchedule() []entity.TaxRule {
	if p == nil {
		return nil
	}
	rules := make([]entity.TaxRule, 0, len(p.TaxRules))
	for _, r := range p.TaxRules {
		rules = append(rules, entity.TaxRule{
			Name:        r.Name,
			Rate:        r.Rate,
			Description: r.Description,
		})
	}

	return rules
}

// FindDiscount resolves a discount catalog code.
func (p *PricingConfig) FindDiscount(code string) (*entity.Discount, bool) {
	if p == nil {
		return nil, false
	}
	for _, d := range p.DiscountCatalog {
		if d.Code != code {
			continue
		}

		return &entity.Discount{
			Code:        d.Code,
			Kind:        entity.DiscountKind(d.Kind),
			Value:       d.Value,
			Description: d.Description,
		}, true
	}

	return nil, false
}

// Entities converts the configured providers into domain entities.
func (s *ShippingConfig) Entities() []entity.DeliveryProvider {
	if s == nil {
		return nil
	}
	providers := make([]entity.DeliveryProvider, 0, len(s.Providers))
	for _, p := range s.Providers {
		providers = append(providers, p.Entity())
	}

	return providers
}

// Entity converts one provider entry, closing each service-area ring.
func (p ProviderConfig) Entity() entity.DeliveryProvider {
	areas := make([]entity.ServiceArea, 0, len(p.ServiceAreas))
	for _, a := range p.ServiceAreas {
		ring := make(orb.Ring, 0, len(a.Ring)+1)
		for _, pt := range a.Ring {
			ring = append(ring, orb.Point{pt[0], pt[1]})
		}
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		areas = append(areas, entity.ServiceArea{
			Name:    a.Name,
			Polygon: orb.Polygon{ring},
		})
	}

	return entity.DeliveryProvider{
		ID:           p.ID,
		Name:         p.Name,
		Type:         entity.ProviderType(p.Type),
		BaseRate:     p.BaseRate,
		Enabled:      p.Enabled,
		ServiceAreas: areas,
	}
}

// SeedProducts converts the seed catalog into domain entities.
func (c *CatalogConfig) SeedProducts() []entity.Product {
	if c == nil {
		return nil
	}
	products := make([]entity.Product, 0, len(c.Seed))
	for _, s := range c.Seed {
		products = append(products, entity.Product{
			ID:        s.ID,
			Name:      s.Name,
			UnitPrice: s.UnitPrice,
			UnitCost:  s.UnitCost,
			Stock:     s.Stock,
		})
	}

	return products
}
