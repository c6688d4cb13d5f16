// Package shipping ranks delivery providers against the current cart and
// produces selectable cost/speed-weighted quotes.
package shipping

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"poscore/internal/domain/entity"
)

// Options are the scorer's tunable constants. Zero values are replaced by
// the documented defaults.
type Options struct {
	PerItemWeight     float64 // Weight-units per unit quantity. Default 0.5.
	WeightSurcharge   float64 // Currency-units per weight-unit. Default 200.
	CostNormalization float64 // Divisor for normalized cost. Default 10000.
	CostWeight        float64 // Default 0.6.
	SpeedWeight       float64 // Default 0.4.
}

func (o Options) withDefaults() Options {
	if o.PerItemWeight == 0 {
		o.PerItemWeight = 0.5
	}
	if o.WeightSurcharge == 0 {
		o.WeightSurcharge = 200
	}
	if o.CostNormalization == 0 {
		o.CostNormalization = 10000
	}
	if o.CostWeight == 0 && o.SpeedWeight == 0 {
		o.CostWeight = 0.6
		o.SpeedWeight = 0.4
	}

	return o
}

// Scorer ranks a fixed provider list for successive carts.
type Scorer struct {
	providers []entity.DeliveryProvider
	opts      Options
}

// NewScorer creates a scorer over the configured provider list.
func NewScorer(providers []entity.DeliveryProvider, opts Options) *Scorer {
	return &Scorer{providers: providers, opts: opts.withDefaults()}
}

// EstimatedWeight derives the cart weight from line quantities and the
// per-item weight constant.
func (s *Scorer) EstimatedWeight(lines []entity.CartLine) float64 {
	var qty int
	for _, l := range lines {
		qty += l.Quantity
	}

	return float64(qty) * s.opts.PerItemWeight
}

// Rank produces quotes for every enabled provider that serves the delivery
// point (nil means no service-area filtering), sorted descending by score
// with provider id as the deterministic tie break. An empty result is not an
// error; it simply means no delivery cost.
func (s *Scorer) Rank(lines []entity.CartLine, dest *orb.Point) []entity.DeliveryQuote {
	weight := s.EstimatedWeight(lines)

	quotes := make([]entity.DeliveryQuote, 0, len(s.providers))
	for _, p := range s.providers {
		if !p.Enabled {
			continue
		}
		if dest != nil && !serves(p, *dest) {
			continue
		}

		quotes = append(quotes, entity.DeliveryQuote{
			ProviderID:   p.ID,
			ProviderName: p.Name,
			Cost:         p.BaseRate + weight*s.opts.WeightSurcharge,
			TimeLabel:    timeLabel(p.Type),
			Score:        s.score(p),
		})
	}

	sort.Slice(quotes, func(i, j int) bool {
		if quotes[i].Score != quotes[j].Score {
			return quotes[i].Score > quotes[j].Score
		}

		return quotes[i].ProviderID < quotes[j].ProviderID
	})

	return quotes
}

func (s *Scorer) score(p entity.DeliveryProvider) float64 {
	normalizedCost := 1 - p.BaseRate/s.opts.CostNormalization

	return normalizedCost*s.opts.CostWeight + speedFactor(p.Type)*s.opts.SpeedWeight
}

// serves reports whether the delivery point falls inside any of the
// provider's service areas. Providers without areas serve everywhere.
func serves(p entity.DeliveryProvider, dest orb.Point) bool {
	if len(p.ServiceAreas) == 0 {
		return true
	}
	for _, area := range p.ServiceAreas {
		if planar.PolygonContains(area.Polygon, dest) {
			return true
		}
	}

	return false
}

// timeLabel is configuration data keyed by provider type, not a computation.
func timeLabel(t entity.ProviderType) string {
	switch t {
	case entity.ProviderLocal:
		return "1-3 days"
	case entity.ProviderInternational:
		return "5-7 days"
	default:
		return "3-5 days"
	}
}

func speedFactor(t entity.ProviderType) float64 {
	switch t {
	case entity.ProviderLocal:
		return 1.0
	case entity.ProviderInternational:
		return 0.7
	default:
		return 0.85
	}
}
