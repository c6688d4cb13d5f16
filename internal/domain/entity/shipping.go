package entity

import "github.com/paulmach/orb"

// ProviderType classifies a delivery provider.
type ProviderType string

const (
	ProviderLocal         ProviderType = "local"
	ProviderInternational ProviderType = "international"
	ProviderCustom        ProviderType = "custom"
)

// ServiceArea is a named geographic region a provider delivers to.
type ServiceArea struct {
	Name    string      `json:"name"`
	Polygon orb.Polygon `json:"polygon"`
}

// DeliveryProvider is a shipping option configured for the store.
type DeliveryProvider struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Type         ProviderType  `json:"type"`
	BaseRate     float64       `json:"base_rate"`
	Enabled      bool          `json:"enabled"`
	ServiceAreas []ServiceArea `json:"service_areas,omitempty"`
}

// DeliveryQuote is a provider-specific cost/time estimate for the current
// cart. Quotes are derived, never persisted, and recomputed on every cart
// mutation because weight and score depend on cart contents.
type DeliveryQuote struct {
	ProviderID   string  `json:"provider_id"`
	ProviderName string  `json:"provider_name"`
	Cost         float64 `json:"cost"`
	TimeLabel    string  `json:"time_label"`
	Score        float64 `json:"score"`
}
