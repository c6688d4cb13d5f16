package shipping

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poscore/internal/domain/entity"
)

func testProviders() []entity.DeliveryProvider {
	return []entity.DeliveryProvider{
		{ID: "globex", Name: "Globex International", Type: entity.ProviderInternational, BaseRate: 8500, Enabled: true},
		{ID: "swift-local", Name: "Swift Local", Type: entity.ProviderLocal, BaseRate: 1500, Enabled: true},
	}
}

func cartOfQuantity(qty int) []entity.CartLine {
	return []entity.CartLine{{ProductID: "p", UnitPrice: 100, Quantity: qty}}
}

func TestRank_LocalBeatsInternational(t *testing.T) {
	scorer := NewScorer(testProviders(), Options{})

	// Two units at the default 0.5 weight-units each -> cart weight 1.
	quotes := scorer.Rank(cartOfQuantity(2), nil)
	require.Len(t, quotes, 2)

	assert.Equal(t, "swift-local", quotes[0].ProviderID)
	assert.Equal(t, "globex", quotes[1].ProviderID)
	assert.Greater(t, quotes[0].Score, quotes[1].Score)

	// cost = baseRate + weight * surcharge
	assert.InDelta(t, 1500+1*200, quotes[0].Cost, 1e-9)
	assert.InDelta(t, 8500+1*200, quotes[1].Cost, 1e-9)

	assert.Equal(t, "1-3 days", quotes[0].TimeLabel)
	assert.Equal(t, "5-7 days", quotes[1].TimeLabel)
}

func TestRank_ScoreFormula(t *testing.T) {
	scorer := NewScorer(testProviders(), Options{})

	quotes := scorer.Rank(cartOfQuantity(1), nil)
	require.Len(t, quotes, 2)

	// score = (1 - baseRate/10000)*0.6 + speed*0.4
	assert.InDelta(t, (1-0.15)*0.6+1.0*0.4, quotes[0].Score, 1e-9)
	assert.InDelta(t, (1-0.85)*0.6+0.7*0.4, quotes[1].Score, 1e-9)
}

func TestRank_DeterministicAndIdempotent(t *testing.T) {
	scorer := NewScorer(testProviders(), Options{})
	cart := cartOfQuantity(3)

	first := scorer.Rank(cart, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Rank(cart, nil))
	}
}

func TestRank_TieBrokenByProviderID(t *testing.T) {
	providers := []entity.DeliveryProvider{
		{ID: "bravo", Type: entity.ProviderLocal, BaseRate: 2000, Enabled: true},
		{ID: "alpha", Type: entity.ProviderLocal, BaseRate: 2000, Enabled: true},
	}
	scorer := NewScorer(providers, Options{})

	quotes := scorer.Rank(cartOfQuantity(1), nil)
	require.Len(t, quotes, 2)
	assert.Equal(t, "alpha", quotes[0].ProviderID)
	assert.Equal(t, "bravo", quotes[1].ProviderID)
}

func TestRank_SkipsDisabledProviders(t *testing.T) {
	providers := testProviders()
	providers[1].Enabled = false
	scorer := NewScorer(providers, Options{})

	quotes := scorer.Rank(cartOfQuantity(1), nil)
	require.Len(t, quotes, 1)
	assert.Equal(t, "globex", quotes[0].ProviderID)
}

func TestRank_EmptyProviderListYieldsEmptyRanking(t *testing.T) {
	scorer := NewScorer(nil, Options{})
	assert.Empty(t, scorer.Rank(cartOfQuantity(5), nil))
}

func TestRank_ServiceAreaFiltering(t *testing.T) {
	square := orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}
	providers := []entity.DeliveryProvider{
		{
			ID: "fenced", Type: entity.ProviderLocal, BaseRate: 1000, Enabled: true,
			ServiceAreas: []entity.ServiceArea{{Name: "downtown", Polygon: square}},
		},
		{ID: "anywhere", Type: entity.ProviderInternational, BaseRate: 9000, Enabled: true},
	}
	scorer := NewScorer(providers, Options{})

	inside := orb.Point{5, 5}
	quotes := scorer.Rank(cartOfQuantity(1), &inside)
	require.Len(t, quotes, 2)

	outside := orb.Point{50, 50}
	quotes = scorer.Rank(cartOfQuantity(1), &outside)
	require.Len(t, quotes, 1)
	assert.Equal(t, "anywhere", quotes[0].ProviderID)
}

func TestEstimatedWeight(t *testing.T) {
	scorer := NewScorer(nil, Options{})

	lines := []entity.CartLine{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 3},
	}
	assert.InDelta(t, 2.5, scorer.EstimatedWeight(lines), 1e-9)
}
