package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poscore/internal/domain/entity"
)

func TestSessionRepository_LinesAreIsolated(t *testing.T) {
	repo := NewSessionRepository()

	repo.UpsertLine(entity.CartLine{
		ProductID: "sku-grinder",
		UnitPrice: 250,
		Quantity:  2,
		Discount:  &entity.Discount{Code: "STAFF10", Kind: entity.DiscountPercentage, Value: 10},
	})

	// Mutating a returned copy never leaks back into the session.
	lines := repo.Lines()
	lines[0].Quantity = 99
	lines[0].Discount.Value = 50

	stored, ok := repo.FindLine("sku-grinder")
	require.True(t, ok)
	assert.Equal(t, 2, stored.Quantity)
	assert.InDelta(t, 10.0, stored.Discount.Value, 1e-9)
}

func TestSessionRepository_UpsertReplacesLine(t *testing.T) {
	repo := NewSessionRepository()

	repo.UpsertLine(entity.CartLine{ProductID: "sku-grinder", Quantity: 1})
	repo.UpsertLine(entity.CartLine{ProductID: "sku-grinder", Quantity: 4})

	require.Len(t, repo.Lines(), 1)
	line, _ := repo.FindLine("sku-grinder")
	assert.Equal(t, 4, line.Quantity)

	assert.True(t, repo.RemoveLine("sku-grinder"))
	assert.False(t, repo.RemoveLine("sku-grinder"))
	assert.Empty(t, repo.Lines())
}

func TestSessionRepository_TransactionsAreImmutableCopies(t *testing.T) {
	repo := NewSessionRepository()

	repo.AppendTransaction(entity.Transaction{
		ID:     "TX-0001",
		Status: entity.StatusCompleted,
		Lines:  []entity.TransactionLine{{ProductID: "sku-grinder", Quantity: 2}},
	})

	txs := repo.Transactions()
	txs[0].Status = entity.StatusVoided
	txs[0].Lines[0].Quantity = 99

	stored, ok := repo.FindTransaction("TX-0001")
	require.True(t, ok)
	assert.Equal(t, entity.StatusCompleted, stored.Status)
	assert.Equal(t, 2, stored.Lines[0].Quantity)
}

func TestSessionRepository_ReplaceTransaction(t *testing.T) {
	repo := NewSessionRepository()
	repo.AppendTransaction(entity.Transaction{ID: "TX-0001", Status: entity.StatusCompleted})

	updated := entity.Transaction{ID: "TX-0001", Status: entity.StatusVoided, Synced: true}
	assert.True(t, repo.ReplaceTransaction(updated))
	assert.False(t, repo.ReplaceTransaction(entity.Transaction{ID: "TX-GHOST"}))

	stored, _ := repo.FindTransaction("TX-0001")
	assert.Equal(t, entity.StatusVoided, stored.Status)
	assert.True(t, stored.Synced)
}

func TestSessionRepository_SnapshotRestore(t *testing.T) {
	repo := NewSessionRepository()

	repo.UpsertLine(entity.CartLine{ProductID: "sku-grinder", Quantity: 2})
	repo.SetSelectedQuote(&entity.DeliveryQuote{ProviderID: "swift-local", Cost: 1700})
	repo.AppendTransaction(entity.Transaction{ID: "TX-0001", Status: entity.StatusCompleted})
	repo.ReplaceCatalog([]entity.Product{{ID: "sku-grinder", UnitPrice: 250}})
	repo.SetLastSync(time.Now())

	snap := repo.Snapshot()

	other := NewSessionRepository()
	other.Restore(snap)

	assert.Equal(t, repo.Lines(), other.Lines())
	assert.Equal(t, repo.Transactions(), other.Transactions())
	assert.Equal(t, repo.Catalog(), other.Catalog())
	assert.True(t, repo.LastSync().Equal(other.LastSync()))

	// The snapshot is a copy: clearing the source leaves it intact.
	repo.ClearCart()
	assert.Len(t, snap.Cart.Lines, 1)
}

func TestSessionRepository_MarkSynced(t *testing.T) {
	repo := NewSessionRepository()
	repo.AppendTransaction(entity.Transaction{ID: "TX-0001", Status: entity.StatusCompleted})

	assert.False(t, repo.MarkSynced("TX-GHOST", entity.StatusCompleted))

	assert.True(t, repo.MarkSynced("TX-0001", entity.StatusCompleted))
	stored, _ := repo.FindTransaction("TX-0001")
	assert.True(t, stored.Synced)
	assert.True(t, stored.SaleSynced)
}

func TestSessionRepository_MarkSyncedSkipsChangedStatus(t *testing.T) {
	repo := NewSessionRepository()
	repo.AppendTransaction(entity.Transaction{ID: "TX-0001", Status: entity.StatusVoided})

	// The replayed snapshot was still Completed; the stored record has
	// moved on, so it stays pending with only the sale leg recorded.
	assert.False(t, repo.MarkSynced("TX-0001", entity.StatusCompleted))

	stored, _ := repo.FindTransaction("TX-0001")
	assert.Equal(t, entity.StatusVoided, stored.Status)
	assert.False(t, stored.Synced)
	assert.True(t, stored.SaleSynced)
}
