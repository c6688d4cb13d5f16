// Package memory holds the live session state behind the SessionRepository
// port. It is the single owner of mutable engine state; durable snapshots are
// taken from it after every mutating operation.
package memory

import (
	"sync"
	"time"

	"poscore/internal/domain/entity"
	"poscore/internal/domain/repository"
)

type sessionRepository struct {
	mu sync.RWMutex

	lines        []entity.CartLine
	quote        *entity.DeliveryQuote
	transactions []entity.Transaction
	catalog      []entity.Product
	lastSync     time.Time
}

// NewSessionRepository creates an empty session.
func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) Lines() []entity.CartLine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return entity.CloneLines(r.lines)
}

func (r *sessionRepository) FindLine(productID string) (entity.CartLine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.lines {
		if l.ProductID == productID {
			if l.Discount != nil {
				d := *l.Discount
				l.Discount = &d
			}

			return l, true
		}
	}

	return entity.CartLine{}, false
}

func (r *sessionRepository) UpsertLine(line entity.CartLine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.lines {
		if l.ProductID == line.ProductID {
			r.lines[i] = line

			return
		}
	}
	r.lines = append(r.lines, line)
}

func (r *sessionRepository) RemoveLine(productID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.lines {
		if l.ProductID == productID {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)

			return true
		}
	}

	return false
}

func (r *sessionRepository) ClearCart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lines = nil
	r.quote = nil
}

func (r *sessionRepository) SelectedQuote() *entity.DeliveryQuote {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.quote == nil {
		return nil
	}
	q := *r.quote

	return &q
}

func (r *sessionRepository) SetSelectedQuote(quote *entity.DeliveryQuote) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if quote == nil {
		r.quote = nil

		return
	}
	q := *quote
	r.quote = &q
}

func (r *sessionRepository) Transactions() []entity.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneTransactions(r.transactions)
}

func (r *sessionRepository) FindTransaction(id string) (entity.Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tx := range r.transactions {
		if tx.ID == id {
			return cloneTransaction(tx), true
		}
	}

	return entity.Transaction{}, false
}

func (r *sessionRepository) AppendTransaction(tx entity.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions = append(r.transactions, cloneTransaction(tx))
}

func (r *sessionRepository) ReplaceTransaction(tx entity.Transaction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.transactions {
		if existing.ID == tx.ID {
			r.transactions[i] = cloneTransaction(tx)

			return true
		}
	}

	return false
}

func (r *sessionRepository) MarkSynced(id string, status entity.TransactionStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.transactions {
		tx := &r.transactions[i]
		if tx.ID != id {
			continue
		}
		if status == entity.StatusCompleted {
			tx.SaleSynced = true
		}
		if tx.Status != status {
			// A void or return landed while the batch was in flight; the
			// newer status still needs replay.
			return false
		}
		tx.Synced = true

		return true
	}

	return false
}

func (r *sessionRepository) Catalog() []entity.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Product, len(r.catalog))
	copy(out, r.catalog)

	return out
}

func (r *sessionRepository) FindProduct(id string) (entity.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.catalog {
		if p.ID == id {
			return p, true
		}
	}

	return entity.Product{}, false
}

func (r *sessionRepository) ReplaceCatalog(products []entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.catalog = make([]entity.Product, len(products))
	copy(r.catalog, products)
}

func (r *sessionRepository) LastSync() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastSync
}

func (r *sessionRepository) SetLastSync(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSync = t
}

func (r *sessionRepository) Snapshot() *entity.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &entity.Snapshot{
		Cart: entity.CartState{
			Lines: entity.CloneLines(r.lines),
		},
		Transactions:    cloneTransactions(r.transactions),
		CatalogSnapshot: make([]entity.Product, len(r.catalog)),
		LastSync:        r.lastSync,
	}
	copy(snap.CatalogSnapshot, r.catalog)
	if r.quote != nil {
		q := *r.quote
		snap.Cart.SelectedQuote = &q
	}

	return snap
}

func (r *sessionRepository) Restore(snap *entity.Snapshot) {
	if snap == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lines = entity.CloneLines(snap.Cart.Lines)
	r.quote = nil
	if snap.Cart.SelectedQuote != nil {
		q := *snap.Cart.SelectedQuote
		r.quote = &q
	}
	r.transactions = cloneTransactions(snap.Transactions)
	r.catalog = make([]entity.Product, len(snap.CatalogSnapshot))
	copy(r.catalog, snap.CatalogSnapshot)
	r.lastSync = snap.LastSync
}

func cloneTransaction(tx entity.Transaction) entity.Transaction {
	out := tx
	out.Lines = make([]entity.TransactionLine, len(tx.Lines))
	copy(out.Lines, tx.Lines)
	if tx.ApprovedAt != nil {
		at := *tx.ApprovedAt
		out.ApprovedAt = &at
	}

	return out
}

func cloneTransactions(txs []entity.Transaction) []entity.Transaction {
	if txs == nil {
		return nil
	}
	out := make([]entity.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = cloneTransaction(tx)
	}

	return out
}
