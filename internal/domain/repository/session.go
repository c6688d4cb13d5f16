// Package repository declares the state-access ports of the engine.
package repository

import (
	"time"

	"poscore/internal/domain/entity"
)

// SessionRepository owns the live session state: open cart lines, the
// selected delivery quote, the transaction history and the catalog snapshot.
// All engine services mutate state through it so that a single snapshot can
// be taken after every operation. Implementations must be safe for
// concurrent use.
type SessionRepository interface {
	// Cart lines.
	Lines() []entity.CartLine
	FindLine(productID string) (entity.CartLine, bool)
	UpsertLine(line entity.CartLine)
	RemoveLine(productID string) bool
	ClearCart()

	// Delivery selection.
	SelectedQuote() *entity.DeliveryQuote
	SetSelectedQuote(quote *entity.DeliveryQuote)

	// Transactions.
	Transactions() []entity.Transaction
	FindTransaction(id string) (entity.Transaction, bool)
	AppendTransaction(tx entity.Transaction)
	ReplaceTransaction(tx entity.Transaction) bool
	// MarkSynced flips the replay flag for the stored transaction, but only
	// while its status still matches the replayed snapshot; a void or return
	// that landed while the batch was in flight keeps the record pending.
	// A replayed completed sale is additionally marked SaleSynced.
	MarkSynced(id string, status entity.TransactionStatus) bool

	// Catalog snapshot.
	Catalog() []entity.Product
	FindProduct(id string) (entity.Product, bool)
	ReplaceCatalog(products []entity.Product)

	// Sync bookkeeping.
	LastSync() time.Time
	SetLastSync(t time.Time)

	// Snapshot takes a deep-copied snapshot of the whole session; Restore
	// replaces the session with a previously persisted one.
	Snapshot() *entity.Snapshot
	Restore(snap *entity.Snapshot)
}
