// Package service declares the capability interfaces behind which the
// engine's external collaborators sit. Concrete implementations live under
// internal/infra; tests substitute doubles without touching global state.
package service

import (
	"context"

	"poscore/internal/domain/entity"
)

// CatalogService is the read-only product catalog. FetchProducts returns the
// authoritative remote view; reconciliation treats it as the winner for
// reference data.
type CatalogService interface {
	FetchProducts(ctx context.Context) ([]entity.Product, error)
}

// CustomerDirectory resolves optional checkout attribution.
type CustomerDirectory interface {
	Lookup(ctx context.Context, id string) (*entity.Customer, error)
}

// PaymentResult is the outcome of a device payment attempt.
type PaymentResult struct {
	Success        bool   `json:"success"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// PaymentDevice is an exclusive, stateful resource. It must be connected
// before use and disconnected on every exit path; an in-progress payment can
// be cancelled through CancelPayment or context cancellation.
type PaymentDevice interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	ProcessPayment(ctx context.Context, amount float64, method entity.PaymentMethod) (*PaymentResult, error)
	CancelPayment(ctx context.Context) error
}

// ReceiptPrinter consumes a finalized receipt payload. There is no contract
// back into the engine.
type ReceiptPrinter interface {
	Print(ctx context.Context, receipt *entity.Receipt) error
}

// BatchResult reports per-batch success/failure counts from the accounting
// collaborator.
type BatchResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// AccountingPublisher replays transactional facts and inventory movements to
// the remote accounting/ERP system. Ping doubles as the connectivity probe.
type AccountingPublisher interface {
	PublishTransactions(ctx context.Context, batch []entity.Transaction) (*BatchResult, error)
	PublishInventoryDeltas(ctx context.Context, deltas []entity.InventoryDelta) (*BatchResult, error)
	Ping(ctx context.Context) error
	Close() error
}

// ApproverVerifier checks an approver's credential against an identity
// directory. The engine never compares credentials against literals.
type ApproverVerifier interface {
	Verify(ctx context.Context, approverID, credential string) error
}

// SnapshotStore is the durability port for the offline-first contract.
type SnapshotStore interface {
	Save(ctx context.Context, snap *entity.Snapshot) error
	Load(ctx context.Context) (*entity.Snapshot, error)
}

// TransactionIDGenerator yields ids that are globally unique and sort
// consistently with completion order, even under rapid successive calls.
type TransactionIDGenerator interface {
	Next() string
}

// QRCodeService renders the machine-readable reference embedded in receipts.
type QRCodeService interface {
	GenerateReceiptQR(tx *entity.Transaction) ([]byte, error)
}
