package usecase

import (
	"context"
	"time"
)

// SyncStatus reports the offline store's view of the world.
type SyncStatus struct {
	Online       bool      `json:"online"`
	LastSync     time.Time `json:"last_sync"`
	PendingCount int       `json:"pending_count"` // Transactions queued for replay.
}

// SyncUsecase implements the offline-first durability and reconciliation
// contract.
type SyncUsecase interface {
	// Bootstrap loads the last durable snapshot (or seeds an empty default)
	// into the session. Called once at startup.
	Bootstrap(ctx context.Context) error

	// Persist durably writes the current session state. Called after every
	// mutating cart/transaction operation.
	Persist(ctx context.Context) error

	// HandleOnline is invoked on every offline-to-online transition. It
	// starts a reconciliation run, superseding any run still in flight.
	HandleOnline(ctx context.Context)

	// SetOnline records connectivity as observed by the watcher.
	SetOnline(online bool)

	// Status reports connectivity, last sync time and the replay queue size.
	Status(ctx context.Context) SyncStatus
}
