package accounting

import (
	"context"
	"log/slog"

	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

// noopPublisher accepts every batch without sending it anywhere. Used for
// development and for stores that reconcile books manually.
type noopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that discards batches.
func NewNoopPublisher(logger *slog.Logger) service.AccountingPublisher {
	return &noopPublisher{logger: logger}
}

func (p *noopPublisher) PublishTransactions(_ context.Context, batch []entity.Transaction) (*service.BatchResult, error) {
	p.logger.Debug("[NoopPublisher] Discarding transaction batch", slog.Int("count", len(batch)))

	return &service.BatchResult{Succeeded: len(batch)}, nil
}

func (p *noopPublisher) PublishInventoryDeltas(_ context.Context, deltas []entity.InventoryDelta) (*service.BatchResult, error) {
	return &service.BatchResult{Succeeded: len(deltas)}, nil
}

func (p *noopPublisher) Ping(_ context.Context) error {
	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}
