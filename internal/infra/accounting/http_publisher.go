// Package accounting implements the ERP sync collaborator: it replays
// transaction batches and inventory deltas once connectivity is available.
package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

// httpPublisher posts batches to the accounting system's HTTP endpoint.
type httpPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// TransactionBatch is the wire shape of a replayed batch.
type TransactionBatch struct {
	Transactions []entity.Transaction `json:"transactions,omitempty"`
	Inventory    []entity.InventoryDelta `json:"inventory,omitempty"`
	SentAt       time.Time            `json:"sent_at"`
}

// NewHTTPPublisher creates a publisher for the given batch endpoint.
func NewHTTPPublisher(endpoint string, logger *slog.Logger) service.AccountingPublisher {
	return &httpPublisher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (p *httpPublisher) PublishTransactions(ctx context.Context, batch []entity.Transaction) (*service.BatchResult, error) {
	result, err := p.post(ctx, TransactionBatch{Transactions: batch, SentAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}

	p.logger.Info("[Accounting] Transaction batch accepted",
		slog.Int("count", len(batch)),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

func (p *httpPublisher) PublishInventoryDeltas(ctx context.Context, deltas []entity.InventoryDelta) (*service.BatchResult, error) {
	return p.post(ctx, TransactionBatch{Inventory: deltas, SentAt: time.Now().UTC()})
}

func (p *httpPublisher) post(ctx context.Context, batch TransactionBatch) (*service.BatchResult, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("accounting endpoint returned status %d", resp.StatusCode)
	}

	var result service.BatchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decode batch result")
	}

	return &result, nil
}

// Ping doubles as the connectivity probe for the sync worker.
func (p *httpPublisher) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.endpoint, nil)
	if err != nil {
		return errors.WithStack(err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "probe accounting endpoint")
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		return errors.Errorf("accounting endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// Close releases resources (no-op for HTTP client).
func (p *httpPublisher) Close() error {
	return nil
}
