// Package printer provides the development stand-in for the receipt print
// collaborator. Rendering is external to the engine; only the payload shape
// is owned here.
package printer

import (
	"context"
	"log/slog"

	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

type logPrinter struct {
	logger *slog.Logger
}

// NewLogPrinter creates a printer that records receipts to the log.
func NewLogPrinter(logger *slog.Logger) service.ReceiptPrinter {
	return &logPrinter{logger: logger}
}

func (p *logPrinter) Print(ctx context.Context, receipt *entity.Receipt) error {
	p.logger.Info("receipt printed",
		slog.String("transaction_id", receipt.Transaction.ID),
		slog.Float64("total", receipt.Transaction.Total),
		slog.Int("lines", len(receipt.Transaction.Lines)),
		slog.Bool("qr_attached", len(receipt.QRCode) > 0),
	)

	return nil
}
