// Package paymentdevice provides the simulated card terminal used when no
// physical device is attached.
package paymentdevice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"poscore/config"
	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

var (
	// ErrNotConnected is returned when the device is used before Connect.
	ErrNotConnected = errors.New("payment device is not connected")
	// ErrBusy is returned when a second owner tries to connect.
	ErrBusy = errors.New("payment device is already in use")
	// ErrCancelled is returned when an in-progress payment is cancelled.
	ErrCancelled = errors.New("payment was cancelled")
)

// simulatedDevice emulates an exclusive, stateful terminal: exactly one
// owner at a time, explicit connect/disconnect, cancellable payments.
type simulatedDevice struct {
	mu        sync.Mutex
	connected bool
	cancelled bool

	latency time.Duration
	logger  *slog.Logger
}

// NewSimulatedDevice creates a device with the configured processing latency.
func NewSimulatedDevice(cfg *config.Config, logger *slog.Logger) service.PaymentDevice {
	latency := 100 * time.Millisecond
	if cfg.Payment != nil && cfg.Payment.Latency > 0 {
		latency = cfg.Payment.Latency
	}

	return &simulatedDevice{latency: latency, logger: logger}
}

func (d *simulatedDevice) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrBusy
	}
	d.connected = true
	d.cancelled = false
	d.logger.Debug("payment device connected")

	return nil
}

func (d *simulatedDevice) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.connected = false
	d.logger.Debug("payment device disconnected")

	return nil
}

func (d *simulatedDevice) ProcessPayment(ctx context.Context, amount float64, method entity.PaymentMethod) (*service.PaymentResult, error) {
	d.mu.Lock()
	if !d.connected {
		d.mu.Unlock()

		return nil, ErrNotConnected
	}
	d.mu.Unlock()

	// Simulated terminal latency, interruptible by cancellation.
	select {
	case <-time.After(d.latency):
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "payment interrupted")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancelled {
		d.cancelled = false

		return nil, ErrCancelled
	}

	ref := fmt.Sprintf("PAY-%s", uuid.NewString())
	d.logger.Info("payment approved",
		slog.String("ref", ref),
		slog.Float64("amount", amount),
		slog.String("method", string(method)),
	)

	return &service.PaymentResult{Success: true, TransactionRef: ref}, nil
}

func (d *simulatedDevice) CancelPayment(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelled = true

	return nil
}
