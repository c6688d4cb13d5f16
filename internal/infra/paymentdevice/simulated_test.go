package paymentdevice

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poscore/config"
	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

func newTestDevice(t *testing.T, latency time.Duration) service.PaymentDevice {
	t.Helper()
	cfg := &config.Config{Payment: &config.PaymentConfig{Latency: latency}}

	return NewSimulatedDevice(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSimulatedDevice_ProcessPayment(t *testing.T) {
	device := newTestDevice(t, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, device.Connect(ctx))
	defer device.Disconnect(ctx)

	result, err := device.ProcessPayment(ctx, 2687.5, entity.PaymentCard)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.TransactionRef, "PAY-"))
}

func TestSimulatedDevice_ExclusiveOwnership(t *testing.T) {
	device := newTestDevice(t, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, device.Connect(ctx))
	assert.ErrorIs(t, device.Connect(ctx), ErrBusy)

	require.NoError(t, device.Disconnect(ctx))
	assert.NoError(t, device.Connect(ctx))
}

func TestSimulatedDevice_RequiresConnect(t *testing.T) {
	device := newTestDevice(t, time.Millisecond)

	_, err := device.ProcessPayment(context.Background(), 100, entity.PaymentCash)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSimulatedDevice_ContextCancellation(t *testing.T) {
	device := newTestDevice(t, time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, device.Connect(ctx))
	defer device.Disconnect(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := device.ProcessPayment(ctx, 100, entity.PaymentCash)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedDevice_CancelPayment(t *testing.T) {
	device := newTestDevice(t, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, device.Connect(ctx))
	defer device.Disconnect(ctx)

	go func() {
		time.Sleep(5 * time.Millisecond)
		device.CancelPayment(ctx)
	}()

	_, err := device.ProcessPayment(ctx, 100, entity.PaymentCash)
	assert.ErrorIs(t, err, ErrCancelled)
}
