// Package worker runs the connectivity watcher that drives offline-to-online
// reconciliation.
package worker

import (
	"context"
	"log/slog"
	"time"

	"poscore/config"
	"poscore/internal/delivery"
	"poscore/internal/domain/service"
	"poscore/internal/usecase"

	"go.uber.org/fx"
)

type connectivityWatcher struct {
	cfg       *config.Config
	logger    *slog.Logger
	publisher service.AccountingPublisher
	syncUC    usecase.SyncUsecase

	stop chan struct{}
	done chan struct{}
}

// WatcherParams holds dependencies for the connectivity watcher
type WatcherParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	Logger    *slog.Logger
	Publisher service.AccountingPublisher
	SyncUC    usecase.SyncUsecase
}

// NewWatcher creates the connectivity watcher delivery
func NewWatcher(params WatcherParams) (delivery.Delivery, error) {
	w := &connectivityWatcher{
		cfg:       params.Cfg,
		logger:    params.Logger,
		publisher: params.Publisher,
		syncUC:    params.SyncUC,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: w.shutdown,
	})

	return w, nil
}

// Serve probes the accounting backend on a fixed interval and notifies the
// sync usecase on every connectivity transition.
func (w *connectivityWatcher) Serve(ctx context.Context) error {
	defer close(w.done)

	interval := w.cfg.Sync.ProbeInterval
	w.logger.Info("Starting connectivity watcher", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Probe immediately so a register that starts online syncs without
	// waiting a full interval.
	online := w.probe(ctx, false)

	for {
		select {
		case <-ticker.C:
			online = w.probe(ctx, online)
		case <-w.stop:
			w.logger.Info("Connectivity watcher stopped")

			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// probe pings the backend once and reports transitions. Returns the new
// connectivity state.
func (w *connectivityWatcher) probe(ctx context.Context, wasOnline bool) bool {
	probeCtx, cancel := context.WithTimeout(ctx, w.cfg.Sync.ProbeTimeout)
	defer cancel()

	err := w.publisher.Ping(probeCtx)
	online := err == nil

	switch {
	case online && !wasOnline:
		w.logger.Info("Connectivity restored, starting reconciliation")
		w.syncUC.SetOnline(true)
		w.syncUC.HandleOnline(ctx)
	case !online && wasOnline:
		w.logger.Warn("Connectivity lost, queueing transactions locally",
			slog.Any("error", err),
		)
		w.syncUC.SetOnline(false)
	}

	return online
}

func (w *connectivityWatcher) shutdown(ctx context.Context) error {
	close(w.stop)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
