package impl

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"poscore/config"
	"poscore/internal/domain/entity"
	"poscore/internal/domain/repository"
	"poscore/internal/domain/service"
	"poscore/internal/usecase"
)

type syncService struct {
	session    repository.SessionRepository
	store      service.SnapshotStore
	catalog    service.CatalogService
	accounting service.AccountingPublisher
	logger     *slog.Logger
	seed       []entity.Product

	online atomic.Bool

	// runMu guards the single-flight reconcile: a newer online transition
	// cancels the stale run instead of racing it.
	runMu     sync.Mutex
	cancelRun context.CancelFunc
	running   sync.WaitGroup
}

// SyncServiceParams holds dependencies for the sync service, injected by Fx.
type SyncServiceParams struct {
	fx.In

	Session    repository.SessionRepository
	Store      service.SnapshotStore
	Catalog    service.CatalogService
	Accounting service.AccountingPublisher
	Config     *config.Config
	Logger     *slog.Logger
}

// NewSyncService creates the offline persistence and reconciliation service.
func NewSyncService(params SyncServiceParams) usecase.SyncUsecase {
	var seed []entity.Product
	if params.Config.Catalog != nil {
		seed = params.Config.Catalog.SeedProducts()
	}

	return &syncService{
		session:    params.Session,
		store:      params.Store,
		catalog:    params.Catalog,
		accounting: params.Accounting,
		logger:     params.Logger,
		seed:       seed,
	}
}

func (s *syncService) Bootstrap(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load snapshot")
	}

	s.session.Restore(snap)

	// First run on this terminal: fall back to the configured seed catalog
	// until the remote catalog is reachable.
	if len(s.session.Catalog()) == 0 && len(s.seed) > 0 {
		s.session.ReplaceCatalog(s.seed)
	}

	return nil
}

func (s *syncService) Persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.session.Snapshot()); err != nil {
		return errors.Wrap(err, "save snapshot")
	}

	return nil
}

func (s *syncService) SetOnline(online bool) {
	s.online.Store(online)
}

func (s *syncService) Status(ctx context.Context) usecase.SyncStatus {
	return usecase.SyncStatus{
		Online:       s.online.Load(),
		LastSync:     s.session.LastSync(),
		PendingCount: len(s.pending()),
	}
}

// HandleOnline starts one reconciliation run per online transition. A run
// still in flight from a previous transition is superseded: its context is
// cancelled before the new run starts.
func (s *syncService) HandleOnline(ctx context.Context) {
	s.runMu.Lock()
	if s.cancelRun != nil {
		s.cancelRun()
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelRun = cancel

	// Wait for the superseded run to unwind before starting the next one,
	// so at most one reconcile is ever in flight.
	s.running.Wait()
	s.running.Add(1)
	s.runMu.Unlock()

	go func() {
		defer s.running.Done()
		defer cancel()

		if err := s.reconcile(runCtx); err != nil {
			// Recoverable by design: never a user-facing failure, retried
			// on the next online transition.
			s.logger.Warn("reconciliation failed", slog.Any("error", err))
		}
	}()
}

// reconcile refreshes reference data (remote wins) and replays locally
// recorded, not-yet-synced transactions (local wins: records are only marked
// synced, never altered or discarded).
func (s *syncService) reconcile(ctx context.Context) error {
	products, err := s.catalog.FetchProducts(ctx)
	if err != nil {
		// Keep the local snapshot; replay still proceeds.
		s.logger.Warn("catalog refresh failed", slog.Any("error", err))
	} else {
		s.session.ReplaceCatalog(products)
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "reconcile superseded")
	}

	pending := s.pending()
	if len(pending) > 0 {
		result, err := s.accounting.PublishTransactions(ctx, pending)
		if err != nil {
			return errors.Wrap(err, "publish transactions")
		}
		s.logger.Info("transaction batch replayed",
			slog.Int("succeeded", result.Succeeded),
			slog.Int("failed", result.Failed),
		)

		for _, tx := range pending {
			// Flip only the replay flag; a void or return applied while the
			// batch was in flight keeps the record pending for the next run.
			if !s.session.MarkSynced(tx.ID, tx.Status) {
				s.logger.Warn("transaction changed during replay, kept pending",
					slog.String("transaction_id", tx.ID),
				)
			}
		}

		if deltas := inventoryDeltas(pending); len(deltas) > 0 {
			if _, err := s.accounting.PublishInventoryDeltas(ctx, deltas); err != nil {
				s.logger.Warn("inventory delta publish failed", slog.Any("error", err))
			}
		}
	}

	s.session.SetLastSync(time.Now())

	return s.Persist(ctx)
}

// pending returns transactions not yet replayed to accounting.
func (s *syncService) pending() []entity.Transaction {
	var out []entity.Transaction
	for _, tx := range s.session.Transactions() {
		if !tx.Synced {
			out = append(out, tx)
		}
	}

	return out
}

// inventoryDeltas derives stock movements from a replayed batch: completed
// sales consume stock; voids and returns put it back only when their sale leg
// was replayed earlier. A sale reversed before it ever synced nets to zero
// remote movement, so it emits nothing.
func inventoryDeltas(txs []entity.Transaction) []entity.InventoryDelta {
	changes := make(map[string]int)
	order := make([]string, 0)

	for _, tx := range txs {
		sign := -1
		if tx.Status != entity.StatusCompleted {
			if !tx.SaleSynced {
				continue
			}
			sign = 1
		}
		for _, line := range tx.Lines {
			if _, seen := changes[line.ProductID]; !seen {
				order = append(order, line.ProductID)
			}
			changes[line.ProductID] += sign * line.Quantity
		}
	}

	deltas := make([]entity.InventoryDelta, 0, len(order))
	for _, id := range order {
		if changes[id] == 0 {
			continue
		}
		deltas = append(deltas, entity.InventoryDelta{ProductID: id, Change: changes[id]})
	}

	return deltas
}
