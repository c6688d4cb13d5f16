// Package impl contains the concrete use-case services of the checkout engine.
package impl

import (
	"context"
	"log/slog"
	"sync"

	"github.com/paulmach/orb"
	"go.uber.org/fx"

	"poscore/config"
	domainerrors "poscore/internal/domain/errors"
	"poscore/internal/domain/repository"
	"poscore/internal/pricing"
	"poscore/internal/shipping"
	"poscore/internal/usecase"

	"poscore/internal/domain/entity"
)

// Delivery selection modes. Smart selection keeps the top-ranked quote; a
// manual choice is honored until its provider drops out of the ranking; none
// means the caller explicitly declined delivery.
const (
	selectionAuto   = "auto"
	selectionManual = "manual"
	selectionNone   = "none"
)

type cartService struct {
	mu sync.Mutex

	session repository.SessionRepository
	calc    *pricing.Calculator
	scorer  *shipping.Scorer
	sync    usecase.SyncUsecase
	pricing *config.PricingConfig
	logger  *slog.Logger

	smartSelection bool
	mode           string
	manualProvider string
	destination    *orb.Point
}

// CartServiceParams holds dependencies for the cart service, injected by Fx.
type CartServiceParams struct {
	fx.In

	Session repository.SessionRepository
	Calc    *pricing.Calculator
	Scorer  *shipping.Scorer
	Sync    usecase.SyncUsecase
	Config  *config.Config
	Logger  *slog.Logger
}

// NewCartService creates the session-scoped cart aggregator.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	smart := params.Config.Shipping != nil && params.Config.Shipping.SmartSelection

	return &cartService{
		session:        params.Session,
		calc:           params.Calc,
		scorer:         params.Scorer,
		sync:           params.Sync,
		pricing:        params.Config.Pricing,
		logger:         params.Logger,
		smartSelection: smart,
		mode:           selectionAuto,
	}
}

func (s *cartService) AddItem(ctx context.Context, productID string, quantity int) (*usecase.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		return nil, domainerrors.ErrInvalidQuantity
	}

	product, ok := s.session.FindProduct(productID)
	if !ok {
		return nil, domainerrors.ErrProductNotFound.WithDetails(productID)
	}

	if line, exists := s.session.FindLine(productID); exists {
		line.Quantity += quantity
		s.session.UpsertLine(line)
	} else {
		s.session.UpsertLine(entity.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			Quantity:  quantity,
		})
	}

	return s.afterMutation(ctx), nil
}

func (s *cartService) RemoveItem(ctx context.Context, productID string) (*usecase.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Removing an absent line is a no-op, not an error.
	s.session.RemoveLine(productID)

	return s.afterMutation(ctx), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, productID string, quantity int) (*usecase.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		return nil, domainerrors.ErrInvalidQuantity
	}

	line, exists := s.session.FindLine(productID)
	if !exists {
		return nil, domainerrors.ErrLineNotFound.WithDetails(productID)
	}

	line.Quantity = quantity
	s.session.UpsertLine(line)

	return s.afterMutation(ctx), nil
}

func (s *cartService) ApplyDiscount(ctx context.Context, productID, discountCode string) (*usecase.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, exists := s.session.FindLine(productID)
	if !exists {
		return nil, domainerrors.ErrLineNotFound.WithDetails(productID)
	}

	discount, ok := s.pricing.FindDiscount(discountCode)
	if !ok {
		return nil, domainerrors.ErrValidation.WithDetails("unknown discount code: " + discountCode)
	}

	line.Discount = discount
	s.session.UpsertLine(line)

	return s.afterMutation(ctx), nil
}

func (s *cartService) RemoveDiscount(ctx context.Context, productID string) (*usecase.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, exists := s.session.FindLine(productID)
	if !exists {
		return nil, domainerrors.ErrLineNotFound.WithDetails(productID)
	}

	line.Discount = nil
	s.session.UpsertLine(line)

	return s.afterMutation(ctx), nil
}

func (s *cartService) SetDeliveryQuote(ctx context.Context, providerID *string) (*usecase.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if providerID == nil {
		s.mode = selectionNone
		s.manualProvider = ""

		return s.afterMutation(ctx), nil
	}

	quotes := s.rank()
	if findQuote(quotes, *providerID) == nil {
		return nil, domainerrors.ErrProviderNotFound.WithDetails(*providerID)
	}

	s.mode = selectionManual
	s.manualProvider = *providerID

	return s.afterMutation(ctx), nil
}

func (s *cartService) SetDeliveryDestination(ctx context.Context, lon, lat float64) (*usecase.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.destination = &orb.Point{lon, lat}

	return s.afterMutation(ctx), nil
}

func (s *cartService) Quotes(ctx context.Context) []entity.DeliveryQuote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rank()
}

func (s *cartService) View(ctx context.Context) *usecase.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view()
}

func (s *cartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.ClearCart()
	s.mode = selectionAuto
	s.manualProvider = ""
	s.afterMutation(ctx)

	return nil
}

// afterMutation recomputes the ranking and the selected quote, persists the
// session and returns the fresh view. Ranking and selection always run
// synchronously because weight and score depend on cart contents.
func (s *cartService) afterMutation(ctx context.Context) *usecase.CartView {
	s.reselect()

	if err := s.sync.Persist(ctx); err != nil {
		// Persistence is retried on the next mutation; the in-memory
		// state remains authoritative for this session.
		s.logger.Warn("snapshot persist failed", slog.Any("error", err))
	}

	return s.view()
}

func (s *cartService) reselect() {
	// An empty cart has nothing to deliver.
	if len(s.session.Lines()) == 0 {
		s.session.SetSelectedQuote(nil)

		return
	}

	quotes := s.rank()
	if len(quotes) == 0 {
		s.session.SetSelectedQuote(nil)

		return
	}

	switch s.mode {
	case selectionNone:
		s.session.SetSelectedQuote(nil)
	case selectionManual:
		if q := findQuote(quotes, s.manualProvider); q != nil {
			s.session.SetSelectedQuote(q)

			return
		}
		// The chosen provider no longer quotes this cart; fall back.
		s.mode = selectionAuto
		s.manualProvider = ""
		fallthrough
	default:
		if s.smartSelection {
			s.session.SetSelectedQuote(&quotes[0])
		} else {
			s.session.SetSelectedQuote(nil)
		}
	}
}

func (s *cartService) rank() []entity.DeliveryQuote {
	return s.scorer.Rank(s.session.Lines(), s.destination)
}

func (s *cartService) view() *usecase.CartView {
	lines := s.session.Lines()
	selected := s.session.SelectedQuote()

	return &usecase.CartView{
		Lines:         lines,
		Quotes:        s.rank(),
		SelectedQuote: selected,
		Totals:        s.calc.Compute(lines, selected),
	}
}

func findQuote(quotes []entity.DeliveryQuote, providerID string) *entity.DeliveryQuote {
	for i := range quotes {
		if quotes[i].ProviderID == providerID {
			return &quotes[i]
		}
	}

	return nil
}
