package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/fx"

	"poscore/config"
	"poscore/internal/domain/entity"
	domainerrors "poscore/internal/domain/errors"
	"poscore/internal/domain/lifecycle"
	"poscore/internal/domain/repository"
	"poscore/internal/domain/service"
	"poscore/internal/pricing"
	"poscore/internal/usecase"
)

type checkoutService struct {
	// mu serializes checkout so id assignment is atomic with respect to
	// completion order and the payment device has a single owner.
	mu sync.Mutex

	session   repository.SessionRepository
	cart      usecase.CartUsecase
	calc      *pricing.Calculator
	device    service.PaymentDevice
	customers service.CustomerDirectory
	gate      *ApprovalGate
	idgen     service.TransactionIDGenerator
	qrcodes   service.QRCodeService
	printer   service.ReceiptPrinter
	sync      usecase.SyncUsecase
	logger    *slog.Logger

	cashierID  string
	payTimeout time.Duration
}

// CheckoutServiceParams holds dependencies for the checkout service, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	Session   repository.SessionRepository
	Cart      usecase.CartUsecase
	Calc      *pricing.Calculator
	Device    service.PaymentDevice
	Customers service.CustomerDirectory
	Gate      *ApprovalGate
	IDGen     service.TransactionIDGenerator
	QRCodes   service.QRCodeService
	Printer   service.ReceiptPrinter
	Sync      usecase.SyncUsecase
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCheckoutService creates the transaction-lifecycle service.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	payTimeout := 30 * time.Second
	if params.Config.Payment != nil && params.Config.Payment.Timeout > 0 {
		payTimeout = params.Config.Payment.Timeout
	}

	return &checkoutService{
		session:    params.Session,
		cart:       params.Cart,
		calc:       params.Calc,
		device:     params.Device,
		customers:  params.Customers,
		gate:       params.Gate,
		idgen:      params.IDGen,
		qrcodes:    params.QRCodes,
		printer:    params.Printer,
		sync:       params.Sync,
		logger:     params.Logger,
		cashierID:  params.Config.Store.CashierID,
		payTimeout: payTimeout,
	}
}

func (s *checkoutService) Complete(ctx context.Context, method entity.PaymentMethod, customerID string) (*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !method.Valid() {
		return nil, domainerrors.ErrUnknownPaymentMethod.WithDetails(string(method))
	}

	lines := s.session.Lines()
	if len(lines) == 0 {
		return nil, domainerrors.ErrEmptyCart
	}

	if customerID != "" {
		if _, err := s.customers.Lookup(ctx, customerID); err != nil {
			return nil, domainerrors.ErrCustomerNotFound.WithDetails(customerID)
		}
	}

	quote := s.session.SelectedQuote()
	totals := s.calc.Compute(lines, quote)

	ref, err := s.charge(ctx, totals.Total, method)
	if err != nil {
		// Nothing was recorded; the cart is untouched.
		return nil, err
	}

	now := time.Now()
	tx := entity.Transaction{
		ID:            s.idgen.Next(),
		Lines:         snapshotLines(lines),
		Subtotal:      totals.Subtotal,
		TotalDiscount: totals.TotalDiscount,
		TotalTax:      totals.TotalTax,
		DeliveryCost:  totals.DeliveryCost,
		Total:         totals.Total,
		PaymentMethod: method,
		PaymentRef:    ref,
		CustomerID:    customerID,
		CashierID:     s.cashierID,
		Timestamp:     now,
		Status:        entity.StatusCompleted,
	}

	s.session.AppendTransaction(tx)

	// Clearing through the cart service also resets the delivery selection
	// mode, so a manual choice never carries over to the next customer. The
	// clear persists the session with the new transaction included.
	if err := s.cart.Clear(ctx); err != nil {
		s.logger.Warn("cart clear failed", slog.Any("error", err))
	}
	s.printAsync(tx)

	return &tx, nil
}

// charge runs the scoped device acquisition: connect, process, and release on
// every exit path including cancellation.
func (s *checkoutService) charge(ctx context.Context, amount float64, method entity.PaymentMethod) (string, error) {
	payCtx, cancel := context.WithTimeout(ctx, s.payTimeout)
	defer cancel()

	if err := s.device.Connect(payCtx); err != nil {
		return "", domainerrors.ErrDevice.WithDetails(err.Error())
	}
	defer s.release()

	result, err := s.device.ProcessPayment(payCtx, amount, method)
	if err != nil {
		if cancelErr := s.device.CancelPayment(context.WithoutCancel(ctx)); cancelErr != nil {
			s.logger.Warn("payment cancel failed", slog.Any("error", cancelErr))
		}

		return "", domainerrors.ErrDevice.WithDetails(err.Error())
	}
	if !result.Success {
		return "", domainerrors.ErrDevice.WithDetails(result.ErrorMessage)
	}

	return result.TransactionRef, nil
}

// release disconnects the device outside the caller's context so the device
// is never left connected with no owner, even after cancellation.
func (s *checkoutService) release() {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	if err := s.device.Disconnect(ctx); err != nil {
		s.logger.Warn("payment device disconnect failed", slog.Any("error", err))
	}
}

func (s *checkoutService) Void(ctx context.Context, transactionID string, approval entity.ApprovalRequest) (*entity.Transaction, error) {
	return s.transition(ctx, transactionID, entity.StatusVoided, approval)
}

func (s *checkoutService) Return(ctx context.Context, transactionID string, approval entity.ApprovalRequest) (*entity.Transaction, error) {
	return s.transition(ctx, transactionID, entity.StatusReturned, approval)
}

// transition applies the one legal state machine: Completed -> Voided or
// Completed -> Returned, both terminal, both behind the approval gate. On any
// failure the transaction is left unchanged.
func (s *checkoutService) transition(ctx context.Context, transactionID string, target entity.TransactionStatus, approval entity.ApprovalRequest) (*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.session.FindTransaction(transactionID)
	if !ok {
		return nil, domainerrors.ErrTransactionNotFound.WithDetails(transactionID)
	}
	if tx.Status != entity.StatusCompleted {
		return nil, domainerrors.ErrInvalidState.WithDetails(string(tx.Status))
	}

	if err := s.gate.Require(ctx, approval); err != nil {
		return nil, err
	}

	now := time.Now()
	tx.Status = target
	tx.Reason = approval.Reason
	tx.ApprovedBy = approval.ApproverID
	tx.ApprovedAt = &now
	tx.Synced = false // The status change must be replayed to accounting.

	s.session.ReplaceTransaction(tx)
	s.persist(ctx)

	return &tx, nil
}

func (s *checkoutService) Transactions(ctx context.Context) []entity.Transaction {
	return s.session.Transactions()
}

func (s *checkoutService) Receipt(ctx context.Context, transactionID string) (*entity.Receipt, error) {
	tx, ok := s.session.FindTransaction(transactionID)
	if !ok {
		return nil, domainerrors.ErrTransactionNotFound.WithDetails(transactionID)
	}

	qr, err := s.qrcodes.GenerateReceiptQR(&tx)
	if err != nil {
		s.logger.Warn("receipt QR generation failed", slog.Any("error", err))
		qr = nil // The receipt is still printable without the code.
	}

	return &entity.Receipt{Transaction: tx, QRCode: qr}, nil
}

func (s *checkoutService) persist(ctx context.Context) {
	if err := s.sync.Persist(ctx); err != nil {
		s.logger.Warn("snapshot persist failed", slog.Any("error", err))
	}
}

// printAsync hands the receipt to the print collaborator off the checkout
// path; printing failures never fail a completed checkout.
func (s *checkoutService) printAsync(tx entity.Transaction) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		defer cancel()

		qr, err := s.qrcodes.GenerateReceiptQR(&tx)
		if err != nil {
			s.logger.Warn("receipt QR generation failed", slog.Any("error", err))
		}
		if err := s.printer.Print(ctx, &entity.Receipt{Transaction: tx, QRCode: qr}); err != nil {
			s.logger.Warn("receipt print failed",
				slog.String("transaction_id", tx.ID),
				slog.Any("error", err),
			)
		}
	}()
}

func snapshotLines(lines []entity.CartLine) []entity.TransactionLine {
	out := make([]entity.TransactionLine, len(lines))
	for i, l := range lines {
		out[i] = entity.TransactionLine{
			ProductID:    l.ProductID,
			Name:         l.Name,
			UnitPrice:    l.UnitPrice,
			Quantity:     l.Quantity,
			LineDiscount: pricing.LineDiscount(l),
		}
	}

	return out
}
