package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"poscore/config"
	"poscore/internal/domain/entity"
	domainerrors "poscore/internal/domain/errors"
	"poscore/internal/domain/repository"
	"poscore/internal/domain/service"
	"poscore/internal/infra/persistence/memory"
	"poscore/internal/pricing"
	"poscore/internal/shipping"
	"poscore/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// assertErrorCode asserts err carries the given business error code.
func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.ErrorCode())
}

// stubSync satisfies usecase.SyncUsecase for cart and checkout tests.
type stubSync struct {
	mu           sync.Mutex
	persistCalls int
	persistErr   error
}

func (s *stubSync) Bootstrap(ctx context.Context) error { return nil }

func (s *stubSync) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistCalls++

	return s.persistErr
}

func (s *stubSync) HandleOnline(ctx context.Context) {}
func (s *stubSync) SetOnline(online bool)            {}

func (s *stubSync) Status(ctx context.Context) usecase.SyncStatus {
	return usecase.SyncStatus{}
}

// fakeDevice is a scriptable payment terminal double.
type fakeDevice struct {
	mu sync.Mutex

	connectErr error
	processErr error
	result     *service.PaymentResult

	connected     bool
	disconnects   int
	cancellations int
}

func (d *fakeDevice) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.connectErr != nil {
		return d.connectErr
	}
	d.connected = true

	return nil
}

func (d *fakeDevice) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	d.disconnects++

	return nil
}

func (d *fakeDevice) ProcessPayment(ctx context.Context, amount float64, method entity.PaymentMethod) (*service.PaymentResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.processErr != nil {
		return nil, d.processErr
	}
	if d.result != nil {
		return d.result, nil
	}

	return &service.PaymentResult{Success: true, TransactionRef: "PAY-TEST"}, nil
}

func (d *fakeDevice) CancelPayment(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancellations++

	return nil
}

// fakeDirectory resolves customers from a fixed map.
type fakeDirectory struct {
	customers map[string]entity.Customer
}

func (d *fakeDirectory) Lookup(ctx context.Context, id string) (*entity.Customer, error) {
	c, ok := d.customers[id]
	if !ok {
		return nil, errors.Errorf("customer %s not found", id)
	}

	return &c, nil
}

// fakeVerifier accepts a single approver/credential pair.
type fakeVerifier struct {
	approverID string
	credential string
}

func (v *fakeVerifier) Verify(ctx context.Context, approverID, credential string) error {
	if approverID != v.approverID || credential != v.credential {
		return errors.New("credential does not match")
	}

	return nil
}

// fakePrinter records printed receipts.
type fakePrinter struct {
	mu       sync.Mutex
	receipts []entity.Receipt
}

func (p *fakePrinter) Print(ctx context.Context, receipt *entity.Receipt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.receipts = append(p.receipts, *receipt)

	return nil
}

// fakeQR renders a fixed payload.
type fakeQR struct{}

func (fakeQR) GenerateReceiptQR(tx *entity.Transaction) ([]byte, error) {
	return []byte("qr:" + tx.ID), nil
}

// fakeSnapshotStore keeps the last snapshot in memory.
type fakeSnapshotStore struct {
	mu        sync.Mutex
	snap      *entity.Snapshot
	saveCalls int
	saveErr   error
	loadErr   error
}

func (s *fakeSnapshotStore) Save(ctx context.Context, snap *entity.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snap = snap

	return nil
}

func (s *fakeSnapshotStore) Load(ctx context.Context) (*entity.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.snap == nil {
		return &entity.Snapshot{}, nil
	}

	return s.snap, nil
}

// fakeCatalogService serves a fixed product list or a scripted error.
type fakeCatalogService struct {
	mu       sync.Mutex
	products []entity.Product
	err      error
}

func (c *fakeCatalogService) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	return c.products, nil
}

// fakeAccounting records published batches. Setting publishGate before the
// first publish makes PublishTransactions block until the gate closes or the
// context is cancelled; publishEntered receives one value per publish attempt.
type fakeAccounting struct {
	mu             sync.Mutex
	txBatches      [][]entity.Transaction
	deltas         [][]entity.InventoryDelta
	publishErr     error
	pingErr        error
	publishGate    chan struct{}
	publishEntered chan struct{}
}

func (a *fakeAccounting) PublishTransactions(ctx context.Context, batch []entity.Transaction) (*service.BatchResult, error) {
	a.mu.Lock()
	gate := a.publishGate
	entered := a.publishEntered
	a.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.publishErr != nil {
		return nil, a.publishErr
	}
	a.txBatches = append(a.txBatches, batch)

	return &service.BatchResult{Succeeded: len(batch)}, nil
}

func (a *fakeAccounting) PublishInventoryDeltas(ctx context.Context, deltas []entity.InventoryDelta) (*service.BatchResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deltas = append(a.deltas, deltas)

	return &service.BatchResult{Succeeded: len(deltas)}, nil
}

func (a *fakeAccounting) Ping(ctx context.Context) error { return a.pingErr }
func (a *fakeAccounting) Close() error                   { return nil }

func (a *fakeAccounting) transactionBatches() [][]entity.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([][]entity.Transaction, len(a.txBatches))
	copy(out, a.txBatches)

	return out
}

// testPricingConfig is the tax schedule and discount catalog shared by the
// cart and checkout fixtures: 7.5% VAT, a 10% staff discount and a fixed
// 500 welcome discount.
func testPricingConfig() *config.PricingConfig {
	return &config.PricingConfig{
		TaxRules: []config.TaxRuleConfig{
			{Name: "VAT", Rate: 0.075},
		},
		DiscountCatalog: []config.DiscountConfig{
			{Code: "STAFF10", Kind: "percentage", Value: 10, Description: "Staff discount"},
			{Code: "WELCOME500", Kind: "fixed", Value: 500, Description: "Welcome voucher"},
		},
	}
}

// testShippingConfig declares a cheap fast local courier and an expensive
// international one whose service area is a small square around the origin.
func testShippingConfig() *config.ShippingConfig {
	return &config.ShippingConfig{
		SmartSelection: true,
		Providers: []config.ProviderConfig{
			{ID: "swift-local", Name: "Swift Local", Type: "local", BaseRate: 1500, Enabled: true},
			{
				ID: "globex", Name: "Globex Intl", Type: "international", BaseRate: 8500, Enabled: true,
				ServiceAreas: []config.ServiceAreaConfig{
					{Name: "origin-square", Ring: [][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}},
				},
			},
		},
	}
}

func testCatalog() []entity.Product {
	return []entity.Product{
		{ID: "sku-espresso", Name: "Espresso Machine", UnitPrice: 1000, UnitCost: 700, Stock: 10},
		{ID: "sku-grinder", Name: "Burr Grinder", UnitPrice: 250, UnitCost: 150, Stock: 25},
	}
}

type cartFixture struct {
	session repository.SessionRepository
	sync    *stubSync
	cart    usecase.CartUsecase
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	cfg := &config.Config{
		Pricing:  testPricingConfig(),
		Shipping: testShippingConfig(),
	}

	session := memory.NewSessionRepository()
	session.ReplaceCatalog(testCatalog())

	syncStub := &stubSync{}
	cart := NewCartService(CartServiceParams{
		Session: session,
		Calc:    pricing.NewCalculator(cfg.Pricing.TaxSchedule()),
		Scorer:  shipping.NewScorer(cfg.Shipping.Entities(), shipping.Options{}),
		Sync:    syncStub,
		Config:  cfg,
		Logger:  testLogger(),
	})

	return &cartFixture{session: session, sync: syncStub, cart: cart}
}

type checkoutFixture struct {
	session  repository.SessionRepository
	sync     *stubSync
	device   *fakeDevice
	printer  *fakePrinter
	cart     usecase.CartUsecase
	checkout usecase.CheckoutUsecase
}

const (
	testApproverID = "manager-01"
	testCredential = "open-sesame"
)

func validApproval(reason string) entity.ApprovalRequest {
	return entity.ApprovalRequest{
		Reason:     reason,
		ApproverID: testApproverID,
		Credential: testCredential,
	}
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	cfg := &config.Config{
		Pricing:  testPricingConfig(),
		Shipping: testShippingConfig(),
	}
	cfg.Store.CashierID = "cashier-7"
	cfg.Payment = &config.PaymentConfig{Timeout: time.Second}

	session := memory.NewSessionRepository()
	session.ReplaceCatalog(testCatalog())

	syncStub := &stubSync{}
	device := &fakeDevice{}
	printer := &fakePrinter{}
	verifier := &fakeVerifier{approverID: testApproverID, credential: testCredential}

	cart := NewCartService(CartServiceParams{
		Session: session,
		Calc:    pricing.NewCalculator(cfg.Pricing.TaxSchedule()),
		Scorer:  shipping.NewScorer(cfg.Shipping.Entities(), shipping.Options{}),
		Sync:    syncStub,
		Config:  cfg,
		Logger:  testLogger(),
	})

	checkout := NewCheckoutService(CheckoutServiceParams{
		Session:   session,
		Cart:      cart,
		Calc:      pricing.NewCalculator(cfg.Pricing.TaxSchedule()),
		Device:    device,
		Customers: &fakeDirectory{customers: map[string]entity.Customer{"cust-1": {ID: "cust-1", Name: "Ada"}}},
		Gate:      NewApprovalGate(verifier, 10000),
		IDGen:     newSequenceIDGen(),
		QRCodes:   fakeQR{},
		Printer:   printer,
		Sync:      syncStub,
		Config:    cfg,
		Logger:    testLogger(),
	})

	return &checkoutFixture{
		session:  session,
		sync:     syncStub,
		device:   device,
		printer:  printer,
		cart:     cart,
		checkout: checkout,
	}
}

// addLine puts a cart line directly into the session.
func (f *checkoutFixture) addLine(productID string, quantity int, discount *entity.Discount) {
	product, _ := f.session.FindProduct(productID)
	f.session.UpsertLine(entity.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Quantity:  quantity,
		Discount:  discount,
	})
}

// sequenceIDGen yields lexically increasing ids for deterministic ledgers.
type sequenceIDGen struct {
	mu sync.Mutex
	n  int
}

func newSequenceIDGen() *sequenceIDGen { return &sequenceIDGen{} }

func (g *sequenceIDGen) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++

	return fmt.Sprintf("TX-%04d", g.n)
}
