package main

import (
	"context"
	"log/slog"
	"os"

	"poscore/config"
	"poscore/internal/delivery"
	"poscore/internal/delivery/http"
	"poscore/internal/delivery/http/router/handler"
	"poscore/internal/delivery/worker"
	"poscore/internal/domain/service"
	"poscore/internal/infra/accounting"
	"poscore/internal/infra/auth"
	"poscore/internal/infra/catalog"
	"poscore/internal/infra/customer"
	"poscore/internal/infra/idgen"
	logs "poscore/internal/infra/log"
	"poscore/internal/infra/paymentdevice"
	"poscore/internal/infra/persistence"
	"poscore/internal/infra/persistence/memory"
	"poscore/internal/infra/printer"
	"poscore/internal/infra/qrcode"
	"poscore/internal/pricing"
	"poscore/internal/shipping"
	"poscore/internal/usecase"
	"poscore/internal/usecase/impl"

	"go.uber.org/fx"
)

const qrCodeSize = 256

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			bootstrapSession,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		persistence.NewSnapshotStore,
		accounting.NewAccountingPublisher,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			memory.NewSessionRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newCalculator,
			newScorer,
			newApprovalGate,
			newQRCodeService,
			auth.NewApproverVerifier,
			paymentdevice.NewSimulatedDevice,
			idgen.NewULIDGenerator,
			printer.NewLogPrinter,
			catalog.NewCatalogService,
			customer.NewStaticDirectory,
		),
	)
}

// newCalculator builds the pricing calculator from the configured tax schedule
func newCalculator(cfg *config.Config) *pricing.Calculator {
	return pricing.NewCalculator(cfg.Pricing.TaxSchedule())
}

// newScorer builds the delivery scorer from the configured provider list
func newScorer(cfg *config.Config) *shipping.Scorer {
	s := cfg.Shipping

	return shipping.NewScorer(s.Entities(), shipping.Options{
		PerItemWeight:     s.PerItemWeight,
		WeightSurcharge:   s.WeightSurcharge,
		CostNormalization: s.CostNormalization,
		CostWeight:        s.CostWeight,
		SpeedWeight:       s.SpeedWeight,
	})
}

// newApprovalGate builds the approval gate with the configured threshold
func newApprovalGate(verifier service.ApproverVerifier, cfg *config.Config) *impl.ApprovalGate {
	threshold := 0.0
	if cfg.Approval != nil {
		threshold = cfg.Approval.Threshold
	}

	return impl.NewApprovalGate(verifier, threshold)
}

// newQRCodeService creates the receipt QR renderer
func newQRCodeService() service.QRCodeService {
	return qrcode.NewQRCodeService(qrCodeSize)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewCartService,
			impl.NewCheckoutService,
			impl.NewSyncService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewCartHandler,
			handler.NewCheckoutHandler,
			handler.NewSyncHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewWatcher,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// bootstrapSession restores the last durable snapshot before serving.
func bootstrapSession(ctx context.Context, syncUC usecase.SyncUsecase) error {
	return syncUC.Bootstrap(ctx)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
