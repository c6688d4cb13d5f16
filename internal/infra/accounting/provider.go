package accounting

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"poscore/config"
	"poscore/internal/domain/service"
)

// Backend names accepted in the accounting configuration.
const (
	ProviderNoop   = "noop"
	ProviderHTTP   = "http"
	ProviderGoogle = "google"
)

// PublisherParams holds dependencies for AccountingPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewAccountingPublisher creates an AccountingPublisher based on configuration
func NewAccountingPublisher(params PublisherParams) (service.AccountingPublisher, error) {
	cfg := params.Config.Accounting
	logger := params.Logger

	// Without a configured backend the store runs standalone.
	if cfg == nil || cfg.Provider == "" {
		logger.Info("Accounting backend not configured, using no-op publisher")

		return NewNoopPublisher(logger), nil
	}

	var publisher service.AccountingPublisher
	var err error

	switch cfg.Provider {
	case ProviderNoop:
		publisher = NewNoopPublisher(logger)

	case ProviderHTTP:
		if cfg.Endpoint == "" {
			return nil, errors.New("endpoint is required for http accounting provider")
		}
		logger.Info("Using HTTP accounting publisher",
			slog.String("endpoint", cfg.Endpoint),
		)

		publisher = NewHTTPPublisher(cfg.Endpoint, logger)

	case ProviderGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google accounting provider")
		}
		if cfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google accounting provider")
		}
		logger.Info("Using Google Pub/Sub accounting publisher",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		publisher, err = NewGooglePublisher(params.Ctx, cfg.ProjectID, cfg.TopicID, logger)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("unknown accounting provider: %s", cfg.Provider)
	}

	// Register lifecycle hook to close publisher on shutdown
	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing AccountingPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}
