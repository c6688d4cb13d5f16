package auth

import (
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"poscore/config"
	"poscore/internal/domain/service"
)

// VerifierParams holds dependencies for the approver verifier, injected by Fx.
type VerifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewApproverVerifier creates the verifier selected by configuration.
func NewApproverVerifier(params VerifierParams) (service.ApproverVerifier, error) {
	cfg := params.Config.Approval
	if cfg == nil {
		return nil, errors.New("approval configuration is required")
	}

	switch cfg.Verifier {
	case "", "directory":
		if len(cfg.Directory) == 0 {
			return nil, errors.New("approver directory is empty")
		}
		params.Logger.Info("Using directory approver verifier",
			slog.Int("approvers", len(cfg.Directory)),
		)

		return NewDirectoryVerifier(cfg.Directory), nil

	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, errors.New("jwt secret is required for the jwt verifier")
		}
		params.Logger.Info("Using JWT approver verifier")

		return NewJWTVerifier(cfg.JWTSecret), nil

	default:
		return nil, errors.Errorf("unknown approval verifier: %s", cfg.Verifier)
	}
}
