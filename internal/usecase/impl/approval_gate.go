package impl

import (
	"context"

	domainerrors "poscore/internal/domain/errors"
	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

// ApprovalGate enforces the reason/approver/credential policy shared by all
// sensitive mutations: void, return and large stock adjustments.
type ApprovalGate struct {
	verifier  service.ApproverVerifier
	threshold float64
}

// NewApprovalGate creates a gate backed by the configured verifier.
func NewApprovalGate(verifier service.ApproverVerifier, threshold float64) *ApprovalGate {
	return &ApprovalGate{verifier: verifier, threshold: threshold}
}

// Require runs the full gate: non-empty reason and approver identity, then
// credential verification against the approver directory. Used by actions
// that are always gated.
func (g *ApprovalGate) Require(ctx context.Context, req entity.ApprovalRequest) error {
	if req.Reason == "" {
		return domainerrors.ErrValidation.WithDetails("approval reason must not be empty")
	}
	if req.ApproverID == "" {
		return domainerrors.ErrValidation.WithDetails("approver identity must not be empty")
	}

	if err := g.verifier.Verify(ctx, req.ApproverID, req.Credential); err != nil {
		return domainerrors.ErrAuthorization.WithDetails(err.Error())
	}

	return nil
}

// AuthorizeAdjustment gates a magnitude-carrying action. Above the configured
// threshold the full gate is mandatory; below it a reason alone suffices.
func (g *ApprovalGate) AuthorizeAdjustment(ctx context.Context, magnitude float64, req entity.ApprovalRequest) error {
	if g.threshold > 0 && magnitude >= g.threshold {
		return g.Require(ctx, req)
	}

	if req.Reason == "" {
		return domainerrors.ErrValidation.WithDetails("a reason is required for stock adjustments")
	}

	return nil
}
