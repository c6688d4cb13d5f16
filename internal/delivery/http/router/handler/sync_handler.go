package handler

import (
	"log/slog"
	"net/http"

	"poscore/internal/delivery/http/response"
	"poscore/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SyncHandlerParams holds dependencies for SyncHandler, injected by Fx.
type SyncHandlerParams struct {
	fx.In

	SyncUC usecase.SyncUsecase
	Logger *slog.Logger
}

// SyncHandler exposes the offline store's reconciliation state
type SyncHandler struct {
	syncUC usecase.SyncUsecase
	logger *slog.Logger
}

// NewSyncHandler is the constructor for SyncHandler
func NewSyncHandler(params SyncHandlerParams) *SyncHandler {
	return &SyncHandler{
		syncUC: params.SyncUC,
		logger: params.Logger,
	}
}

// GetStatus handles reporting connectivity and the replay queue size
func (h *SyncHandler) GetStatus(c echo.Context) error {
	status := h.syncUC.Status(c.Request().Context())

	return response.Success(c, http.StatusOK, status, "Sync status retrieved successfully")
}

// TriggerSync handles forcing a reconciliation run, for operators who do
// not want to wait for the next connectivity probe
func (h *SyncHandler) TriggerSync(c echo.Context) error {
	h.syncUC.SetOnline(true)
	h.syncUC.HandleOnline(c.Request().Context())

	return response.Success(c, http.StatusAccepted, nil, "Reconciliation triggered")
}
