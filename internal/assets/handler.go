package assets

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-assets/internal/observability"
	"github.com/odyssey-erp/odyssey-assets/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-assets/internal/shared"
)

// Enqueuer submits a depreciation run to the background worker.
type Enqueuer interface {
	EnqueueDepreciationRun(ctx context.Context, asOf time.Time) error
}

// Handler manages asset disposal endpoints and the privileged batch trigger.
// Permission checks happen upstream; these routes assume an authorized or
// system-initiated caller.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	enqueuer Enqueuer
	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, enqueuer Enqueuer, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, enqueuer: enqueuer, metrics: metrics, validate: validator.New()}
}

// MountRoutes registers asset routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{id}/scrap", h.scrap)
	r.Post("/{id}/restore", h.restore)
	r.Get("/{id}/disposal-preview", h.disposalPreview)
}

// MountAdminRoutes registers the internal-only batch trigger.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Post("/depreciation/run", h.runDepreciation)
}

func (h *Handler) scrap(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	asset, err := h.service.Scrap(r.Context(), id)
	if err != nil {
		h.respondError(w, "scrap asset", id, err)
		return
	}
	h.metrics.IncDisposal("scrap")
	httpx.JSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	asset, err := h.service.Restore(r.Context(), id)
	if err != nil {
		h.respondError(w, "restore asset", id, err)
		return
	}
	h.metrics.IncDisposal("restore")
	httpx.JSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *Handler) disposalPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	req := DisposalPreviewRequest{}
	if raw := r.URL.Query().Get("selling_amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid selling_amount")
			return
		}
		req.SellingAmount = amount
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	lines, err := h.service.ComputeDisposalEntries(r.Context(), id, req.SellingAmount)
	if err != nil {
		h.respondError(w, "disposal preview", id, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDisposalPreview(id, req.SellingAmount, lines))
}

func (h *Handler) runDepreciation(w http.ResponseWriter, r *http.Request) {
	var req RunDepreciationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var asOf time.Time
	if req.AsOfDate != "" {
		asOf, _ = time.Parse("2006-01-02", req.AsOfDate)
	}
	if h.enqueuer == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "background worker not configured")
		return
	}
	if err := h.enqueuer.EnqueueDepreciationRun(r.Context(), asOf); err != nil {
		h.logger.Error("enqueue depreciation run", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, RunDepreciationResponse{Enqueued: true, AsOfDate: req.AsOfDate})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, assetID int64, err error) {
	expected := errors.Is(err, shared.ErrNotFound) || shared.IsStateError(err) || shared.IsConfigurationError(err)
	if !expected {
		h.logger.Error(op, slog.Int64("asset_id", assetID), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func assetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid asset id")
		return 0, false
	}
	return id, true
}
