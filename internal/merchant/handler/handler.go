package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"guesense/internal/merchant/models"
	"guesense/internal/merchant/service"
	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/httputil"
	"guesense/pkg/requestcontext"
)

// Service defines the interface for merchant registry operations.
type Service interface {
	ListAvailable(ctx context.Context, filter pagination.Filter) ([]models.Merchant, error)
	ListRegistered(ctx context.Context, filter pagination.Filter) (*service.RegisteredPage, error)
	BulkRegister(ctx context.Context, registrations []models.Registration) (*models.BulkResult, error)
	Update(ctx context.Context, registryID id.RegistryID, patch models.RegistryPatch) (*models.RegistryEntry, error)
	Remove(ctx context.Context, registryID id.RegistryID) error
}

// Handler wires merchant registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a merchant handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts merchant endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/merchants/available", h.HandleListAvailable)
	r.Get("/merchants/registered", h.HandleListRegistered)
	r.Post("/merchants/registry", h.HandleBulkRegister)
	r.Patch("/merchants/registry/{registryID}", h.HandleUpdate)
	r.Delete("/merchants/registry/{registryID}", h.HandleRemove)
}

// HandleListAvailable handles GET /merchants/available requests.
func (h *Handler) HandleListAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	merchants, err := h.service.ListAvailable(ctx, parseListFilter(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "listing available merchants failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"merchants": merchants})
}

// HandleListRegistered handles GET /merchants/registered requests.
func (h *Handler) HandleListRegistered(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := h.service.ListRegistered(ctx, parseListFilter(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "listing registered merchants failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// HandleBulkRegister handles POST /merchants/registry requests.
func (h *Handler) HandleBulkRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BulkRegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.BulkRegister(ctx, req.Registrations())
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk merchant registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "merchants registered",
		"request_id", requestID,
		"total", result.TotalCount,
		"succeeded", result.SuccessCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, bulkStatus(len(result.Failed)), result)
}

// HandleUpdate handles PATCH /merchants/registry/{registryID} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	registryID, ok := id.ParseRegistryID(chi.URLParam(r, "registryID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "registry id must be a positive integer"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateRegistryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	patch, err := req.Patch()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.Update(ctx, registryID, patch)
	if err != nil {
		h.logger.ErrorContext(ctx, "registry update failed",
			"request_id", requestID,
			"registry_id", registryID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

// HandleRemove handles DELETE /merchants/registry/{registryID} requests.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	registryID, ok := id.ParseRegistryID(chi.URLParam(r, "registryID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "registry id must be a positive integer"))
		return
	}

	if err := h.service.Remove(ctx, registryID); err != nil {
		h.logger.ErrorContext(ctx, "registry removal failed",
			"request_id", requestcontext.RequestID(ctx),
			"registry_id", registryID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"removed": true})
}

// bulkStatus picks the response status for a best-effort bulk outcome:
// 201 when everything succeeded, 207 when some or all items failed.
func bulkStatus(failed int) int {
	if failed > 0 {
		return http.StatusMultiStatus
	}
	return http.StatusCreated
}
