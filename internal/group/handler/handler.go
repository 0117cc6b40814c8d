package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"guesense/internal/group/models"
	"guesense/internal/group/service"
	merchantmodels "guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/httputil"
	"guesense/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service defines the interface for group operations.
type Service interface {
	List(ctx context.Context, filter pagination.Filter) (*service.GroupsPage, error)
	GetWithMembers(ctx context.Context, groupID id.GroupID) (*models.GroupWithMembers, error)
	CreateWithMembers(ctx context.Context, name string, members []merchantmodels.Registration, sourceMerchantID *id.MerchantID) (*models.CreateGroupResult, error)
	Update(ctx context.Context, groupID id.GroupID, patch models.GroupPatch) (*models.Group, error)
	Delete(ctx context.Context, groupID id.GroupID) error
	AddMembers(ctx context.Context, groupID id.GroupID, members []merchantmodels.Registration) (*merchantmodels.BulkResult, error)
	RemoveMember(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error
	SetTemplateSource(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error
}

// Handler wires group endpoints to the group service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a group handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts group endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/groups", h.HandleList)
	r.Get("/groups/{groupID}", h.HandleGet)
	r.Post("/groups", h.HandleCreate)
	r.Patch("/groups/{groupID}", h.HandleUpdate)
	r.Delete("/groups/{groupID}", h.HandleDelete)
	r.Post("/groups/{groupID}/members", h.HandleAddMembers)
	r.Delete("/groups/{groupID}/members/{merchantID}", h.HandleRemoveMember)
	r.Put("/groups/{groupID}/source/{merchantID}", h.HandleSetSource)
}

// HandleList handles GET /groups requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := h.service.List(ctx, parseListFilter(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "listing groups failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// HandleGet handles GET /groups/{groupID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groupID, ok := parseGroupID(w, r)
	if !ok {
		return
	}

	group, err := h.service.GetWithMembers(ctx, groupID)
	if err != nil {
		h.logger.ErrorContext(ctx, "loading group failed",
			"request_id", requestcontext.RequestID(ctx),
			"group_id", groupID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group)
}

// HandleCreate handles POST /groups requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateGroupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.CreateWithMembers(ctx, req.Name, req.Registrations(), req.SourceMerchant())
	if err != nil {
		h.logger.ErrorContext(ctx, "group creation failed",
			"request_id", requestID,
			"group_name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "group created",
		"request_id", requestID,
		"group_id", result.GroupID,
		"members_succeeded", result.MembersSuccessCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	status := http.StatusCreated
	if len(result.MembersFailed) > 0 {
		status = http.StatusMultiStatus
	}
	httputil.WriteJSON(w, status, result)
}

// HandleUpdate handles PATCH /groups/{groupID} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	groupID, ok := parseGroupID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateGroupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	patch, err := req.Patch()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	group, err := h.service.Update(ctx, groupID, patch)
	if err != nil {
		h.logger.ErrorContext(ctx, "group update failed",
			"request_id", requestID,
			"group_id", groupID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group)
}

// HandleDelete handles DELETE /groups/{groupID} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groupID, ok := parseGroupID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, groupID); err != nil {
		h.logger.ErrorContext(ctx, "group deletion failed",
			"request_id", requestcontext.RequestID(ctx),
			"group_id", groupID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// HandleAddMembers handles POST /groups/{groupID}/members requests.
func (h *Handler) HandleAddMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	groupID, ok := parseGroupID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddMembersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.AddMembers(ctx, groupID, req.Registrations())
	if err != nil {
		h.logger.ErrorContext(ctx, "adding group members failed",
			"request_id", requestID,
			"group_id", groupID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "group members added",
		"request_id", requestID,
		"group_id", groupID,
		"total", result.TotalCount,
		"succeeded", result.SuccessCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	status := http.StatusCreated
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	httputil.WriteJSON(w, status, result)
}

// HandleRemoveMember handles DELETE /groups/{groupID}/members/{merchantID}
// requests.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groupID, ok := parseGroupID(w, r)
	if !ok {
		return
	}
	merchantID, ok := parseMerchantID(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveMember(ctx, groupID, merchantID); err != nil {
		h.logger.ErrorContext(ctx, "removing group member failed",
			"request_id", requestcontext.RequestID(ctx),
			"group_id", groupID,
			"merchant_id", merchantID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"removed": true})
}

// HandleSetSource handles PUT /groups/{groupID}/source/{merchantID}
// requests.
func (h *Handler) HandleSetSource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groupID, ok := parseGroupID(w, r)
	if !ok {
		return
	}
	merchantID, ok := parseMerchantID(w, r)
	if !ok {
		return
	}

	if err := h.service.SetTemplateSource(ctx, groupID, merchantID); err != nil {
		h.logger.ErrorContext(ctx, "setting template source failed",
			"request_id", requestcontext.RequestID(ctx),
			"group_id", groupID,
			"merchant_id", merchantID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"source_merchant_id": merchantID})
}

func parseGroupID(w http.ResponseWriter, r *http.Request) (id.GroupID, bool) {
	groupID, ok := id.ParseGroupID(chi.URLParam(r, "groupID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "group id must be a positive integer"))
		return 0, false
	}
	return groupID, true
}

func parseMerchantID(w http.ResponseWriter, r *http.Request) (id.MerchantID, bool) {
	merchantID, ok := id.ParseMerchantID(chi.URLParam(r, "merchantID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "merchant id must be a positive integer"))
		return 0, false
	}
	return merchantID, true
}
