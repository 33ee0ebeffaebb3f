package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FunctionTypeHandler struct {
	service usecase.FunctionTypeService
	log     *zap.Logger
}

func NewFunctionTypeHandler(service usecase.FunctionTypeService, log *zap.Logger) *FunctionTypeHandler {
	return &FunctionTypeHandler{
		service: service,
		log:     log.With(zap.String("handler", "function_type")),
	}
}

// ListActive handles GET /api/function-types
func (h *FunctionTypeHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListAll handles GET /api/admin/function-types?include_inactive=
func (h *FunctionTypeHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	includeInactive := true
	if v, ok := utils.ParseBool(r.URL.Query().Get("include_inactive")); ok {
		includeInactive = v
	}
	h.list(w, r, includeInactive)
}

func (h *FunctionTypeHandler) list(w http.ResponseWriter, r *http.Request, includeInactive bool) {
	types, err := h.service.ListFunctionTypes(r.Context(), includeInactive)
	if err != nil {
		handleServiceError(w, h.log, err, "list function types")
		return
	}

	utils.ResponseSuccess(w, "Function types retrieved", types)
}

// GetFunctionType handles GET /api/admin/function-types/{id}
func (h *FunctionTypeHandler) GetFunctionType(w http.ResponseWriter, r *http.Request) {
	ft, err := h.service.GetFunctionTypeByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get function type")
		return
	}

	utils.ResponseSuccess(w, "Function type retrieved", ft)
}

// CreateFunctionType handles POST /api/admin/function-types
func (h *FunctionTypeHandler) CreateFunctionType(w http.ResponseWriter, r *http.Request) {
	var req request.CreateFunctionTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ft, err := h.service.CreateFunctionType(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create function type")
		return
	}

	utils.ResponseCreated(w, "Function type created", ft)
}

// UpdateFunctionType handles PUT /api/admin/function-types/{id}
func (h *FunctionTypeHandler) UpdateFunctionType(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateFunctionTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.UpdateFunctionType(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update function type")
		return
	}

	utils.ResponseSuccess(w, "Function type updated", result)
}

// ChangeStatus handles PATCH /api/admin/function-types/{id}/status
func (h *FunctionTypeHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req request.ChangeFunctionTypeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.ChangeFunctionTypeStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "change function type status")
		return
	}

	utils.ResponseSuccess(w, "Function type status updated", result)
}

// DeleteFunctionType handles DELETE /api/admin/function-types/{id}
func (h *FunctionTypeHandler) DeleteFunctionType(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteFunctionType(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete function type")
		return
	}

	utils.ResponseSuccess(w, "Function type deleted", nil)
}
