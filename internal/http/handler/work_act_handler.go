package handler

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// WorkActHandler handles HTTP requests for work acts
type WorkActHandler struct {
	workActService *service.WorkActService
	logger         *zap.Logger
}

// NewWorkActHandler creates a new work act handler instance
func NewWorkActHandler(workActService *service.WorkActService, logger *zap.Logger) *WorkActHandler {
	return &WorkActHandler{
		workActService: workActService,
		logger:         logger,
	}
}

// List godoc
// @Summary List work acts
// @Tags WorkActs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param assetId query int false "Filter by asset"
// @Param masterId query int false "Filter by master"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.WorkActDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /work-acts [get]
func (h *WorkActHandler) List(w http.ResponseWriter, r *http.Request) {
	var assetID, masterID *int64
	if err := queryIDs(r, idParam{"assetId", &assetID}, idParam{"masterId", &masterID}); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, pageSize := parsePage(r)

	result, err := h.workActService.List(r.Context(), assetID, masterID, page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list work acts")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// GetByID godoc
// @Summary Get work act by ID
// @Tags WorkActs
// @Produce json
// @Param id path int true "Work act ID"
// @Success 200 {object} domain.WorkActDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /work-acts/{id} [get]
func (h *WorkActHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	act, err := h.workActService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get work act")
		return
	}
	respondJSON(w, http.StatusOK, act)
}

// Create godoc
// @Summary Create work act
// @Tags WorkActs
// @Accept json
// @Produce json
// @Param request body domain.WorkActRequest true "Work act data"
// @Success 201 {object} domain.WorkActDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /work-acts [post]
func (h *WorkActHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkActRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	act, err := h.workActService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create work act")
		return
	}
	w.Header().Set("Location", "/api/v1/work-acts/"+strconv.FormatInt(act.ID, 10))
	respondJSON(w, http.StatusCreated, act)
}

// Update godoc
// @Summary Update work act
// @Tags WorkActs
// @Accept json
// @Produce json
// @Param id path int true "Work act ID"
// @Param request body domain.WorkActRequest true "Work act data"
// @Success 200 {object} domain.WorkActDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /work-acts/{id} [put]
func (h *WorkActHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.WorkActRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	act, err := h.workActService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update work act")
		return
	}
	respondJSON(w, http.StatusOK, act)
}

// Delete godoc
// @Summary Delete work act
// @Tags WorkActs
// @Param id path int true "Work act ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /work-acts/{id} [delete]
func (h *WorkActHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.workActService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete work act")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
