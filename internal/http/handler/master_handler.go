package handler

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// MasterHandler handles HTTP requests for master operations
type MasterHandler struct {
	masterService *service.MasterService
	logger        *zap.Logger
}

// NewMasterHandler creates a new master handler instance
func NewMasterHandler(masterService *service.MasterService, logger *zap.Logger) *MasterHandler {
	return &MasterHandler{
		masterService: masterService,
		logger:        logger,
	}
}

func masterFilters(r *http.Request) (repository.MasterFilters, error) {
	var f repository.MasterFilters
	specialtyID, err := queryInt64(r, "specialtyId")
	if err != nil {
		return f, err
	}
	available, err := queryBool(r, "availableOnly")
	if err != nil {
		return f, err
	}
	f.SpecialtyID = specialtyID
	f.AvailableOnly = available != nil && *available
	return f, nil
}

// List godoc
// @Summary List masters
// @Tags Masters
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param specialtyId query int false "Filter by specialty"
// @Param availableOnly query bool false "Only available masters"
// @Param sortBy query string false "Sort field" Enums(id, hireDate, skillLevel)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.MasterDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /masters [get]
func (h *MasterHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := masterFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, pageSize := parsePage(r)

	result, err := h.masterService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list masters")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// Stats godoc
// @Summary Master statistics
// @Tags Masters
// @Produce json
// @Param specialtyId query int false "Filter by specialty"
// @Success 200 {object} domain.StatsSummaryDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /masters/stats [get]
func (h *MasterHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filters, err := masterFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.masterService.Stats(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute master stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Options godoc
// @Summary Master select options
// @Description "Not assigned" entry first, then masters by name
// @Tags Masters
// @Produce json
// @Param availableOnly query bool false "Only available masters"
// @Success 200 {array} domain.SelectOptionDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /masters/options [get]
func (h *MasterHandler) Options(w http.ResponseWriter, r *http.Request) {
	available, err := queryBool(r, "availableOnly")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	options, err := h.masterService.Options(r.Context(), available != nil && *available)
	if err != nil {
		respondServiceError(w, h.logger, err, "list master options")
		return
	}
	respondJSON(w, http.StatusOK, options)
}

// WorkStats godoc
// @Summary Master work statistics
// @Description Work acts, completion acts and assigned equipment of one master
// @Tags Masters
// @Produce json
// @Param id path int true "Master ID"
// @Success 200 {object} domain.MasterStatsDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /masters/{id}/stats [get]
func (h *MasterHandler) WorkStats(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	stats, err := h.masterService.WorkStats(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute master work stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get master by ID
// @Tags Masters
// @Produce json
// @Param id path int true "Master ID"
// @Success 200 {object} domain.MasterDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /masters/{id} [get]
func (h *MasterHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	master, err := h.masterService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get master")
		return
	}
	respondJSON(w, http.StatusOK, master)
}

// Create godoc
// @Summary Create master
// @Description A user can be linked to at most one master
// @Tags Masters
// @Accept json
// @Produce json
// @Param request body domain.MasterRequest true "Master data"
// @Success 201 {object} domain.MasterDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "User already assigned"
// @Security BearerAuth
// @Router /masters [post]
func (h *MasterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.MasterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	master, err := h.masterService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create master")
		return
	}
	w.Header().Set("Location", "/api/v1/masters/"+strconv.FormatInt(master.ID, 10))
	respondJSON(w, http.StatusCreated, master)
}

// Update godoc
// @Summary Update master
// @Tags Masters
// @Accept json
// @Produce json
// @Param id path int true "Master ID"
// @Param request body domain.MasterRequest true "Master data"
// @Success 200 {object} domain.MasterDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "User already assigned"
// @Security BearerAuth
// @Router /masters/{id} [put]
func (h *MasterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.MasterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	master, err := h.masterService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update master")
		return
	}
	respondJSON(w, http.StatusOK, master)
}

// Delete godoc
// @Summary Delete master
// @Description Fails with 409 while work acts, equipment, purchases, workshops or maintenance reference the master
// @Tags Masters
// @Param id path int true "Master ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /masters/{id} [delete]
func (h *MasterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.masterService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete master")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
