package handler

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// MaintenanceHandler handles HTTP requests for the maintenance history
type MaintenanceHandler struct {
	maintenanceService *service.MaintenanceService
	logger             *zap.Logger
}

// NewMaintenanceHandler creates a new maintenance handler instance
func NewMaintenanceHandler(maintenanceService *service.MaintenanceService, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

func maintenanceFilters(r *http.Request) (repository.MaintenanceFilters, error) {
	f := repository.MaintenanceFilters{Search: r.URL.Query().Get("search")}
	err := queryIDs(r,
		idParam{"equipmentId", &f.EquipmentID},
		idParam{"masterId", &f.MasterID},
	)
	return f, err
}

// List godoc
// @Summary List maintenance records
// @Description Newest first unless sortBy is given
// @Tags Maintenance
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by type, description or parts"
// @Param equipmentId query int false "Filter by equipment"
// @Param masterId query int false "Filter by master"
// @Param sortBy query string false "Sort field" Enums(id, maintenanceDate, type, cost, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.MaintenanceRecordDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /maintenance [get]
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := maintenanceFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, pageSize := parsePage(r)

	result, err := h.maintenanceService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list maintenance records")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// Stats godoc
// @Summary Maintenance statistics
// @Tags Maintenance
// @Produce json
// @Param equipmentId query int false "Filter by equipment"
// @Param masterId query int false "Filter by master"
// @Success 200 {object} domain.StatsSummaryDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /maintenance/stats [get]
func (h *MaintenanceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filters, err := maintenanceFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.maintenanceService.Stats(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute maintenance stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get maintenance record by ID
// @Tags Maintenance
// @Produce json
// @Param id path int true "Maintenance record ID"
// @Success 200 {object} domain.MaintenanceRecordDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /maintenance/{id} [get]
func (h *MaintenanceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	record, err := h.maintenanceService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get maintenance record")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Create godoc
// @Summary Record maintenance
// @Description Also moves the equipment's last and next maintenance dates forward
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body domain.MaintenanceRecordRequest true "Maintenance data"
// @Success 201 {object} domain.MaintenanceRecordDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /maintenance [post]
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.MaintenanceRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	record, err := h.maintenanceService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create maintenance record")
		return
	}
	w.Header().Set("Location", "/api/v1/maintenance/"+strconv.FormatInt(record.ID, 10))
	respondJSON(w, http.StatusCreated, record)
}

// Update godoc
// @Summary Update maintenance record
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path int true "Maintenance record ID"
// @Param request body domain.MaintenanceRecordRequest true "Maintenance data"
// @Success 200 {object} domain.MaintenanceRecordDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /maintenance/{id} [put]
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.MaintenanceRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	record, err := h.maintenanceService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update maintenance record")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Delete godoc
// @Summary Delete maintenance record
// @Tags Maintenance
// @Param id path int true "Maintenance record ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /maintenance/{id} [delete]
func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.maintenanceService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete maintenance record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
