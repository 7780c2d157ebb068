package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// EquipmentHandler handles HTTP requests for equipment operations
type EquipmentHandler struct {
	equipmentService *service.EquipmentService
	logger           *zap.Logger
}

// NewEquipmentHandler creates a new equipment handler instance
func NewEquipmentHandler(equipmentService *service.EquipmentService, logger *zap.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		equipmentService: equipmentService,
		logger:           logger,
	}
}

func equipmentFilters(r *http.Request) (repository.EquipmentFilters, error) {
	f := repository.EquipmentFilters{Search: r.URL.Query().Get("search")}
	err := queryIDs(r,
		idParam{"workshopId", &f.WorkshopID},
		idParam{"statusId", &f.StatusID},
		idParam{"masterId", &f.MasterID},
	)
	if err != nil {
		return f, err
	}
	if raw := r.URL.Query().Get("dueBefore"); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, errInvalidDate("dueBefore")
		}
		f.DueBefore = &due
	}
	return f, nil
}

type errInvalidDate string

func (e errInvalidDate) Error() string {
	return "invalid " + string(e) + ", expected YYYY-MM-DD"
}

// List godoc
// @Summary List equipment
// @Description Get paginated list of equipment with derived warranty and maintenance statuses
// @Tags Equipment
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by manufacturer, notes or asset name"
// @Param workshopId query int false "Filter by workshop"
// @Param statusId query int false "Filter by status"
// @Param masterId query int false "Filter by assigned master"
// @Param dueBefore query string false "Next maintenance on or before (YYYY-MM-DD)"
// @Param sortBy query string false "Sort field" Enums(id, manufacturer, installationDate, nextMaintenanceDate, lastMaintenanceDate, currentWorkHours)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.EquipmentDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /equipment [get]
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := equipmentFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, pageSize := parsePage(r)

	result, err := h.equipmentService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list equipment")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// Stats godoc
// @Summary Equipment statistics
// @Description Total, in operation, faulty and maintenance due within 14 days
// @Tags Equipment
// @Produce json
// @Param workshopId query int false "Filter by workshop"
// @Param statusId query int false "Filter by status"
// @Param masterId query int false "Filter by assigned master"
// @Success 200 {object} domain.StatsSummaryDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /equipment/stats [get]
func (h *EquipmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filters, err := equipmentFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.equipmentService.Stats(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute equipment stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Schedule godoc
// @Summary Maintenance schedule
// @Description Equipment ordered by maintenance priority: faulty first, then overdue, due soon, and the rest
// @Tags Maintenance
// @Produce json
// @Param workshopId query int false "Filter by workshop"
// @Param masterId query int false "Filter by assigned master"
// @Param dueBefore query string false "Next maintenance on or before (YYYY-MM-DD)"
// @Success 200 {array} domain.MaintenanceScheduleItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /maintenance/schedule [get]
func (h *EquipmentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	filters, err := equipmentFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.equipmentService.MaintenanceSchedule(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "build maintenance schedule")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetByID godoc
// @Summary Get equipment by ID
// @Tags Equipment
// @Produce json
// @Param id path int true "Equipment ID"
// @Success 200 {object} domain.EquipmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /equipment/{id} [get]
func (h *EquipmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	equipment, err := h.equipmentService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get equipment")
		return
	}
	respondJSON(w, http.StatusOK, equipment)
}

// Create godoc
// @Summary Create equipment
// @Description The referenced asset must have the equipment type
// @Tags Equipment
// @Accept json
// @Produce json
// @Param request body domain.EquipmentRequest true "Equipment data"
// @Success 201 {object} domain.EquipmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /equipment [post]
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.EquipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	equipment, err := h.equipmentService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create equipment")
		return
	}
	w.Header().Set("Location", "/api/v1/equipment/"+strconv.FormatInt(equipment.ID, 10))
	respondJSON(w, http.StatusCreated, equipment)
}

// Update godoc
// @Summary Update equipment
// @Tags Equipment
// @Accept json
// @Produce json
// @Param id path int true "Equipment ID"
// @Param request body domain.EquipmentRequest true "Equipment data"
// @Success 200 {object} domain.EquipmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /equipment/{id} [put]
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.EquipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	equipment, err := h.equipmentService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update equipment")
		return
	}
	respondJSON(w, http.StatusOK, equipment)
}

// Delete godoc
// @Summary Delete equipment
// @Description Fails with 409 while maintenance records reference the equipment
// @Tags Equipment
// @Param id path int true "Equipment ID"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /equipment/{id} [delete]
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.equipmentService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete equipment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
