package handler

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// WorkshopHandler handles HTTP requests for workshop operations
type WorkshopHandler struct {
	workshopService *service.WorkshopService
	logger          *zap.Logger
}

// NewWorkshopHandler creates a new workshop handler instance
func NewWorkshopHandler(workshopService *service.WorkshopService, logger *zap.Logger) *WorkshopHandler {
	return &WorkshopHandler{
		workshopService: workshopService,
		logger:          logger,
	}
}

func workshopFilters(r *http.Request) (repository.WorkshopFilters, error) {
	managerID, err := queryInt64(r, "managerId")
	return repository.WorkshopFilters{
		Search:    r.URL.Query().Get("search"),
		ManagerID: managerID,
	}, err
}

// List godoc
// @Summary List workshops
// @Tags Workshops
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by name or location"
// @Param managerId query int false "Filter by manager"
// @Param sortBy query string false "Sort field" Enums(id, name, location, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.WorkshopDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /workshops [get]
func (h *WorkshopHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := workshopFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, pageSize := parsePage(r)

	result, err := h.workshopService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list workshops")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// Stats godoc
// @Summary Workshop statistics
// @Tags Workshops
// @Produce json
// @Param search query string false "Search by name or location"
// @Success 200 {object} domain.StatsSummaryDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /workshops/stats [get]
func (h *WorkshopHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filters, err := workshopFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.workshopService.Stats(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute workshop stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get workshop by ID
// @Tags Workshops
// @Produce json
// @Param id path int true "Workshop ID"
// @Success 200 {object} domain.WorkshopDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /workshops/{id} [get]
func (h *WorkshopHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	workshop, err := h.workshopService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get workshop")
		return
	}
	respondJSON(w, http.StatusOK, workshop)
}

// Create godoc
// @Summary Create workshop
// @Tags Workshops
// @Accept json
// @Produce json
// @Param request body domain.WorkshopRequest true "Workshop data"
// @Success 201 {object} domain.WorkshopDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /workshops [post]
func (h *WorkshopHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkshopRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	workshop, err := h.workshopService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create workshop")
		return
	}
	w.Header().Set("Location", "/api/v1/workshops/"+strconv.FormatInt(workshop.ID, 10))
	respondJSON(w, http.StatusCreated, workshop)
}

// Update godoc
// @Summary Update workshop
// @Tags Workshops
// @Accept json
// @Produce json
// @Param id path int true "Workshop ID"
// @Param request body domain.WorkshopRequest true "Workshop data"
// @Success 200 {object} domain.WorkshopDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /workshops/{id} [put]
func (h *WorkshopHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.WorkshopRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	workshop, err := h.workshopService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update workshop")
		return
	}
	respondJSON(w, http.StatusOK, workshop)
}

// Delete godoc
// @Summary Delete workshop
// @Description Fails with 409 while assets or equipment reference the workshop
// @Tags Workshops
// @Param id path int true "Workshop ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /workshops/{id} [delete]
func (h *WorkshopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.workshopService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete workshop")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
