package handler

import (
	"net/http"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// LookupHandler serves every name-only reference table under /lookups/{kind}
type LookupHandler struct {
	lookupService *service.LookupService
	logger        *zap.Logger
}

// NewLookupHandler creates a new lookup handler instance
func NewLookupHandler(lookupService *service.LookupService, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
		logger:        logger,
	}
}

// List godoc
// @Summary List lookup values
// @Tags Lookups
// @Produce json
// @Param kind path string true "Lookup table" Enums(asset-types, categories, asset-statuses, units, purchase-statuses, specialties, qualifications)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by name"
// @Param sortBy query string false "Sort field" Enums(id, name)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.LookupDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /lookups/{kind} [get]
func (h *LookupHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	page, pageSize := parsePage(r)
	filters := repository.NameFilters{Search: r.URL.Query().Get("search")}

	result, err := h.lookupService.List(r.Context(), kind, filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list "+string(kind))
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// Stats godoc
// @Summary Lookup statistics
// @Tags Lookups
// @Produce json
// @Param kind path string true "Lookup table"
// @Param search query string false "Search by name"
// @Success 200 {object} domain.StatsSummaryDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /lookups/{kind}/stats [get]
func (h *LookupHandler) Stats(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	filters := repository.NameFilters{Search: r.URL.Query().Get("search")}
	stats, err := h.lookupService.Stats(r.Context(), kind, filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute "+string(kind)+" stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get lookup value
// @Tags Lookups
// @Produce json
// @Param kind path string true "Lookup table"
// @Param id path int true "Value ID"
// @Success 200 {object} domain.LookupDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /lookups/{kind}/{id} [get]
func (h *LookupHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	value, err := h.lookupService.GetByID(r.Context(), kind, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get "+string(kind))
		return
	}
	respondJSON(w, http.StatusOK, value)
}

// Create godoc
// @Summary Create lookup value
// @Tags Lookups
// @Accept json
// @Produce json
// @Param kind path string true "Lookup table"
// @Param request body domain.LookupRequest true "Value"
// @Success 201 {object} domain.LookupDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /lookups/{kind} [post]
func (h *LookupHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	var req domain.LookupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	value, err := h.lookupService.Create(r.Context(), kind, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create "+string(kind))
		return
	}
	respondJSON(w, http.StatusCreated, value)
}

// Update godoc
// @Summary Rename lookup value
// @Tags Lookups
// @Accept json
// @Produce json
// @Param kind path string true "Lookup table"
// @Param id path int true "Value ID"
// @Param request body domain.LookupRequest true "Value"
// @Success 200 {object} domain.LookupDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /lookups/{kind}/{id} [put]
func (h *LookupHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.LookupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	value, err := h.lookupService.Update(r.Context(), kind, id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update "+string(kind))
		return
	}
	respondJSON(w, http.StatusOK, value)
}

// Delete godoc
// @Summary Delete lookup value
// @Description Fails with 409 while any entity still references the value
// @Tags Lookups
// @Param kind path string true "Lookup table"
// @Param id path int true "Value ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /lookups/{kind}/{id} [delete]
func (h *LookupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.lookupService.Delete(r.Context(), kind, id); err != nil {
		respondServiceError(w, h.logger, err, "delete "+string(kind))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
