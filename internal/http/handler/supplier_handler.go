package handler

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// SupplierHandler handles HTTP requests for supplier operations
type SupplierHandler struct {
	supplierService *service.SupplierService
	logger          *zap.Logger
}

// NewSupplierHandler creates a new supplier handler instance
func NewSupplierHandler(supplierService *service.SupplierService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		logger:          logger,
	}
}

func supplierFilters(r *http.Request) (repository.SupplierFilters, error) {
	isActive, err := queryBool(r, "isActive")
	if err != nil {
		return repository.SupplierFilters{}, err
	}
	return repository.SupplierFilters{
		Search:   r.URL.Query().Get("search"),
		IsActive: isActive,
	}, nil
}

// List godoc
// @Summary List suppliers
// @Description Get paginated list of suppliers with optional filters
// @Tags Suppliers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by name, contact person or email"
// @Param isActive query bool false "Filter by active flag"
// @Param sortBy query string false "Sort field" Enums(id, name, createdAt, updatedAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.SupplierDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /suppliers [get]
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := supplierFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, pageSize := parsePage(r)

	result, err := h.supplierService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list suppliers")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// Stats godoc
// @Summary Supplier statistics
// @Description Totals over the filtered supplier list
// @Tags Suppliers
// @Produce json
// @Param search query string false "Search by name, contact person or email"
// @Param isActive query bool false "Filter by active flag"
// @Success 200 {object} domain.StatsSummaryDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /suppliers/stats [get]
func (h *SupplierHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filters, err := supplierFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.supplierService.Stats(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute supplier stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get supplier by ID
// @Tags Suppliers
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} domain.SupplierDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	supplier, err := h.supplierService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get supplier")
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

// Create godoc
// @Summary Create supplier
// @Description Create a new supplier. New suppliers are active unless isActive is false.
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param request body domain.SupplierRequest true "Supplier data"
// @Success 201 {object} domain.SupplierDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /suppliers [post]
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	supplier, err := h.supplierService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create supplier")
		return
	}
	w.Header().Set("Location", "/api/v1/suppliers/"+strconv.FormatInt(supplier.ID, 10))
	respondJSON(w, http.StatusCreated, supplier)
}

// Update godoc
// @Summary Update supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param id path int true "Supplier ID"
// @Param request body domain.SupplierRequest true "Supplier data"
// @Success 200 {object} domain.SupplierDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /suppliers/{id} [put]
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.SupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	supplier, err := h.supplierService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update supplier")
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

// Delete godoc
// @Summary Delete supplier
// @Description Fails with 409 while assets or purchases reference the supplier
// @Tags Suppliers
// @Param id path int true "Supplier ID"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.supplierService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete supplier")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
