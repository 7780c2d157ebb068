package handler

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// AssetHandler handles HTTP requests for asset operations
type AssetHandler struct {
	assetService *service.AssetService
	logger       *zap.Logger
}

// NewAssetHandler creates a new asset handler instance
func NewAssetHandler(assetService *service.AssetService, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
		logger:       logger,
	}
}

func assetFilters(r *http.Request) (repository.AssetFilters, error) {
	f := repository.AssetFilters{Search: r.URL.Query().Get("search")}
	err := queryIDs(r,
		idParam{"typeId", &f.TypeID},
		idParam{"categoryId", &f.CategoryID},
		idParam{"workshopId", &f.WorkshopID},
		idParam{"supplierId", &f.SupplierID},
		idParam{"statusId", &f.StatusID},
	)
	if err != nil {
		return f, err
	}
	lowStock, err := queryBool(r, "lowStock")
	if err != nil {
		return f, err
	}
	f.LowStockOnly = lowStock != nil && *lowStock
	return f, nil
}

// List godoc
// @Summary List assets
// @Description Get paginated list of assets with optional filters
// @Tags Assets
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by name, serial number or warehouse location"
// @Param typeId query int false "Filter by asset type"
// @Param categoryId query int false "Filter by category"
// @Param workshopId query int false "Filter by workshop"
// @Param supplierId query int false "Filter by supplier"
// @Param statusId query int false "Filter by status"
// @Param lowStock query bool false "Only assets below their minimum quantity"
// @Param sortBy query string false "Sort field" Enums(id, name, serialNumber, quantity, purchaseDate, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AssetDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /assets [get]
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := assetFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, pageSize := parsePage(r)

	result, err := h.assetService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list assets")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// Stats godoc
// @Summary Asset statistics
// @Description Total, equipment count and low stock count over the filtered asset list
// @Tags Assets
// @Produce json
// @Param search query string false "Search by name, serial number or warehouse location"
// @Param typeId query int false "Filter by asset type"
// @Param categoryId query int false "Filter by category"
// @Param workshopId query int false "Filter by workshop"
// @Success 200 {object} domain.StatsSummaryDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /assets/stats [get]
func (h *AssetHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filters, err := assetFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.assetService.Stats(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute asset stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get asset by ID
// @Tags Assets
// @Produce json
// @Param id path int true "Asset ID"
// @Success 200 {object} domain.AssetDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /assets/{id} [get]
func (h *AssetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	asset, err := h.assetService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get asset")
		return
	}
	respondJSON(w, http.StatusOK, asset)
}

// Create godoc
// @Summary Create asset
// @Description The status is only kept for equipment-typed assets
// @Tags Assets
// @Accept json
// @Produce json
// @Param request body domain.AssetRequest true "Asset data"
// @Success 201 {object} domain.AssetDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /assets [post]
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.AssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	asset, err := h.assetService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create asset")
		return
	}
	w.Header().Set("Location", "/api/v1/assets/"+strconv.FormatInt(asset.ID, 10))
	respondJSON(w, http.StatusCreated, asset)
}

// Update godoc
// @Summary Update asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path int true "Asset ID"
// @Param request body domain.AssetRequest true "Asset data"
// @Success 200 {object} domain.AssetDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /assets/{id} [put]
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.AssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	asset, err := h.assetService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update asset")
		return
	}
	respondJSON(w, http.StatusOK, asset)
}

// Delete godoc
// @Summary Delete asset
// @Description Fails with 409 while work acts, equipment or purchases reference the asset
// @Tags Assets
// @Param id path int true "Asset ID"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.assetService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete asset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
