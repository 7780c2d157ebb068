package handler

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// PurchaseHandler handles HTTP requests for purchase operations
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
	logger          *zap.Logger
}

// NewPurchaseHandler creates a new purchase handler instance
func NewPurchaseHandler(purchaseService *service.PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		logger:          logger,
	}
}

func purchaseFilters(r *http.Request) (repository.PurchaseFilters, error) {
	f := repository.PurchaseFilters{Search: r.URL.Query().Get("search")}
	err := queryIDs(r,
		idParam{"statusId", &f.StatusID},
		idParam{"supplierId", &f.SupplierID},
		idParam{"assetId", &f.AssetID},
	)
	return f, err
}

// List godoc
// @Summary List purchases
// @Description Get paginated list of purchases with derived delivery status
// @Tags Purchases
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by purchase number or notes"
// @Param statusId query int false "Filter by purchase status"
// @Param supplierId query int false "Filter by supplier"
// @Param assetId query int false "Filter by asset"
// @Param sortBy query string false "Sort field" Enums(id, purchaseNumber, orderDate, expectedDelivery, totalCost, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PurchaseDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /purchases [get]
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := purchaseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, pageSize := parsePage(r)

	result, err := h.purchaseService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list purchases")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// Stats godoc
// @Summary Purchase statistics
// @Description Total count, summed total cost and purchases awaiting approval
// @Tags Purchases
// @Produce json
// @Param statusId query int false "Filter by purchase status"
// @Param supplierId query int false "Filter by supplier"
// @Success 200 {object} domain.StatsSummaryDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /purchases/stats [get]
func (h *PurchaseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filters, err := purchaseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.purchaseService.Stats(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute purchase stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get purchase by ID
// @Tags Purchases
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} domain.PurchaseDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /purchases/{id} [get]
func (h *PurchaseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	purchase, err := h.purchaseService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get purchase")
		return
	}
	respondJSON(w, http.StatusOK, purchase)
}

// Create godoc
// @Summary Register purchase
// @Description Assigns the next purchase number and computes the total cost
// @Tags Purchases
// @Accept json
// @Produce json
// @Param request body domain.PurchaseRequest true "Purchase data"
// @Success 201 {object} domain.PurchaseDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /purchases [post]
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	purchase, err := h.purchaseService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create purchase")
		return
	}
	w.Header().Set("Location", "/api/v1/purchases/"+strconv.FormatInt(purchase.ID, 10))
	respondJSON(w, http.StatusCreated, purchase)
}

// Update godoc
// @Summary Update purchase
// @Tags Purchases
// @Accept json
// @Produce json
// @Param id path int true "Purchase ID"
// @Param request body domain.PurchaseRequest true "Purchase data"
// @Success 200 {object} domain.PurchaseDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /purchases/{id} [put]
func (h *PurchaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	purchase, err := h.purchaseService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update purchase")
		return
	}
	respondJSON(w, http.StatusOK, purchase)
}

// Delete godoc
// @Summary Delete purchase
// @Tags Purchases
// @Param id path int true "Purchase ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /purchases/{id} [delete]
func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.purchaseService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete purchase")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
