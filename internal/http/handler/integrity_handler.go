package handler

import (
	"net/http"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// IntegrityHandler exposes delete previews, draft validation and derived statuses
type IntegrityHandler struct {
	integrityService *service.IntegrityService
	logger           *zap.Logger
}

// NewIntegrityHandler creates a new integrity handler instance
func NewIntegrityHandler(integrityService *service.IntegrityService, logger *zap.Logger) *IntegrityHandler {
	return &IntegrityHandler{
		integrityService: integrityService,
		logger:           logger,
	}
}

// PreviewDelete godoc
// @Summary Delete preview
// @Description Reports whether an entity can be deleted and which relations block it
// @Tags Integrity
// @Produce json
// @Param kind path string true "Entity kind, singular or plural (asset, assets, asset-types, ...)"
// @Param id path int true "Entity ID"
// @Success 200 {object} domain.DeletePreviewDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /integrity/{kind}/{id} [get]
func (h *IntegrityHandler) PreviewDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	preview, err := h.integrityService.PreviewDelete(r.Context(), kind, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "preview delete")
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

// Validate godoc
// @Summary Validate a draft
// @Description Runs the create rules, or the update rules when id is given, without saving
// @Tags Integrity
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id query int false "ID of the entity being edited"
// @Param request body object true "Draft in the create/update request shape of the kind"
// @Success 200 {object} domain.ValidationResultDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /validate/{kind} [post]
func (h *IntegrityHandler) Validate(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	var id int64
	if v, err := queryInt64(r, "id"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	} else if v != nil {
		id = *v
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	result, err := h.integrityService.Validate(r.Context(), kind, id, body)
	if err != nil {
		respondServiceError(w, h.logger, err, "validate draft")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Status returns a handler deriving the statuses of one kind
// @Summary Derived statuses
// @Description Warranty and maintenance for equipment, delivery for purchases, next maintenance for records
// @Tags Integrity
// @Produce json
// @Param id path int true "Entity ID"
// @Success 200 {object} domain.EntityStatusDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /equipment/{id}/status [get]
// @Router /purchases/{id}/status [get]
// @Router /maintenance/{id}/status [get]
func (h *IntegrityHandler) Status(kind domain.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		result, err := h.integrityService.Status(r.Context(), kind, id)
		if err != nil {
			respondServiceError(w, h.logger, err, "derive status")
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
