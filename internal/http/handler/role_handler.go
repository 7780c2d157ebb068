package handler

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// RoleHandler handles HTTP requests for role administration
type RoleHandler struct {
	roleService *service.RoleService
	logger      *zap.Logger
}

// NewRoleHandler creates a new role handler instance
func NewRoleHandler(roleService *service.RoleService, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		logger:      logger,
	}
}

// List godoc
// @Summary List roles
// @Tags Roles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by name"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.RoleDTO}
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /roles [get]
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)
	filters := repository.NameFilters{Search: r.URL.Query().Get("search")}

	result, err := h.roleService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list roles")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// GetByID godoc
// @Summary Get role by ID
// @Tags Roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} domain.RoleDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /roles/{id} [get]
func (h *RoleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	role, err := h.roleService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get role")
		return
	}
	respondJSON(w, http.StatusOK, role)
}

// Create godoc
// @Summary Create role
// @Tags Roles
// @Accept json
// @Produce json
// @Param request body domain.RoleRequest true "Role data"
// @Success 201 {object} domain.RoleDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /roles [post]
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.RoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	role, err := h.roleService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create role")
		return
	}
	w.Header().Set("Location", "/api/v1/roles/"+strconv.FormatInt(role.ID, 10))
	respondJSON(w, http.StatusCreated, role)
}

// Update godoc
// @Summary Update role
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param request body domain.RoleRequest true "Role data"
// @Success 200 {object} domain.RoleDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /roles/{id} [put]
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.RoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	role, err := h.roleService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update role")
		return
	}
	respondJSON(w, http.StatusOK, role)
}

// Delete godoc
// @Summary Delete role
// @Description Fails with 409 while users have the role
// @Tags Roles
// @Param id path int true "Role ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.roleService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete role")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
