package handler

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for user administration
type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by username, full name or email"
// @Param roleId query int false "Filter by role"
// @Param sortBy query string false "Sort field" Enums(id, username, fullName, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(asc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.UserDTO}
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	roleID, err := queryInt64(r, "roleId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	filters := repository.UserFilters{Search: r.URL.Query().Get("search"), RoleID: roleID}
	page, pageSize := parsePage(r)

	result, err := h.userService.List(r.Context(), filters, parseSort(r), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list users")
		return
	}
	respondJSON(w, http.StatusOK, result.ToPaginatedResponse())
}

// GetByID godoc
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.UserDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Create godoc
// @Summary Create user
// @Description Password and confirmPassword are required and must match
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.UserRequest true "User data"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create user")
		return
	}
	w.Header().Set("Location", "/api/v1/users/"+strconv.FormatInt(user.ID, 10))
	respondJSON(w, http.StatusCreated, user)
}

// Update godoc
// @Summary Update user
// @Description An empty password keeps the current one
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body domain.UserRequest true "User data"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.userService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Delete godoc
// @Summary Delete user
// @Description Fails with 409 while a master references the user
// @Tags Users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.userService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
