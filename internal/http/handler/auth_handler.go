package handler

import (
	"net/http"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchanges a username and password for a bearer token. Usernames are case-insensitive.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "log in")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Get current authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "load current user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
