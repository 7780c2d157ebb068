package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"go.uber.org/zap"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*UserContext, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens TokenValidator
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens TokenValidator, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		logger: logger,
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeUnauthorized,
		Title:  http.StatusText(http.StatusUnauthorized),
		Status: http.StatusUnauthorized,
		Detail: detail,
	})
}

// Authenticate requires a valid Bearer token
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w, "invalid authorization header format")
			return
		}

		userCtx, err := m.tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			unauthorized(w, err.Error())
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int64("user_id", userCtx.UserID),
			zap.String("username", userCtx.Username),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole middleware ensures user has one of the given roles
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok || !userCtx.HasAnyRole(roles...) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(domain.APIError{
					Type:   domain.ErrorTypeForbidden,
					Title:  http.StatusText(http.StatusForbidden),
					Status: http.StatusForbidden,
					Detail: "insufficient permissions",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
