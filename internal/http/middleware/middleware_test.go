package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foxerka/enterprise-assets/internal/auth"
	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func get(h http.Handler, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())
	h := rl.LimitByIP(okHandler())

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, get(h, "/test", "192.168.1.1:12345").Code)
	}
}

func TestRateLimiter_LimitsByIP(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}, zap.NewNop())
	h := rl.LimitByIP(okHandler())

	assert.Equal(t, http.StatusOK, get(h, "/test", "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, get(h, "/test", "10.0.0.1:1001").Code)

	w := get(h, "/test", "10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	var body domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrorTypeRateLimited, body.Type)

	// another client has its own budget
	assert.Equal(t, http.StatusOK, get(h, "/test", "10.0.0.2:1000").Code)
}

func TestRateLimiter_Whitelists(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		WhitelistIPs:      []string{"127.0.0.1"},
		WhitelistPaths:    []string{"/health", "/swagger/*"},
	}, zap.NewNop())
	h := rl.LimitByIP(okHandler())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(h, "/test", "127.0.0.1:5000").Code)
		assert.Equal(t, http.StatusOK, get(h, "/health", "10.1.1.1:5000").Code)
		assert.Equal(t, http.StatusOK, get(h, "/swagger/index.html", "10.1.1.1:5000").Code)
	}
}

func TestRateLimiter_UsesForwardedFor(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1}, zap.NewNop())
	h := rl.LimitByIP(okHandler())

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.9.9.9:80"
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1, 10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
}

func TestRateLimiter_LimitsByUser(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinuteAuth: 1}, zap.NewNop())
	h := rl.LimitByUser(okHandler())

	send := func(userID int64) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/assets", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{UserID: userID, Username: "u"}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(1))
	assert.Equal(t, http.StatusOK, send(2))
	assert.Equal(t, http.StatusTooManyRequests, send(1))
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
	w := get(middleware.SecurityHeaders(cfg)(okHandler()), "/test", "10.0.0.1:1")

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	cfg := &config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: 31536000, HSTSIncludeSubdomains: true}
	w := get(middleware.SecurityHeaders(cfg)(okHandler()), "/test", "10.0.0.1:1")

	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, w.Header().Get("X-Frame-Options"))
}

func preflight(h http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	base := config.CORSConfig{
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}

	t.Run("development allows any origin", func(t *testing.T) {
		cfg := base
		h := middleware.CORS(&cfg, "development", zap.NewNop())(okHandler())
		assert.Equal(t, "http://localhost:3000", preflight(h, "http://localhost:3000").Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("explicit origins", func(t *testing.T) {
		cfg := base
		cfg.AllowedOrigins = []string{"https://assets.example.com"}
		h := middleware.CORS(&cfg, "production", zap.NewNop())(okHandler())
		assert.Equal(t, "https://assets.example.com", preflight(h, "https://assets.example.com").Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, preflight(h, "https://evil.example.com").Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("production without origins denies", func(t *testing.T) {
		cfg := base
		h := middleware.CORS(&cfg, "production", zap.NewNop())(okHandler())
		assert.Empty(t, preflight(h, "https://assets.example.com").Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := middleware.Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := get(h, "/explode", "10.0.0.1:1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrorTypeInternal, body.Type)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panic recovered", logs.All()[0].Message)
}

func TestLogging_RequestIDAndUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var seenID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = middleware.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	})
	withUser := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithUserContext(r.Context(), &auth.UserContext{UserID: 7, Username: "ivanov"})
		middleware.TrackUser(inner).ServeHTTP(w, r.WithContext(ctx))
	})
	h := middleware.Logging(zap.New(core))(withUser)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "req-1", seenID)
	assert.Equal(t, "req-1", w.Header().Get(middleware.RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, int64(http.StatusCreated), fields["status_code"])
	assert.Equal(t, int64(7), fields["user_id"])
	assert.Equal(t, "ivanov", fields["username"])
}

func TestLogging_GeneratesRequestID(t *testing.T) {
	h := middleware.Logging(zap.NewNop())(okHandler())
	w := get(h, "/test", "10.0.0.1:1")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
