package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/auth"
	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimiter applies per-IP limits before authentication and per-user
// limits after it
type RateLimiter struct {
	cfg          *config.RateLimitConfig
	logger       *zap.Logger
	ipLimiter    func(http.Handler) http.Handler
	userLimiter  func(http.Handler) http.Handler
	whitelistIPs map[string]struct{}
	exactPaths   map[string]struct{}
	pathPrefixes []string
}

// NewRateLimiter creates a rate limiter from config. Whitelisted paths ending
// in "/*" match by prefix.
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:          cfg,
		logger:       logger,
		whitelistIPs: make(map[string]struct{}, len(cfg.WhitelistIPs)),
		exactPaths:   make(map[string]struct{}, len(cfg.WhitelistPaths)),
	}
	for _, ip := range cfg.WhitelistIPs {
		rl.whitelistIPs[ip] = struct{}{}
	}
	for _, p := range cfg.WhitelistPaths {
		if strings.HasSuffix(p, "/*") {
			rl.pathPrefixes = append(rl.pathPrefixes, strings.TrimSuffix(p, "*"))
			continue
		}
		rl.exactPaths[p] = struct{}{}
	}

	rl.ipLimiter = httprate.Limit(
		cfg.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(rl.keyByIP),
		httprate.WithLimitHandler(rl.exceeded),
	)
	rl.userLimiter = httprate.Limit(
		cfg.RequestsPerMinuteAuth,
		time.Minute,
		httprate.WithKeyFuncs(rl.keyByUserOrIP),
		httprate.WithLimitHandler(rl.exceeded),
	)

	logger.Info("Rate limiter initialized",
		zap.Bool("enabled", cfg.Enabled),
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
		zap.Int("requests_per_minute_auth", cfg.RequestsPerMinuteAuth),
	)
	return rl
}

// LimitByIP limits anonymous traffic; mount it before authentication
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	return rl.wrap(rl.ipLimiter, next)
}

// LimitByUser limits authenticated traffic per user id; mount it after
// authentication
func (rl *RateLimiter) LimitByUser(next http.Handler) http.Handler {
	return rl.wrap(rl.userLimiter, next)
}

func (rl *RateLimiter) wrap(limiter func(http.Handler) http.Handler, next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	limited := limiter(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.isPathWhitelisted(r.URL.Path) || rl.isIPWhitelisted(clientIP(r)) {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) keyByIP(r *http.Request) (string, error) {
	return "ip:" + clientIP(r), nil
}

func (rl *RateLimiter) keyByUserOrIP(r *http.Request) (string, error) {
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		return "user:" + strconv.FormatInt(userCtx.UserID, 10), nil
	}
	return rl.keyByIP(r)
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (rl *RateLimiter) isIPWhitelisted(ip string) bool {
	_, ok := rl.whitelistIPs[ip]
	return ok
}

func (rl *RateLimiter) isPathWhitelisted(path string) bool {
	if _, ok := rl.exactPaths[path]; ok {
		return true
	}
	for _, prefix := range rl.pathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (rl *RateLimiter) exceeded(w http.ResponseWriter, r *http.Request) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("client_ip", clientIP(r)),
	}
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		fields = append(fields, zap.Int64("user_id", userCtx.UserID))
	}
	rl.logger.Warn("rate limit exceeded", fields...)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeRateLimited,
		Title:  http.StatusText(http.StatusTooManyRequests),
		Status: http.StatusTooManyRequests,
		Detail: "too many requests, try again later",
	})
}
