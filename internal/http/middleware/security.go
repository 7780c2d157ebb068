package middleware

import (
	"net/http"
	"strconv"

	"github.com/foxerka/enterprise-assets/internal/config"
)

// SecurityHeaders sets the configured response security headers.
// Headers are computed once; empty values are not sent.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	headers := map[string]string{
		"X-Frame-Options":         cfg.FrameOptions,
		"Content-Security-Policy": cfg.ContentSecurityPolicy,
		"Referrer-Policy":         cfg.ReferrerPolicy,
	}
	if cfg.ContentTypeNosniff {
		headers["X-Content-Type-Options"] = "nosniff"
	}
	if cfg.EnableHSTS {
		hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		headers["Strict-Transport-Security"] = hsts
	}
	for k, v := range headers {
		if v == "" {
			delete(headers, k)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range headers {
				h.Set(k, v)
			}
			h.Del("X-Powered-By")
			h.Del("Server")
			next.ServeHTTP(w, r)
		})
	}
}
