package middleware

import (
	"net/http"

	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func isDevelopment(environment string) bool {
	return environment == "" || environment == "development" || environment == "local"
}

func anyOrigin(r *http.Request, origin string) bool { return origin != "" }

// CORS returns a CORS middleware configured from the application config.
// A "*" origin or an empty list allows every origin in development; with an
// empty list outside development every cross-origin request is denied.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	wildcard := false
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			wildcard = true
			break
		}
	}

	switch {
	case wildcard:
		if !isDevelopment(environment) {
			logger.Warn("CORS wildcard origin outside development", zap.String("environment", environment))
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", cfg.AllowedOrigins))
	case isDevelopment(environment):
		options.AllowOriginFunc = anyOrigin
		logger.Info("CORS allows all origins in development")
	default:
		// an empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, cross-origin requests are denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
