package router

import (
	"encoding/json"
	"net/http"

	"github.com/foxerka/enterprise-assets/internal/auth"
	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/foxerka/enterprise-assets/internal/database"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/http/handler"
	"github.com/foxerka/enterprise-assets/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/foxerka/enterprise-assets/docs" // Import generated swagger docs
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth        *handler.AuthHandler
	Asset       *handler.AssetHandler
	Equipment   *handler.EquipmentHandler
	Workshop    *handler.WorkshopHandler
	Supplier    *handler.SupplierHandler
	Purchase    *handler.PurchaseHandler
	Maintenance *handler.MaintenanceHandler
	Master      *handler.MasterHandler
	User        *handler.UserHandler
	Role        *handler.RoleHandler
	WorkAct     *handler.WorkActHandler
	Lookup      *handler.LookupHandler
	Integrity   *handler.IntegrityHandler
	Report      *handler.ReportHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	h              Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		h:              handlers,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (rt *Router) healthDB(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats":   stats,
	})
}

func (rt *Router) healthReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]interface{}{}
	status := http.StatusOK

	if err := database.HealthCheck(r.Context(), rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]string{"status": "unhealthy", "error": err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = map[string]string{"status": "healthy"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	writeJSON(w, status, map[string]interface{}{"status": overall, "checks": checks})
}

// adminOnly restricts a route group to the configured admin roles. With no
// roles configured every authenticated user passes.
func (rt *Router) adminOnly(r chi.Router) {
	if len(rt.cfg.Auth.AdminRoles) > 0 {
		r.Use(rt.authMiddleware.RequireRole(rt.cfg.Auth.AdminRoles...))
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	r.Get("/health", rt.health)
	r.Get("/health/db", rt.healthDB)
	r.Get("/health/ready", rt.healthReady)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	h := rt.h
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", h.Auth.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(middleware.TrackUser)
			r.Use(rt.rateLimiter.LimitByUser)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/assets", func(r chi.Router) {
				r.Get("/", h.Asset.List)
				r.Post("/", h.Asset.Create)
				r.Get("/stats", h.Asset.Stats)
				r.Get("/{id}", h.Asset.GetByID)
				r.Put("/{id}", h.Asset.Update)
				r.Delete("/{id}", h.Asset.Delete)
			})

			r.Route("/equipment", func(r chi.Router) {
				r.Get("/", h.Equipment.List)
				r.Post("/", h.Equipment.Create)
				r.Get("/stats", h.Equipment.Stats)
				r.Get("/{id}", h.Equipment.GetByID)
				r.Put("/{id}", h.Equipment.Update)
				r.Delete("/{id}", h.Equipment.Delete)
				r.Get("/{id}/status", h.Integrity.Status(domain.KindEquipment))
			})

			r.Route("/workshops", func(r chi.Router) {
				r.Get("/", h.Workshop.List)
				r.Post("/", h.Workshop.Create)
				r.Get("/stats", h.Workshop.Stats)
				r.Get("/{id}", h.Workshop.GetByID)
				r.Put("/{id}", h.Workshop.Update)
				r.Delete("/{id}", h.Workshop.Delete)
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", h.Supplier.List)
				r.Post("/", h.Supplier.Create)
				r.Get("/stats", h.Supplier.Stats)
				r.Get("/{id}", h.Supplier.GetByID)
				r.Put("/{id}", h.Supplier.Update)
				r.Delete("/{id}", h.Supplier.Delete)
			})

			r.Route("/purchases", func(r chi.Router) {
				r.Get("/", h.Purchase.List)
				r.Post("/", h.Purchase.Create)
				r.Get("/stats", h.Purchase.Stats)
				r.Get("/{id}", h.Purchase.GetByID)
				r.Put("/{id}", h.Purchase.Update)
				r.Delete("/{id}", h.Purchase.Delete)
				r.Get("/{id}/status", h.Integrity.Status(domain.KindPurchase))
			})

			r.Route("/maintenance", func(r chi.Router) {
				r.Get("/", h.Maintenance.List)
				r.Post("/", h.Maintenance.Create)
				r.Get("/stats", h.Maintenance.Stats)
				r.Get("/schedule", h.Equipment.Schedule)
				r.Get("/{id}", h.Maintenance.GetByID)
				r.Put("/{id}", h.Maintenance.Update)
				r.Delete("/{id}", h.Maintenance.Delete)
				r.Get("/{id}/status", h.Integrity.Status(domain.KindMaintenance))
			})

			r.Route("/masters", func(r chi.Router) {
				r.Get("/", h.Master.List)
				r.Post("/", h.Master.Create)
				r.Get("/stats", h.Master.Stats)
				r.Get("/options", h.Master.Options)
				r.Get("/{id}", h.Master.GetByID)
				r.Put("/{id}", h.Master.Update)
				r.Delete("/{id}", h.Master.Delete)
				r.Get("/{id}/stats", h.Master.WorkStats)
			})

			r.Route("/work-acts", func(r chi.Router) {
				r.Get("/", h.WorkAct.List)
				r.Post("/", h.WorkAct.Create)
				r.Get("/{id}", h.WorkAct.GetByID)
				r.Put("/{id}", h.WorkAct.Update)
				r.Delete("/{id}", h.WorkAct.Delete)
			})

			r.Route("/lookups/{kind}", func(r chi.Router) {
				r.Get("/", h.Lookup.List)
				r.Post("/", h.Lookup.Create)
				r.Get("/stats", h.Lookup.Stats)
				r.Get("/{id}", h.Lookup.GetByID)
				r.Put("/{id}", h.Lookup.Update)
				r.Delete("/{id}", h.Lookup.Delete)
			})

			r.Get("/integrity/{kind}/{id}", h.Integrity.PreviewDelete)
			r.Post("/validate/{kind}", h.Integrity.Validate)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/equipment.xlsx", h.Report.Equipment)
				r.Get("/maintenance.xlsx", h.Report.Maintenance)
				r.Post("/equipment/archive", h.Report.ArchiveEquipment)
			})

			// Administration
			r.Group(func(r chi.Router) {
				rt.adminOnly(r)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", h.User.List)
					r.Post("/", h.User.Create)
					r.Get("/{id}", h.User.GetByID)
					r.Put("/{id}", h.User.Update)
					r.Delete("/{id}", h.User.Delete)
				})

				r.Route("/roles", func(r chi.Router) {
					r.Get("/", h.Role.List)
					r.Post("/", h.Role.Create)
					r.Get("/{id}", h.Role.GetByID)
					r.Put("/{id}", h.Role.Update)
					r.Delete("/{id}", h.Role.Delete)
				})
			})
		})
	})

	return r
}
