package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"homeleads/internal/platform/metrics"
	"homeleads/internal/platform/middleware"
	"homeleads/internal/ratelimit"
)

// middlewareUserID reads the authenticated user id the auth middleware
// stored in the request context.
var middlewareUserID = middleware.GetUserID

// HealthCheck names one dependency probe for the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler holds the services the HTTP layer dispatches to.
type Handler struct {
	leads     LeadService
	deals     DealService
	auth      AuthService
	contacts  ContactService
	dashboard DashboardService
	logger    *slog.Logger
	checks    []HealthCheck
}

// NewHandler wires a Handler from the application services.
func NewHandler(leads LeadService, deals DealService, auth AuthService, contacts ContactService, dash DashboardService, logger *slog.Logger, checks ...HealthCheck) *Handler {
	return &Handler{
		leads:     leads,
		deals:     deals,
		auth:      auth,
		contacts:  contacts,
		dashboard: dash,
		logger:    logger,
		checks:    checks,
	}
}

// handleHealth probes the wired dependencies. Any failing probe reports the
// service degraded with a 503 so load balancers rotate it out.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			components[c.Name] = "unavailable"
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			h.logger.WarnContext(ctx, "health check failed", "component", c.Name, "error", err)
			continue
		}
		components[c.Name] = "ok"
	}

	body := map[string]any{"status": status}
	if len(components) > 0 {
		body["components"] = components
	}
	writeJSON(w, httpStatus, body)
}

// NewRouter assembles the chi router with the shared middleware chain,
// the public lead capture routes and the token gated admin API.
func NewRouter(h *Handler, validator middleware.JWTValidator, limiter *ratelimit.Limiter, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Route("/leads", func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/contact", h.handleSubmitContact)
			r.Post("/open-house", h.handleSubmitOpenHouse)
			r.Post("/event", h.handleSubmitEvent)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(validator, logger))

				r.Get("/messages", h.handleListMessages)
				r.Post("/messages/{id}/read", h.handleMarkMessageRead)
				r.Get("/open-house", h.handleListOpenHouse)
				r.Get("/events", h.handleListEvents)
				r.Delete("/signins/{id}", h.handleDeactivateSignIn)

				r.Get("/contacts", h.handleListContacts)
				r.Get("/contacts/{id}", h.handleGetContact)
				r.Delete("/contacts/{id}", h.handleDeactivateContact)

				r.Post("/deals", h.handleCreateDeal)
				r.Get("/deals", h.handleListDeals)
				r.Get("/deals/{id}", h.handleGetDeal)
				r.Patch("/deals/{id}", h.handleUpdateDeal)
				r.Put("/deals/{id}/stage", h.handleUpdateDealStage)
				r.Delete("/deals/{id}", h.handleDeleteDeal)

				r.Get("/dashboard", h.handleDashboard)
			})
		})
	})

	return r
}
