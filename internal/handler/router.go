package handler

import (
	"net/http"

	"github.com/costmanagement/backend/internal/repository"
	"github.com/costmanagement/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services はルーターが公開するサービス群
type Services struct {
	Project  service.ProjectService
	Cost     service.CostService
	Employee service.EmployeeService
	Event    service.EventService
	Chart    service.ChartService
}

// RouterConfig holds the HTTP-level settings of the router.
type RouterConfig struct {
	FrontendURL        string
	RateLimitPerMinute int // 書き込み系ルートにのみ適用
}

// NewRouter wires every API route onto a chi router.
func NewRouter(db repository.DB, svc Services, cfg RouterConfig) http.Handler {
	h := New(db, cfg.FrontendURL)
	projects := NewProjectHandler(svc.Project, svc.Cost)
	employees := NewEmployeeHandler(svc.Employee)
	modules := NewModuleHandler(svc.Cost, svc.Project)
	events := NewEventHandler(svc.Event)
	chart := NewChartHandler(svc.Chart)
	limiter := NewRateLimiter(cfg.RateLimitPerMinute)

	r := chi.NewRouter()
	r.Use(RequestLogger, SecurityHeaders, h.CORS)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Get("/projects", projects.List)
		r.Get("/projects/{id}/cost", projects.Cost)
		r.Get("/master", projects.Master)

		r.Get("/employees", employees.List)
		r.Get("/roles", employees.Roles)

		r.Get("/modules", modules.List)
		r.Get("/modules/detail", modules.Detail)
		r.Get("/modules/{id}/cost", modules.Cost)

		r.Get("/chart", chart.Chart)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/projects", projects.Create)
			r.Post("/projects/{id}/employees", projects.AddMember)
			r.Post("/employees", employees.Create)
			r.Post("/modules", modules.Create)
			r.Post("/modules/{id}/employees", modules.AddEmployees)
			r.Post("/events", events.Create)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
