/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/contracts/*        Contract lifecycle, compliance, hours, reports
  /api/tasks/*            Task workflow
  /api/funding-sources/*  Funding program reference data
  /api/scenarios/*        Demo scenarios
  /api/reset              Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Contract routes
		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", h.ListContracts)
			r.Post("/", h.CreateContract)
			r.Get("/{id}", h.GetContract)
			r.Get("/{id}/compliance", h.GetCompliance)
			r.Get("/{id}/tasks", h.GetTasks)
			r.Post("/{id}/labor-hours", h.RecordLaborHours)
			r.Get("/{id}/labor-hours", h.ListLaborHours)
			r.Get("/{id}/reporting-period", h.GetReportingPeriod)
			r.Post("/{id}/reports", h.SubmitReport)
			r.Get("/{id}/reports", h.ListReports)
		})

		// Task routes
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/{id}/complete", h.CompleteTask)
		})

		// Funding source routes
		r.Route("/funding-sources", func(r chi.Router) {
			r.Get("/", h.ListFundingSources)
			r.Post("/", h.CreateFundingSource)
			r.Get("/{id}", h.GetFundingSource)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Minimal landing page for manual poking around
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Section 3 Compliance Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Section 3 Compliance Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/contracts">/api/contracts</a> - List contracts</li>
<li><a href="/api/funding-sources">/api/funding-sources</a> - List funding sources</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
