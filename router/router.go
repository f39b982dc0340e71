package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authctl "kisaan/pkg/auth/controller"
	healthctl "kisaan/pkg/health/controller"
	kbctl "kisaan/pkg/kb/controller"
	"kisaan/pkg/metrics"
	"kisaan/pkg/middleware"
	planctl "kisaan/pkg/plan/controller"
	problemctl "kisaan/pkg/problem/controller"
	storectl "kisaan/pkg/store/controller"
	taskctl "kisaan/pkg/task/controller"
)

// Handlers groups the controllers the server mounts. Store is nil when the
// document store is remote.
type Handlers struct {
	Store   storectl.StoreController
	Problem problemctl.ProblemController
	Plan    planctl.PlanController
	Task    taskctl.TaskController
	Auth    authctl.AuthController
	KB      kbctl.KBController
	Health  healthctl.HealthController
}

func New(e *echo.Echo, h Handlers, enableAuth bool) *echo.Echo {
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())

	e.GET("/health", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if h.Store != nil {
		h.Store.Register(e)
	}

	// identity is resolved per route so /api, /health and /metrics stay open
	id := middleware.Identity(enableAuth)
	api := e.Group("")

	api.GET("/whoami", h.Auth.WhoAmI, id)
	if !enableAuth {
		api.GET("/auth/dev-login", h.Auth.DevLogin, id)
	}

	api.POST("/problems", h.Problem.Submit, id)
	api.GET("/problems/:id", h.Problem.Get, id)
	api.POST("/problems/:id/plan", h.Plan.Generate, id)

	api.GET("/plans", h.Plan.List, id)
	api.GET("/plans/:id", h.Plan.Get, id)
	api.GET("/plans/:id/export.xlsx", h.Plan.Export, id)

	api.GET("/tasks/:id", h.Task.Get, id)
	api.PATCH("/tasks/:id/status", h.Task.SetStatus, id)
	api.POST("/tasks/:id/complete", h.Task.Complete, id)

	// KB endpoints
	api.POST("/kb/ingest", h.KB.IngestText, id)
	api.POST("/kb/ingest/url", h.KB.IngestURL, id)
	api.GET("/kb/search", h.KB.Search, id)
	api.GET("/kb/docs", h.KB.ListDocs, id)
	return e
}
