package controllerImp

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"kisaan/entities"
	"kisaan/pkg/export"
	"kisaan/pkg/httpresp"
	"kisaan/pkg/logger"
	"kisaan/pkg/middleware"
	"kisaan/pkg/plan/controller"
	"kisaan/pkg/plan/service"
	problemsvc "kisaan/pkg/problem/service"
)

type PlanCtrl struct {
	svc      service.PlanService
	problems problemsvc.ProblemService
	apiKey   string
}

// NewPlanCtrl serves plan generation and tracking. apiKey is used when a
// request does not carry its own.
func NewPlanCtrl(svc service.PlanService, problems problemsvc.ProblemService, apiKey string) controller.PlanController {
	return &PlanCtrl{svc: svc, problems: problems, apiKey: apiKey}
}

type generateReq struct {
	APIKey string `json:"apiKey"`
}

// Generate handles POST /problems/:id/plan.
func (h *PlanCtrl) Generate(c echo.Context) error {
	ctx := c.Request().Context()
	sess := middleware.Session(c)

	var body generateReq
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&body); err != nil {
			return httpresp.BadRequest(c, "bad json")
		}
	}
	key := body.APIKey
	if key == "" {
		key = h.apiKey
	}

	problem, err := h.problems.Get(ctx, sess, c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}

	log := logger.FromContext(ctx)
	res, err := h.svc.Generate(ctx, sess, problem, key, func(st service.Stage, pct int) {
		log.Debug("plan generation", "stage", st, "pct", pct)
	})
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Get handles GET /plans/:id.
func (h *PlanCtrl) Get(c echo.Context) error {
	v, err := h.svc.Get(c.Request().Context(), middleware.Session(c), c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// List handles GET /plans.
func (h *PlanCtrl) List(c echo.Context) error {
	plans, err := h.svc.List(c.Request().Context(), middleware.Session(c))
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, plans)
}

// Export handles GET /plans/:id/export.xlsx.
func (h *PlanCtrl) Export(c echo.Context) error {
	v, err := h.svc.Get(c.Request().Context(), middleware.Session(c), c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	tasks := make([]entities.Task, len(v.Tasks))
	for i := range v.Tasks {
		tasks[i] = v.Tasks[i].Task
	}

	var buf bytes.Buffer
	if err := export.WriteSchedule(&buf, v.Plan, tasks); err != nil {
		return httpresp.Error(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.FileName(v.Plan)+`"`)
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
