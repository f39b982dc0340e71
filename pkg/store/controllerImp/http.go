package controllerImp

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"kisaan/entities"
	"kisaan/pkg/httpresp"
	"kisaan/pkg/store/controller"
	"kisaan/pkg/store/repository"
)

type httpCtrl struct{ s repository.Store }

func New(s repository.Store) controller.StoreController { return &httpCtrl{s: s} }

func (h *httpCtrl) Register(e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/problems/:id", h.getProblem)
	g.POST("/problems", h.createProblem)

	g.GET("/actionPlans", h.listPlans)
	g.GET("/actionPlans/:id", h.getPlan)
	g.POST("/actionPlans", h.createPlan)

	g.GET("/tasks", h.listTasks)
	g.GET("/tasks/:id", h.getTask)
	g.POST("/tasks", h.createTask)
	g.PUT("/tasks/:id", h.updateTask)
}

func (h *httpCtrl) createProblem(c echo.Context) error {
	var in entities.FarmingProblem
	if err := c.Bind(&in); err != nil {
		return httpresp.BadRequest(c, "invalid json")
	}
	out, err := h.s.CreateProblem(c.Request().Context(), &in)
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *httpCtrl) getProblem(c echo.Context) error {
	out, err := h.s.GetProblem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *httpCtrl) createPlan(c echo.Context) error {
	var in entities.ActionPlan
	if err := c.Bind(&in); err != nil {
		return httpresp.BadRequest(c, "invalid json")
	}
	in.Tasks = nil
	out, err := h.s.CreatePlan(c.Request().Context(), &in)
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *httpCtrl) getPlan(c echo.Context) error {
	out, err := h.s.GetPlan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *httpCtrl) listPlans(c echo.Context) error {
	out, err := h.s.ListPlans(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *httpCtrl) createTask(c echo.Context) error {
	var in entities.Task
	if err := c.Bind(&in); err != nil {
		return httpresp.BadRequest(c, "invalid json")
	}
	out, err := h.s.CreateTask(c.Request().Context(), &in)
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *httpCtrl) getTask(c echo.Context) error {
	out, err := h.s.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *httpCtrl) listTasks(c echo.Context) error {
	planID := c.QueryParam("planId")
	if planID == "" {
		return httpresp.BadRequest(c, "planId required")
	}
	out, err := h.s.ListTasksByPlan(c.Request().Context(), planID)
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// updateTask merges the body into the stored task ($set semantics).
func (h *httpCtrl) updateTask(c echo.Context) error {
	var patch entities.TaskPatch
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil {
		return httpresp.BadRequest(c, "invalid patch: "+err.Error())
	}
	if patch.IsEmpty() {
		return httpresp.BadRequest(c, "empty patch")
	}
	out, err := h.s.UpdateTask(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
