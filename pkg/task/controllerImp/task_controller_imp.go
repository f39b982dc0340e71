package controllerImp

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"kisaan/entities"
	"kisaan/pkg/httpresp"
	"kisaan/pkg/middleware"
	"kisaan/pkg/task/controller"
	"kisaan/pkg/task/service"
	"kisaan/pkg/validation"
)

const maxPhotoBytes = 10 << 20

type TaskCtrl struct{ svc service.TaskService }

func New(svc service.TaskService) controller.TaskController { return &TaskCtrl{svc: svc} }

func (h *TaskCtrl) Get(c echo.Context) error {
	t, err := h.svc.Get(c.Request().Context(), middleware.Session(c), c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

type statusReq struct {
	Status string `json:"status" validate:"required,taskstatus"`
}

// SetStatus handles PATCH /tasks/:id/status.
func (h *TaskCtrl) SetStatus(c echo.Context) error {
	var body statusReq
	if err := c.Bind(&body); err != nil {
		return httpresp.BadRequest(c, "bad json")
	}
	if err := validation.Struct(body); err != nil {
		return httpresp.Error(c, err)
	}

	ctx := c.Request().Context()
	sess := middleware.Session(c)
	t, err := h.svc.Get(ctx, sess, c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	if err := h.svc.SetStatus(ctx, sess, t, entities.TaskStatus(body.Status)); err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Complete handles POST /tasks/:id/complete with an optional "photo" file
// and "notes" field.
func (h *TaskCtrl) Complete(c echo.Context) error {
	var req service.CompleteRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		req.Notes = c.FormValue("notes")
		photo, err := readPhoto(c)
		if err != nil {
			return httpresp.BadRequest(c, err.Error())
		}
		req.Photo = photo
	} else if c.Request().ContentLength > 0 {
		var body struct {
			Notes string `json:"notes"`
		}
		if err := c.Bind(&body); err != nil {
			return httpresp.BadRequest(c, "bad json")
		}
		req.Notes = body.Notes
	}

	ctx := c.Request().Context()
	sess := middleware.Session(c)
	t, err := h.svc.Get(ctx, sess, c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	if err := h.svc.Complete(ctx, sess, t, req); err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func readPhoto(c echo.Context) (*service.Photo, error) {
	fh, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > maxPhotoBytes {
		return nil, errors.New("photo too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.Photo{Name: fh.Filename, Data: data}, nil
}
