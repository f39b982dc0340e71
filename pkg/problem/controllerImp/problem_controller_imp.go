package controllerImp

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"kisaan/pkg/httpresp"
	"kisaan/pkg/middleware"
	"kisaan/pkg/problem/controller"
	"kisaan/pkg/problem/service"
)

const (
	maxImages     = 5
	maxImageBytes = 10 << 20
)

type ProblemCtrl struct{ svc service.ProblemService }

func New(svc service.ProblemService) controller.ProblemController { return &ProblemCtrl{svc: svc} }

// Submit accepts multipart/form-data (text fields plus "images" files) or
// a JSON body without photos.
func (h *ProblemCtrl) Submit(c echo.Context) error {
	var req service.SubmitRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		req = service.SubmitRequest{
			Description: c.FormValue("description"),
			CropType:    c.FormValue("cropType"),
			Location:    c.FormValue("location"),
			Urgency:     c.FormValue("urgency"),
		}
		photos, err := readPhotos(c)
		if err != nil {
			return httpresp.BadRequest(c, err.Error())
		}
		req.Images = photos
	} else if err := c.Bind(&req); err != nil {
		return httpresp.BadRequest(c, "bad json")
	}

	p, err := h.svc.Submit(c.Request().Context(), middleware.Session(c), req)
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProblemCtrl) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), middleware.Session(c), c.Param("id"))
	if err != nil {
		return httpresp.Error(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func readPhotos(c echo.Context) ([]service.Photo, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := form.File["images"]
	if len(files) > maxImages {
		return nil, fmt.Errorf("at most %d images", maxImages)
	}
	out := make([]service.Photo, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxImageBytes {
			return nil, fmt.Errorf("image too large: %s", fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, service.Photo{Name: fh.Filename, Data: data})
	}
	return out, nil
}
