// Package httpresp renders errors the same way for every controller.
package httpresp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"kisaan/pkg/apperr"
	"kisaan/pkg/validation"
)

// Error writes {"error", "kind"} with the status mapped from the error kind.
// Partial persistence also lists saved and failed task ids.
func Error(c echo.Context, err error) error {
	body := echo.Map{"error": err.Error(), "kind": apperr.Kind(err)}
	var partial *apperr.PartialPersistenceError
	if errors.As(err, &partial) {
		body["planId"] = partial.Plan.ID
		body["savedTaskIds"] = partial.SavedIDs()
		body["failedTaskIds"] = partial.FailedIDs()
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	return c.JSON(apperr.HTTPStatus(err), body)
}

// BadRequest is used for malformed bodies and parameters.
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "kind": apperr.Kind(apperr.ErrInvalidInput)})
}
