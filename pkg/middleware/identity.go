package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kisaan/pkg/apperr"
	"kisaan/pkg/session"
)

const (
	UIDHeader  = "X-User-Id"
	UIDCookie  = "KISAAN_UID"
	DevUserID  = "U_DEV_DEFAULT"
	contextUID = "uid"
)

// Identity resolves the caller's user id from the X-User-Id header, the
// KISAAN_UID cookie or a ?uid= query parameter, and attaches a session to
// the request context. With required=false a missing id falls back to the
// dev user; with required=true it is a 401.
func Identity(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := c.Request().Header.Get(UIDHeader)
			if uid == "" {
				if ck, err := c.Cookie(UIDCookie); err == nil {
					uid = ck.Value
				}
			}
			if uid == "" && !required {
				if q := c.QueryParam("uid"); q != "" {
					uid = q
					c.SetCookie(&http.Cookie{Name: UIDCookie, Value: q, Path: "/"})
				} else {
					uid = DevUserID
				}
			}

			s := session.New(uid)
			if required && !s.Authenticated() {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": apperr.MsgNotAuthenticated,
					"kind":  apperr.Kind(apperr.ErrNotAuthenticated),
				})
			}

			c.Set(contextUID, s.UserID)
			req := c.Request()
			c.SetRequest(req.WithContext(session.WithSession(req.Context(), s)))
			return next(c)
		}
	}
}

// Session returns the session attached by Identity.
func Session(c echo.Context) session.Session {
	return session.FromContext(c.Request().Context())
}
