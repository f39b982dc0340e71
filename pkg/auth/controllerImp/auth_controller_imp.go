package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kisaan/pkg/auth/controller"
	"kisaan/pkg/middleware"
)

type authCtrl struct{}

func NewAuthController() controller.AuthController { return &authCtrl{} }

// DevLogin pins a user id in the identity cookie. Only mounted when
// authentication is not enforced.
func (h *authCtrl) DevLogin(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		uid = middleware.DevUserID
	}
	c.SetCookie(&http.Cookie{Name: middleware.UIDCookie, Value: uid, Path: "/"})
	return c.JSON(http.StatusOK, echo.Map{"uid": uid})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	s := middleware.Session(c)
	return c.JSON(http.StatusOK, echo.Map{"uid": s.UserID, "authenticated": s.Authenticated()})
}
