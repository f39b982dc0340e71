package controller

import "github.com/labstack/echo/v4"

type TaskController interface {
	Get(c echo.Context) error
	SetStatus(c echo.Context) error
	Complete(c echo.Context) error
}
