package controller

import "github.com/labstack/echo/v4"

type ProblemController interface {
	Submit(c echo.Context) error
	Get(c echo.Context) error
}
