package controller

import "github.com/labstack/echo/v4"

// StoreController serves the document collections over REST.
type StoreController interface {
	Register(e *echo.Echo)
}
