package http

import "github.com/labstack/echo/v4"

// Handler is implemented by API handlers that attach their routes to
// the server's echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
