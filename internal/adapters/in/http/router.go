package http

import (
	"net/http"

	_ "comanda/api/docs" // registers the document served by the Swagger UI
	"comanda/internal/core/ports"
	"comanda/internal/adapters/in/http/servers"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

// NewRouter wires the health check, the Swagger UI and the API routes.
func NewRouter(server *Server, registry ports.SessionRegistry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(BasePath, SessionMiddleware(server.tokens, registry))
	servers.RegisterHandlers(api, server)

	return e
}
