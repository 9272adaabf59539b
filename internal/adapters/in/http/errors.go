package http

import (
	"errors"
	"fmt"
	"net/http"

	"comanda/internal/adapters/out/backend"
	"comanda/internal/core/application/usecases/commands"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/adapters/in/http/servers"
	"comanda/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func writeError(c echo.Context, code int, message string) error {
	return c.JSON(code, servers.Error{
		Code:    code,
		Message: message,
	})
}

// statusFor turns a use case error into the answer a role screen shows.
// State machine rejections block the action; backend failures are worth
// another try by hand.
func statusFor(err error) (int, string) {
	var backendErr *backend.BackendError

	switch {
	case errors.Is(err, order.ErrUnknownState),
		errors.Is(err, order.ErrIllegalTransition),
		errors.Is(err, order.ErrOrderIsNotAmendable):
		return http.StatusConflict, err.Error()
	case errors.Is(err, commands.ErrActionIsNotPermitted):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, backend.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case backend.IsTransient(err):
		return http.StatusBadGateway, "The backend did not answer, try again"
	case errors.As(err, &backendErr):
		return http.StatusConflict, "The backend rejected the request: " + backendErr.Message
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}

// ErrorHandler renders echo's own errors, such as unknown routes and badly
// formed parameters, in the API's error shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = writeError(c, code, message)
}
