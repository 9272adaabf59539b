package http

import (
	"net/http"
	"strings"

	"comanda/internal/core/domain/model/session"
	"comanda/internal/core/ports"

	"github.com/labstack/echo/v4"
)

const sessionContextKey = "session"

// SessionMiddleware resolves a bearer token to an open session and stores it
// in the echo context. Requests without an Authorization header pass through;
// the handlers that need a session reject them.
func SessionMiddleware(tokens *TokenIssuer, registry ports.SessionRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return writeError(c, http.StatusUnauthorized, "Invalid authorization header format")
			}

			sessionID, userID, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				return writeError(c, http.StatusUnauthorized, "Invalid or expired token")
			}

			sess, err := registry.Get(c.Request().Context(), sessionID)
			if err != nil || !sess.UserID().IsEqual(userID) {
				return writeError(c, http.StatusUnauthorized, "Session is closed or expired")
			}

			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

func currentSession(c echo.Context) (session.Session, bool) {
	sess, ok := c.Get(sessionContextKey).(session.Session)
	return sess, ok
}
