package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

// ownerIDContextKey stores the authenticated owner id in the echo context
// after successful verification.
const ownerIDContextKey = "authenticated_owner_id"

// Middleware authenticates requests with a bearer token and sets the
// derived owner id in the request context. Missing, malformed and invalid
// credentials all yield 401.
func Middleware(verifier domain.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
			}
			ownerID, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
			}
			c.Set(ownerIDContextKey, ownerID)
			return next(c)
		}
	}
}

// OwnerID returns the authenticated owner id set by Middleware, or "" when
// the request was not authenticated.
func OwnerID(c echo.Context) string {
	id, _ := c.Get(ownerIDContextKey).(string)
	return id
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
