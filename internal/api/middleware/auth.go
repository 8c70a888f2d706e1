package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Denylist reports whether a token has been revoked by logout.
type Denylist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Context keys set by Auth for downstream handlers.
const (
	CtxEmail = "email"
	CtxRole  = "role"
	CtxToken = "token"
)

// Auth validates the bearer JWT, rejects revoked tokens, and injects claims
// into the echo context. denylist may be nil (no revocation support).
func Auth(jwtSecret string, denylist Denylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			if denylist != nil {
				revoked, err := denylist.IsRevoked(c.Request().Context(), parts[1])
				if err != nil {
					// Denylist unavailable: fail closed, a revoked admin token
					// must not slip through while Redis is down.
					return echo.NewHTTPError(http.StatusUnauthorized, "token verification unavailable")
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set(CtxEmail, claims["sub"])
			c.Set(CtxRole, claims["role"])
			c.Set(CtxToken, parts[1])

			return next(c)
		}
	}
}
