package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"inkwell/pkg/response"
	"inkwell/pkg/utils"
)

// AuthRequired rejects requests without a valid bearer token and sets
// user_id and role into the echo context.
func AuthRequired(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, errResp := claimsFromHeader(c, jwtSecret)
			if errResp != nil {
				return c.JSON(http.StatusUnauthorized, *errResp)
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}

// OptionalAuth lets anonymous requests through untouched but picks up the
// user id when a valid token is present. An invalid token is still rejected
// so callers notice expired sessions instead of silently losing
// personalization.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}

			claims, errResp := claimsFromHeader(c, jwtSecret)
			if errResp != nil {
				return c.JSON(http.StatusUnauthorized, *errResp)
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}

func claimsFromHeader(c echo.Context, jwtSecret string) (*utils.Claims, *response.Body) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		body := response.Error("UNAUTHORIZED", "Missing authorization header", nil)
		return nil, &body
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		body := response.Error("UNAUTHORIZED", "Invalid authorization format", nil)
		return nil, &body
	}

	claims, err := utils.ParseJWT(tokenParts[1], jwtSecret)
	if err != nil {
		body := response.Error("UNAUTHORIZED", "Invalid token", nil)
		return nil, &body
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || expAt == nil || time.Now().After(expAt.Time) {
		body := response.Error("UNAUTHORIZED", "Token expired", nil)
		return nil, &body
	}

	return claims, nil
}
