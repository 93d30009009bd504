package middleware

import (
	"context"
	"net/http"

	"beadstock/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OperatorContext reads the token already validated by the echo-jwt
// middleware and puts the operator ID from its "sub" claim into the request
// context. It must be registered after echojwt.WithConfig on the same group.
func OperatorContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing operator id in token")
			}

			operatorID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid operator id format")
			}

			ctx := context.WithValue(c.Request().Context(), common.OperatorIDKey, operatorID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
