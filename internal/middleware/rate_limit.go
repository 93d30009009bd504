package middleware

import (
	"log"
	"net/http"
	"time"

	"beadstock/internal/caching"

	"github.com/labstack/echo/v4"
)

// RateLimit caps requests per client IP inside a sliding window, backed by
// redis so the limit holds across instances. Redis failures let the request
// through; the limiter is protection, not a dependency.
func RateLimit(cache caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limited, err := cache.IsRateLimited(c.Request().Context(), c.RealIP(), limit, window)
			if err != nil {
				log.Printf("WARN: rate limit check failed: %v", err)
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
			}
			return next(c)
		}
	}
}
