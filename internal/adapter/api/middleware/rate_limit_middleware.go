package middleware

import (
	"fmt"
	"math"

	"github.com/labstack/echo/v4"

	"squadup/internal/usecase"
	"squadup/pkg/errors"
	"squadup/pkg/logger"
	"squadup/pkg/response"
)

// RateLimit throttles an action per client address.
func RateLimit(limiter usecase.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, wait := limiter.Allow(ip, action)
			if !allowed {
				retry := int(math.Ceil(wait.Seconds()))
				logger.Warn("rate limit hit for %s on %s, retry in %ds", ip, action, retry)
				c.Response().Header().Set("Retry-After", fmt.Sprint(retry))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
