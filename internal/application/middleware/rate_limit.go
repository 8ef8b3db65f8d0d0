package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"todo-api/internal/domain/model"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (redis.Decision, error)
}

// RateLimit limits requests per client IP. When the limiter errors the request
// goes through, so a redis outage never takes the API down.
func RateLimit(limiter RateLimiter, skipper echomw.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = echomw.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			decision, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn(msg.GetMessage("rate-limit.unavailable", err), zap.Error(err))
				return next(c)
			}

			resetSeconds := strconv.Itoa(int(math.Ceil(decision.ResetAfter.Seconds())))
			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			header.Set("X-RateLimit-Reset", resetSeconds)

			if !decision.Allowed {
				header.Set("Retry-After", resetSeconds)
				return c.JSON(http.StatusTooManyRequests, model.ErrorResponse{
					Error: msg.GetMessage("rate-limit.exceeded", decision.ResetAfter),
				})
			}

			return next(c)
		}
	}
}
