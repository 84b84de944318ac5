package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
)

// RateLimiter throttles clients with a fixed window counter in redis, keyed
// by client IP. Fails open when redis is unreachable.
type RateLimiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int
}

func NewRateLimiter(rdb *redis.Client, window time.Duration, max int) *RateLimiter {
	return &RateLimiter{rdb: rdb, window: window, max: max}
}

func (r *RateLimiter) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		key := fmt.Sprintf("ratelimit:%s", c.RealIP())

		count, err := r.rdb.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err)
			return next(c)
		}
		if count == 1 {
			r.rdb.Expire(ctx, key, r.window)
		}
		if count > int64(r.max) {
			return presenter.TooManyRequests(c, "too many requests, retry later")
		}

		return next(c)
	}
}
