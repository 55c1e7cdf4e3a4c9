package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kalaniocean/restaurant-reservation/internal/config"
)

// RateLimit applies a fixed-window per-client limit: cfg.Limit requests per
// cfg.Window, keyed by client IP.  The counter lives in Redis so multiple
// instances share the window.  On Redis errors the limiter fails open.
// Returns a pass-through middleware when limiting is disabled or rdb is nil.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, logger *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	windowSecs := int64(cfg.Window / time.Second)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now().Unix()
			window := now / windowSecs
			key := fmt.Sprintf("rl:%s:%d", c.RealIP(), window)
			ctx := c.Request().Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				logger.Debug("rate limit: redis error, failing open", zap.Error(err))
				return next(c)
			}
			if count == 1 {
				// First hit in this window owns setting the expiry.
				_ = rdb.Expire(ctx, key, cfg.Window+time.Second).Err()
			}
			if count > int64(cfg.Limit) {
				retryAfter := (window+1)*windowSecs - now
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
