package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/shared"
)

// RateLimitService throttles per client with redis counters, so the
// limits hold across replicas. Auth endpoints get a much tighter budget
// than general traffic.
type RateLimitService struct {
	appContext.DefaultService

	redis *RedisService
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.redis = ctx.Service(REDIS_SVC).(*RedisService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	return nil
}

// Limit returns a middleware allowing max requests per window, keyed by
// client IP and route group. Fails open when redis is unreachable.
func (svc *RateLimitService) Limit(group string, max int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s:%s", group, c.IP())

		count, err := svc.redis.Increment(c.Context(), key)
		if err != nil {
			log.WithError(err).Warn("Rate limit counter unavailable")
			return c.Next()
		}

		if count == 1 {
			if err := svc.redis.Expire(c.Context(), key, window); err != nil {
				log.WithError(err).Warn("Failed to set rate limit window")
			}
		}

		if count > int64(max) {
			c.Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			return shared.ResponseJSON(c, http.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		}

		return c.Next()
	}
}
