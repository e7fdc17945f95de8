package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"contenthub/utils"
)

type ipLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

var (
	limiters   = map[string]*ipLimiter{}
	limitersMu sync.Mutex
)

// RateLimit applies a per-IP token bucket: at most max requests per
// window. Idle limiters are swept opportunistically.
func RateLimit(window time.Duration, max int) gin.HandlerFunc {
	if max < 1 {
		max = 1
	}
	limit := rate.Every(window / time.Duration(max))

	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()
		if !getLimiter(ip, limit, max, window).Allow() {
			utils.Fail(ctx, http.StatusTooManyRequests, "Too many requests from this IP, please try again later", nil)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func getLimiter(key string, limit rate.Limit, burst int, window time.Duration) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	cleanupExpiredLocked()

	if l, ok := limiters[key]; ok {
		l.expires = time.Now().Add(window)
		return l.limiter
	}

	l := &ipLimiter{
		limiter: rate.NewLimiter(limit, burst),
		expires: time.Now().Add(window),
	}
	limiters[key] = l
	return l.limiter
}

func cleanupExpiredLocked() {
	now := time.Now()
	for key, l := range limiters {
		if now.After(l.expires) {
			delete(limiters, key)
		}
	}
}
