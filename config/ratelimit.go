package config

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter caps request rate per authenticated user so one busy counter
// cannot starve the rest of the salon.
func RateLimiter(rps float64, burst int) gin.HandlerFunc {
	type entry struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var mu sync.Mutex
	limiters := make(map[string]*entry)

	// Drop entries unused for ten minutes
	go func() {
		for range time.Tick(5 * time.Minute) {
			mu.Lock()
			for key, e := range limiters {
				if time.Since(e.lastSeen) > 10*time.Minute {
					delete(limiters, key)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get("userId"); exists {
			if s, ok := userID.(string); ok {
				key = s
			}
		}

		mu.Lock()
		e, ok := limiters[key]
		if !ok {
			e = &entry{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			limiters[key] = e
		}
		e.lastSeen = time.Now()
		mu.Unlock()

		if !e.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
