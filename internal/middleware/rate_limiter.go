package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter controla requisições por chave em janela deslizante. As chaves
// são IPs nas rotas públicas e ids de usuário nas autenticadas.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.window)
		for key, timestamps := range rl.hits {
			pruned := prune(timestamps, cutoff)
			if len(pruned) == 0 {
				delete(rl.hits, key)
			} else {
				rl.hits[key] = pruned
			}
		}
		rl.mu.Unlock()
	}
}

// Allow registra a requisição e informa se ela cabe na janela.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	valid := prune(rl.hits[key], now.Add(-rl.window))

	if len(valid) >= rl.limit {
		rl.hits[key] = valid
		return false
	}

	rl.hits[key] = append(valid, now)
	return true
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	valid := timestamps[:0]
	for _, t := range timestamps {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}

func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			rejectRateLimited(c, limiter.window)
			return
		}
		c.Next()
	}
}

// RateLimitByUser limita por usuário autenticado, caindo para o IP quando a
// rota é alcançada sem token.
func RateLimitByUser(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get("user_id"); exists {
			if id, ok := userID.(string); ok {
				key = id
			}
		}

		if !limiter.Allow(key) {
			rejectRateLimited(c, limiter.window)
			return
		}
		c.Next()
	}
}

func rejectRateLimited(c *gin.Context, window time.Duration) {
	c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":   "RATE_LIMIT_EXCEEDED",
		"message": "Muitas requisições. Tente novamente em alguns minutos.",
	})
}
