package middleware

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"fridgeshare/internal/config"
	"fridgeshare/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientTracker struct {
	errors404    []time.Time
	blockedUntil time.Time
	lastSeen     time.Time
}

var (
	clients    = make(map[string]*rateLimiter)
	mu         sync.Mutex
	trackers   = make(map[string]*clientTracker)
	trackersMu sync.Mutex
)

type contextKey string

const dbContextKey contextKey = "db"

func RateLimit(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting in development mode
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		ip := c.ClientIP()

		mu.Lock()
		defer mu.Unlock()

		if limiter, exists := clients[ip]; exists {
			limiter.lastSeen = time.Now()
			if !limiter.limiter.Allow() {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
				return
			}
		} else {
			clients[ip] = &rateLimiter{
				limiter:  rate.NewLimiter(rate.Every(time.Second/20), 20),
				lastSeen: time.Now(),
			}
		}

		cleanupOldClients()
		c.Next()
	}
}

// AuthRateLimit throttles register and login attempts per client IP.
func AuthRateLimit(cfg *config.Config) gin.HandlerFunc {
	authClients := make(map[string]*rateLimiter)
	var authMu sync.Mutex

	return func(c *gin.Context) {
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		ip := c.ClientIP()

		authMu.Lock()
		defer authMu.Unlock()

		if limiter, exists := authClients[ip]; exists {
			limiter.lastSeen = time.Now()
			if !limiter.limiter.Allow() {
				logger.Warn("Authentication rate limit exceeded", "ip", ip)
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Authentication rate limit exceeded"})
				return
			}
		} else {
			authClients[ip] = &rateLimiter{
				limiter:  rate.NewLimiter(rate.Every(time.Minute), 5),
				lastSeen: time.Now(),
			}
		}

		for ip, client := range authClients {
			if time.Since(client.lastSeen) > 30*time.Minute {
				delete(authClients, ip)
			}
		}

		c.Next()
	}
}

// IPBlocker rejects clients that were blocked by Track404AndBlock. Guessing
// invitation slugs or child ids shows up as a burst of 404s.
func IPBlocker(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		ip := c.ClientIP()

		trackersMu.Lock()
		tracker, exists := trackers[ip]
		blocked := exists && time.Now().Before(tracker.blockedUntil)
		trackersMu.Unlock()

		if blocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Your IP has been temporarily blocked due to excessive invalid requests",
			})
			return
		}

		c.Next()
	}
}

func Track404AndBlock(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if cfg.IsDevelopment() || c.Writer.Status() != http.StatusNotFound {
			return
		}

		ip := c.ClientIP()
		now := time.Now()

		trackersMu.Lock()
		defer trackersMu.Unlock()

		tracker, exists := trackers[ip]
		if !exists {
			tracker = &clientTracker{lastSeen: now}
			trackers[ip] = tracker
		}

		tracker.lastSeen = now
		tracker.errors404 = append(tracker.errors404, now)

		// Keep only the last five minutes
		cutoff := now.Add(-5 * time.Minute)
		recent := tracker.errors404[:0]
		for _, t := range tracker.errors404 {
			if t.After(cutoff) {
				recent = append(recent, t)
			}
		}
		tracker.errors404 = recent

		if len(tracker.errors404) >= 10 {
			tracker.blockedUntil = now.Add(15 * time.Minute)
			logger.Warn("Blocked client after repeated 404s",
				"ip", ip,
				"count", len(tracker.errors404),
				"blocked_for", "15m")
			tracker.errors404 = nil
		}

		for trackerIP, trackerData := range trackers {
			if time.Since(trackerData.lastSeen) > 30*time.Minute && now.After(trackerData.blockedUntil) {
				delete(trackers, trackerIP)
			}
		}
	}
}

func cleanupOldClients() {
	for ip, client := range clients {
		if time.Since(client.lastSeen) > 10*time.Minute {
			delete(clients, ip)
		}
	}
}

func CORS(allowedOrigins string) gin.HandlerFunc {
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := false
		for _, allowedOrigin := range origins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		if !cfg.IsDevelopment() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// RequestID tags every request with an X-Request-ID, reusing the caller's
// when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func LogRequests() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID, _ := param.Keys["request_id"].(string)
		return fmt.Sprintf("[%s] %s %s %d %s %s %s\n",
			param.TimeStamp.Format("2006/01/02 15:04:05"),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			requestID,
		)
	})
}

func AddDBContext(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), dbContextKey, db)
		c.Request = c.Request.WithContext(ctx)
		c.Set("db", db)
		c.Next()
	}
}

// TrimSpaces trims form values on writes. JSON bodies are trimmed by the
// handlers when they bind.
func TrimSpaces() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
			for key, values := range c.Request.PostForm {
				for i, value := range values {
					c.Request.PostForm[key][i] = strings.TrimSpace(value)
				}
			}
		}
		c.Next()
	}
}
