package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// MediaType is the only representation the /v1 API speaks.
const MediaType = "application/vnd.api+json"

// requireJSONAPI rejects clients that do not accept MediaType with 406 and
// bodies that are not MediaType with 415.
func requireJSONAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsJSONAPI(c.GetHeader("Accept")) {
			writeStatusError(c, http.StatusNotAcceptable, "Not Acceptable")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.ContentLength != 0 {
			if mediaType(c.ContentType()) != MediaType {
				writeStatusError(c, http.StatusUnsupportedMediaType, "Unsupported Media Type")
				return
			}
		}
		c.Next()
	}
}

func acceptsJSONAPI(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		if mediaType(part) == MediaType {
			return true
		}
	}
	return false
}

func mediaType(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", attrs...)
		case status >= http.StatusBadRequest:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	}
}

// limiterIdleTTL is how long a client's limiter survives without requests.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		visitors:  make(map[string]*visitor),
		rps:       rate.Limit(rps),
		burst:     burst,
		idleTTL:   limiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// limiter returns the limiter for ip. Idle clients are swept at most once
// per idleTTL, under the same lock.
func (rl *rateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		for key, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.idleTTL {
				delete(rl.visitors, key)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (rl *rateLimiter) middleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.limiter(ip).Allow() {
			log.Warn("rate limited", slog.String("client_ip", ip))
			writeStatusError(c, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		c.Next()
	}
}
