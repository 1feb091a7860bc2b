package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	httperrors "github.com/manorfm/coffee-shop/internal/interfaces/http/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	cleanupInterval = time.Minute

	MessageTooManyRequests = "too many requests"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	logger   *zap.Logger
	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(r rate.Limit, b int, ttl time.Duration, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
		ttl:      ttl,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go rl.cleanupVisitors(cleanupInterval)
	return rl
}

// Stop ends the background cleanup
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, exists := rl.visitors[ip]; exists {
		v.lastSeen = time.Now()
		return v.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.visitors[ip] = &visitor{limiter, time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupVisitors(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.sweep(now)
		}
	}
}

// sweep forgets visitors idle for longer than the ttl
func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, ok := clientIP(r)
		if !ok {
			rl.logger.Warn("Unable to parse client IP", zap.String("remote_addr", r.RemoteAddr))
			httperrors.RespondWithError(w, http.StatusBadRequest, "bad request", nil)
			return
		}
		if !rl.getVisitor(ip).Allow() {
			rl.logger.Debug("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			httperrors.RespondWithError(w, http.StatusTooManyRequests, MessageTooManyRequests, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP reads the client address. RealIP leaves a bare IP without a port.
func clientIP(r *http.Request) (string, bool) {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host, true
	}
	if ip := net.ParseIP(r.RemoteAddr); ip != nil {
		return ip.String(), true
	}
	return "", false
}
