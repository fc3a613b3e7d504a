package main

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	every   time.Duration
	burst   int
	proxies []netip.Prefix

	mu       sync.Mutex
	visitors map[string]*visitor
}

// newIPRateLimiter only honours forwarding headers from peers in proxies.
func newIPRateLimiter(perMinute, burst int, proxies []netip.Prefix) *ipRateLimiter {
	return &ipRateLimiter{
		every:    time.Minute / time.Duration(perMinute),
		burst:    burst,
		proxies:  proxies,
		visitors: make(map[string]*visitor),
	}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (l *ipRateLimiter) sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// startLimiterSweeper drops buckets of clients that went quiet.
func startLimiterSweeper(ctx context.Context, l *ipRateLimiter, log *zap.SugaredLogger) {
	go func() {
		ticker := time.NewTicker(limiterSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := l.sweep(now); n > 0 {
					log.Debugw("rate limiter sweep", "removed", n)
				}
			}
		}
	}()
}

func (l *ipRateLimiter) middleware(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, l.proxies)
			if !l.get(ip).Allow() {
				log.Warnw("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeJSONError(w, http.StatusTooManyRequests, "Too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the TCP peer unless that peer is a trusted proxy. Behind a
// proxy, X-Forwarded-For is read right to left and the first hop that is not
// itself a trusted proxy wins.
func clientIP(r *http.Request, proxies []netip.Prefix) string {
	peer := remoteHost(r.RemoteAddr)
	if !trusted(peer, proxies) {
		return peer
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			if !trusted(hop, proxies) {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		if _, err := netip.ParseAddr(ip); err == nil {
			return ip
		}
	}
	return peer
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func trusted(ip string, proxies []netip.Prefix) bool {
	if len(proxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
