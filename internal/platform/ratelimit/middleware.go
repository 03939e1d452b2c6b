package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"
)

// DenyFunc writes the response for a throttled request.
type DenyFunc func(w http.ResponseWriter, r *http.Request, d Decision)

// Middleware throttles each client IP per request path. Run it after
// middleware.RealIP so RemoteAddr holds the client address.
func (l *Limiter) Middleware(deny DenyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := l.Allow(r.Context(), r.URL.Path+":"+clientIP(r))
			if d.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			}
			if !d.Allowed {
				retry := int(math.Ceil(time.Until(d.ResetAt).Seconds()))
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				l.logger.Warn("request throttled",
					slog.String("path", r.URL.Path),
					slog.String("client_ip", clientIP(r)))
				deny(w, r, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
