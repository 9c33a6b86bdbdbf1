package middleware

import (
	"net/http"

	"github.com/juju/ratelimit"
)

// NewAuthBucket token bucket на perSecond запросов в секунду; 0 — без ограничения.
func NewAuthBucket(perSecond int) *ratelimit.Bucket {
	if perSecond <= 0 {
		return nil
	}
	return ratelimit.NewBucketWithRate(float64(perSecond), int64(perSecond))
}

// WithRateLimit отвечает 429, когда в bucket нет токенов. nil bucket — без ограничения.
func WithRateLimit(bucket *ratelimit.Bucket) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if bucket == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bucket.TakeAvailable(1) < 1 {
				logger.Warnw("rate limit exceeded", "uri", r.RequestURI, "remote", r.RemoteAddr)
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
