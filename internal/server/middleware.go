package server

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	applog "larder/internal/log"
)

const (
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 64
	limiterIdleTTL     = 10 * time.Minute
	limiterSweepSize   = 1024
)

// requestID tags every request with an ID, reusing a caller supplied
// X-Request-ID when it is reasonably short.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(applog.WithRequestID(r.Context(), id)))
	})
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter throttles credential submissions per client address.
type loginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &loginLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		now:      time.Now,
	}
}

// reserve reports whether key may proceed, and otherwise how long it should wait.
func (l *loginLimiter) reserve(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.visitors) >= limiterSweepSize {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, k)
			}
		}
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	reservation := v.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Minute
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

// middleware applies the limiter to POSTs on the given paths.
func (l *loginLimiter) middleware(paths ...string) func(http.Handler) http.Handler {
	guarded := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		guarded[path] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := guarded[r.URL.Path]; !ok || r.Method != http.MethodPost || l.limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			allowed, wait := l.reserve(clientAddress(r))
			if !allowed {
				seconds := int(wait.Seconds())
				if seconds < 1 {
					seconds = 1
				}
				applog.Warn(r.Context(), "login attempts throttled", "path", r.URL.Path, "retryAfter", seconds)
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				http.Error(w, "too many attempts, please wait and try again", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
