package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	applog "larder/internal/log"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = applog.RequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get(requestIDHeader) != seen {
		t.Fatalf("expected generated request id to be propagated, got %q / %q", seen, rr.Header().Get(requestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if seen != "abc-123" {
		t.Fatalf("expected caller request id to be reused, got %q", seen)
	}
}

func TestLoginLimiterRefillsAndSweeps(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newLoginLimiter(60, 1)
	limiter.now = func() time.Time { return clock }

	if ok, _ := limiter.reserve("10.0.0.1"); !ok {
		t.Fatal("expected first attempt to pass")
	}
	ok, wait := limiter.reserve("10.0.0.1")
	if ok || wait <= 0 {
		t.Fatalf("expected second attempt to wait, got ok=%t wait=%s", ok, wait)
	}
	if ok, _ := limiter.reserve("10.0.0.2"); !ok {
		t.Fatal("expected other clients to be unaffected")
	}

	clock = clock.Add(time.Second)
	if ok, _ := limiter.reserve("10.0.0.1"); !ok {
		t.Fatal("expected token to refill after a second")
	}

	for i := 0; i < limiterSweepSize; i++ {
		limiter.visitors[fmt.Sprintf("192.0.2.%d", i)] = &visitor{lastSeen: clock.Add(-time.Hour)}
	}
	limiter.reserve("10.0.0.3")
	if len(limiter.visitors) > 4 {
		t.Fatalf("expected idle visitors to be swept, have %d", len(limiter.visitors))
	}
}

func TestLoginLimiterIgnoresOtherRoutes(t *testing.T) {
	limiter := newLoginLimiter(1, 1)
	calls := 0
	handler := limiter.middleware("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/app/api/recipes", nil))
	}
	if calls != 6 {
		t.Fatalf("expected all unguarded requests to pass, got %d", calls)
	}
}
