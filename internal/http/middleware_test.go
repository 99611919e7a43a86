package http

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"myflix-api/internal/metrics"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(0.001, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within burst", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over burst allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client shares the first client's bucket")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	var nilLimiter *RateLimiter
	for _, rl := range []*RateLimiter{nilLimiter, NewRateLimiter(0, 1)} {
		for i := 0; i < 50; i++ {
			if !rl.Allow("10.0.0.1") {
				t.Fatal("disabled limiter denied a request")
			}
		}
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	stale := time.Now().Add(-2 * time.Hour)
	for i := 0; i < 1100; i++ {
		rl.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	rl.mu.Lock()
	for _, e := range rl.limiters {
		e.lastSeen = stale
	}
	rl.mu.Unlock()

	rl.Allow("fresh")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.limiters) != 1 {
		t.Errorf("limiters after sweep = %d, want 1", len(rl.limiters))
	}
}

func TestRateLimiter_CountsRejections(t *testing.T) {
	router := newTestRouter(t, NewRateLimiter(0.001, 1))
	before := testutil.ToFloat64(metrics.RateLimited.WithLabelValues("/users"))

	body := `{"username":"short","password":"pw","email":"bad"}`
	do(t, router, http.MethodPost, "/users", body, "")
	if rec := do(t, router, http.MethodPost, "/users", body, ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second register = %d, want 429", rec.Code)
	}
	if got := testutil.ToFloat64(metrics.RateLimited.WithLabelValues("/users")) - before; got != 1 {
		t.Errorf("rate limited delta = %v, want 1", got)
	}
}
