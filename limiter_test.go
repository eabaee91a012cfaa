package pubadmin

import (
	"testing"
	"time"
)

// failedAttempt checks ip and records a failure when it is allowed, the
// way the login handler does.
func failedAttempt(l *LoginLimiter, ip string) bool {
	if !l.Check(ip) {
		return false
	}
	l.Record(ip)
	return true
}

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewLoginLimiter(2, 200*time.Millisecond)
	ip := "203.0.113.10"

	if !failedAttempt(limiter, ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if !failedAttempt(limiter, ip) {
		t.Fatalf("expected second attempt to be allowed")
	}
	if failedAttempt(limiter, ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	ip := "203.0.113.20"

	if !failedAttempt(limiter, ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if failedAttempt(limiter, ip) {
		t.Fatalf("expected second attempt to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !failedAttempt(limiter, ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, 200*time.Millisecond)

	if !failedAttempt(limiter, "203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !failedAttempt(limiter, "203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if failedAttempt(limiter, "203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	ip := "203.0.113.40"

	for i := 0; i < 3; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("check %d: expected allowed without recorded failures", i)
		}
	}
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected blocked after a recorded failure")
	}
	limiter.Reset(ip)
	if !limiter.Check(ip) {
		t.Fatalf("expected allowed after reset")
	}
}

func TestLoginLimiterPrune(t *testing.T) {
	limiter := NewLoginLimiter(3, 50*time.Millisecond)
	limiter.Record("203.0.113.50")
	limiter.Record("203.0.113.51")

	limiter.prune(time.Now().Add(time.Second))
	if n := limiter.Len(); n != 0 {
		t.Fatalf("expected expired attempts to be pruned, %d left", n)
	}
}
