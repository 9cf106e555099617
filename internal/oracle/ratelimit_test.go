package oracle_test

import (
	"testing"
	"time"

	"github.com/taskflowhq/taskflow/internal/oracle"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	const limit = 5
	rl := oracle.NewRateLimiter(limit, time.Minute)

	for i := 0; i < limit; i++ {
		if !rl.Allow("alice") {
			t.Fatalf("Allow returned false on call %d/%d (expected true)", i+1, limit)
		}
	}
}

func TestRateLimiter_RejectsWhenLimitExceeded(t *testing.T) {
	const limit = 3
	rl := oracle.NewRateLimiter(limit, time.Minute)

	for i := 0; i < limit; i++ {
		rl.Allow("bob")
	}

	if rl.Allow("bob") {
		t.Error("Allow returned true after limit was exhausted; expected false")
	}
}

func TestRateLimiter_IndependentPerUser(t *testing.T) {
	const limit = 2
	rl := oracle.NewRateLimiter(limit, time.Minute)

	// Exhaust alice's quota.
	rl.Allow("alice")
	rl.Allow("alice")
	if rl.Allow("alice") {
		t.Error("alice should be rate-limited")
	}

	// Bob is independent and should still have his quota.
	if !rl.Allow("bob") {
		t.Error("bob should not be rate-limited (independent user)")
	}
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	// Use a very short window so the test can verify expiry without sleeping
	// for a full minute.
	const limit = 1
	window := 50 * time.Millisecond
	rl := oracle.NewRateLimiter(limit, window)

	if !rl.Allow("carol") {
		t.Fatal("first call should be allowed")
	}
	if rl.Allow("carol") {
		t.Fatal("second call within window should be rejected")
	}

	// Wait for the window to expire.
	time.Sleep(window + 10*time.Millisecond)

	if !rl.Allow("carol") {
		t.Error("call after window expiry should be allowed again")
	}
}

func TestRateLimiter_Remaining(t *testing.T) {
	const limit = 3
	rl := oracle.NewRateLimiter(limit, time.Minute)

	if got := rl.Remaining("dave"); got != limit {
		t.Fatalf("Remaining = %d before any calls, want %d", got, limit)
	}
	rl.Allow("dave")
	if got := rl.Remaining("dave"); got != limit-1 {
		t.Fatalf("Remaining = %d after one call, want %d", got, limit-1)
	}
}
