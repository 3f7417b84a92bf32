package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter()

	for i := 0; i < 5; i++ {
		if !l.Allow("10.0.0.1", 5, time.Minute) {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if l.Allow("10.0.0.1", 5, time.Minute) {
		t.Error("6th request should be denied")
	}

	// Another key has an independent budget.
	if !l.Allow("10.0.0.2", 5, time.Minute) {
		t.Error("different key should be allowed")
	}
}

func TestLimiter_Refill(t *testing.T) {
	l := NewLimiter()

	for i := 0; i < 2; i++ {
		l.Allow("k", 2, 30*time.Millisecond)
	}
	if l.Allow("k", 2, 30*time.Millisecond) {
		t.Error("should be limited before interval elapses")
	}

	time.Sleep(40 * time.Millisecond)

	if !l.Allow("k", 2, 30*time.Millisecond) {
		t.Error("should be allowed after refill")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := NewLimiter()

	for i := 0; i < 3; i++ {
		l.Allow("k", 3, time.Minute)
	}
	if l.Allow("k", 3, time.Minute) {
		t.Error("should be limited")
	}

	l.Reset("k")

	if !l.Allow("k", 3, time.Minute) {
		t.Error("should be allowed after Reset")
	}
}

func TestLimiter_StartCleanup(t *testing.T) {
	l := NewLimiter()
	stop := make(chan struct{})
	defer close(stop)

	l.Allow("old", 1, time.Millisecond)
	l.StartCleanup(2*time.Millisecond, 2*time.Millisecond, stop)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		l.mu.Lock()
		_, exists := l.buckets["old"]
		l.mu.Unlock()
		if !exists {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Error("stale bucket should have been evicted by the background cleanup")
}

func TestLimiter_CleanupExpired(t *testing.T) {
	l := NewLimiter()

	l.Allow("old", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	l.CleanupExpired(2 * time.Millisecond)

	l.mu.Lock()
	_, exists := l.buckets["old"]
	l.mu.Unlock()
	if exists {
		t.Error("stale bucket should have been evicted")
	}
}
