package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		requestsPerSecond float64
		wantLimit         float64
	}{
		{"unlimited_zero", 0, 0},
		{"unlimited_negative", -1, 0},
		{"limited_one_per_second", 1, 1},
		{"limited_fractional", 0.5, 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			limiter := New(tc.requestsPerSecond)
			if got := limiter.Limit(); got != tc.wantLimit {
				t.Errorf("Limit() = %v, want %v", got, tc.wantLimit)
			}
		})
	}
}

func TestAllow(t *testing.T) {
	t.Parallel()

	unlimited := New(0)
	for i := range 10 {
		if !unlimited.Allow() {
			t.Errorf("unlimited limiter denied request %d", i)
		}
	}

	limited := New(1)
	if !limited.Allow() {
		t.Error("first request denied")
	}
	if limited.Allow() {
		t.Error("second immediate request allowed")
	}
}

func TestWaitUnlimited(t *testing.T) {
	t.Parallel()

	limiter := New(0)
	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("unlimited Wait blocked for %v", elapsed)
	}
}

func TestWaitContextCancellation(t *testing.T) {
	t.Parallel()

	limiter := New(1)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx); err == nil {
		t.Error("Wait did not observe context cancellation")
	}
}
