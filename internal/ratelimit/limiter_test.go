package ratelimit_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/kuu-app/kuu-backend/internal/ratelimit"
)

func newLocalLimiter(limit int, window time.Duration) *ratelimit.Limiter {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return ratelimit.New(nil, limit, window, logger)
}

func TestAllow_UnderLimit(t *testing.T) {
	l := newLocalLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow(context.Background(), "1.2.3.4") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
}

func TestAllow_OverLimit_Denied(t *testing.T) {
	l := newLocalLimiter(2, time.Minute)

	l.Allow(context.Background(), "1.2.3.4")
	l.Allow(context.Background(), "1.2.3.4")
	if l.Allow(context.Background(), "1.2.3.4") {
		t.Error("third request allowed, want denied")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := newLocalLimiter(1, time.Minute)

	l.Allow(context.Background(), "1.2.3.4")
	if !l.Allow(context.Background(), "5.6.7.8") {
		t.Error("other client denied, want allowed")
	}
}

func TestAllow_WindowResets(t *testing.T) {
	l := newLocalLimiter(1, 10*time.Millisecond)

	l.Allow(context.Background(), "1.2.3.4")
	if l.Allow(context.Background(), "1.2.3.4") {
		t.Fatal("second request allowed within the window")
	}

	time.Sleep(20 * time.Millisecond)
	if !l.Allow(context.Background(), "1.2.3.4") {
		t.Error("request denied after the window reset")
	}
}
