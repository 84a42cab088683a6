package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
)

func TestUpstreamLimiter_AcquireRelease(t *testing.T) {
	l := NewUpstreamLimiter(1, 0)

	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		_ = l.Acquire(ctx)
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatalf("second acquire should block")
	case <-time.After(50 * time.Millisecond):
	}

	l.Release()
	select {
	case <-acquired:
	case <-time.After(250 * time.Millisecond):
		t.Fatalf("second acquire should have proceeded")
	}

	l.Release()
	if n := l.InFlight(); n != 0 {
		t.Fatalf("expected 0 in flight, got %d", n)
	}
}

func TestUpstreamLimiter_AcquireHonorsContext(t *testing.T) {
	l := NewUpstreamLimiter(1, 0)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := l.Acquire(ctx); err == nil {
		t.Fatalf("expected error")
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Fatalf("expected acquire to wait for context timeout")
	}
	l.Release()
}

func TestUpstreamLimiter_RateReleasesSlotOnCancel(t *testing.T) {
	l := NewUpstreamLimiter(2, 0.5)
	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	l.Release()

	// Le seul jeton est consommé : le prochain arrive dans 2s.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := l.Acquire(short); err == nil {
		t.Fatalf("expected rate wait to fail")
	}
	if n := l.InFlight(); n != 0 {
		t.Fatalf("slot should be released, got %d in flight", n)
	}
}

func TestLimitCatalog_ForwardsCalls(t *testing.T) {
	c := newFakeCatalog()
	c.setPage("", domain.FeedPage{Videos: videos("a")})
	l := NewUpstreamLimiter(1, 0)
	lc := LimitCatalog(c, l)

	page, err := lc.ListVideos(context.Background(), "UCx", "")
	if err != nil || len(page.Videos) != 1 {
		t.Fatalf("ListVideos: %v %+v", err, page)
	}
	if l.InFlight() != 0 {
		t.Fatalf("slot should be released after the call")
	}
	if LimitCatalog(c, nil) != c {
		t.Fatalf("nil limiter should return the catalog unchanged")
	}
}

func TestLimitCatalog_WaitTimeoutIsUpstreamError(t *testing.T) {
	c := newFakeCatalog()
	l := NewUpstreamLimiter(1, 0)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := LimitCatalog(c, l).ListVideos(ctx, "UCx", "")

	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected UpstreamError, got %T %v", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("cause should be kept, got %v", err)
	}
	if c.callCount() != 0 {
		t.Fatalf("catalog should not be called")
	}
}
