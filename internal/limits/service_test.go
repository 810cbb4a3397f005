package limits_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ohanalens/go-gallery/internal/limits"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

type stubReporter struct {
	usage *interfaces.AccountUsage
	err   error
	calls int
}

func (s *stubReporter) Usage(context.Context) (*interfaces.AccountUsage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.usage, nil
}

func planUsage() *interfaces.AccountUsage {
	return &interfaces.AccountUsage{
		ImageMaxSizeBytes:  20 * 1024 * 1024,
		VideoMaxSizeBytes:  200 * 1024 * 1024,
		RawMaxSizeBytes:    20 * 1024 * 1024,
		ImageMaxPx:         50_000_000,
		AssetMaxTotalPx:    100_000_000,
		RateLimitAllowed:   500,
		RateLimitRemaining: 412,
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCurrentFetchesOnceWithinWindow(t *testing.T) {
	reporter := &stubReporter{usage: planUsage()}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := limits.NewService(reporter, limits.WithClock(clock.Now))

	first := svc.Current(context.Background())
	second := svc.Current(context.Background())

	if reporter.calls != 1 {
		t.Fatalf("expected one remote fetch, got %d", reporter.calls)
	}
	if first != second {
		t.Fatalf("expected identical snapshots, got %+v and %+v", first, second)
	}
	if first.ImageMaxSizeBytes != 20*1024*1024 {
		t.Fatalf("unexpected image ceiling %d", first.ImageMaxSizeBytes)
	}
}

func TestCurrentRefreshesAfterWindow(t *testing.T) {
	reporter := &stubReporter{usage: planUsage()}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := limits.NewService(reporter, limits.WithClock(clock.Now))

	svc.Current(context.Background())
	clock.Advance(limits.DefaultCacheWindow + time.Second)
	reporter.usage.RateLimitRemaining = 300
	got := svc.Current(context.Background())

	if reporter.calls != 2 {
		t.Fatalf("expected refresh after window, got %d fetches", reporter.calls)
	}
	if got.RateLimitRemaining != 300 {
		t.Fatalf("expected refreshed rate remaining 300, got %d", got.RateLimitRemaining)
	}
}

func TestCurrentFallsBackWithoutCachingFailure(t *testing.T) {
	reporter := &stubReporter{err: errors.New("usage endpoint down")}
	svc := limits.NewService(reporter)

	got := svc.Current(context.Background())
	if got != limits.FreeTierDefaults() {
		t.Fatalf("expected free tier defaults, got %+v", got)
	}

	// The fallback is not cached: a subsequent call retries the fetch and
	// picks up a recovered endpoint.
	reporter.err = nil
	reporter.usage = planUsage()
	recovered := svc.Current(context.Background())

	if reporter.calls != 2 {
		t.Fatalf("expected fallback to retry fetch, got %d calls", reporter.calls)
	}
	if recovered.ImageMaxSizeBytes != 20*1024*1024 {
		t.Fatalf("expected recovered limits, got %+v", recovered)
	}
}

func TestClearForcesRefetch(t *testing.T) {
	reporter := &stubReporter{usage: planUsage()}
	svc := limits.NewService(reporter)

	svc.Current(context.Background())
	svc.Clear()
	svc.Current(context.Background())

	if reporter.calls != 2 {
		t.Fatalf("expected refetch after Clear, got %d calls", reporter.calls)
	}
}
