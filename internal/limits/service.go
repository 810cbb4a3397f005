package limits

import (
	"context"
	"sync"
	"time"

	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

// DefaultCacheWindow is how long a fetched snapshot is trusted before a
// refresh is attempted.
const DefaultCacheWindow = 5 * time.Minute

// MediaLimits is an immutable snapshot of the provider's account-level
// upload constraints. Consumers always receive a copy.
type MediaLimits struct {
	ImageMaxSizeBytes  int64 `json:"imageMaxSizeBytes"`
	VideoMaxSizeBytes  int64 `json:"videoMaxSizeBytes"`
	RawMaxSizeBytes    int64 `json:"rawMaxSizeBytes"`
	ImageMaxPx         int64 `json:"imageMaxPx"`
	AssetMaxTotalPx    int64 `json:"assetMaxTotalPx"`
	RateLimitAllowed   int   `json:"rateLimitAllowed"`
	RateLimitRemaining int   `json:"rateLimitRemaining"`
}

// FreeTierDefaults are the conservative fallback limits returned when the
// remote usage endpoint cannot be reached. They are never cached, so the
// next call retries the fetch.
func FreeTierDefaults() MediaLimits {
	return MediaLimits{
		ImageMaxSizeBytes:  10 * 1024 * 1024,
		VideoMaxSizeBytes:  100 * 1024 * 1024,
		RawMaxSizeBytes:    10 * 1024 * 1024,
		ImageMaxPx:         25_000_000,
		AssetMaxTotalPx:    50_000_000,
		RateLimitAllowed:   500,
		RateLimitRemaining: 500,
	}
}

// Service memoizes the provider's media limits for a fixed window.
type Service interface {
	// Current returns the cached limits, refreshing them when stale. It is
	// safe to call from concurrent in-flight uploads and never returns an
	// error: fetch failures degrade to FreeTierDefaults.
	Current(ctx context.Context) MediaLimits
	// Clear resets the cached state. Intended for test isolation.
	Clear()
}

// ServiceOption customises the limits service.
type ServiceOption func(*service)

// WithCacheWindow overrides the duration a fetched snapshot stays trusted.
func WithCacheWindow(window time.Duration) ServiceOption {
	return func(s *service) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithClock injects the time source, enabling deterministic expiry in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger for fetch failures and refresh events.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	reporter interfaces.UsageReporter
	logger   interfaces.Logger
	window   time.Duration
	now      func() time.Time

	mu        sync.Mutex
	cached    *MediaLimits
	fetchedAt time.Time
}

// NewService constructs a limits cache backed by the given usage reporter.
func NewService(reporter interfaces.UsageReporter, opts ...ServiceOption) Service {
	s := &service{
		reporter: reporter,
		logger:   logging.NoOp(),
		window:   DefaultCacheWindow,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Current(ctx context.Context) MediaLimits {
	s.mu.Lock()
	if s.cached != nil && s.now().Sub(s.fetchedAt) < s.window {
		cached := *s.cached
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	fetched, err := s.fetch(ctx)
	if err != nil {
		// Failures are not cached: the next caller retries the fetch.
		s.logger.Error("limits.fetch_failed", "error", err)
		return FreeTierDefaults()
	}

	s.mu.Lock()
	s.cached = fetched
	s.fetchedAt = s.now()
	s.mu.Unlock()

	s.logger.Info("limits.refreshed",
		"image_max_bytes", fetched.ImageMaxSizeBytes,
		"video_max_bytes", fetched.VideoMaxSizeBytes,
		"rate_remaining", fetched.RateLimitRemaining,
	)
	return *fetched
}

func (s *service) Clear() {
	s.mu.Lock()
	s.cached = nil
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

func (s *service) fetch(ctx context.Context) (*MediaLimits, error) {
	usage, err := s.reporter.Usage(ctx)
	if err != nil {
		return nil, err
	}
	return &MediaLimits{
		ImageMaxSizeBytes:  usage.ImageMaxSizeBytes,
		VideoMaxSizeBytes:  usage.VideoMaxSizeBytes,
		RawMaxSizeBytes:    usage.RawMaxSizeBytes,
		ImageMaxPx:         usage.ImageMaxPx,
		AssetMaxTotalPx:    usage.AssetMaxTotalPx,
		RateLimitAllowed:   usage.RateLimitAllowed,
		RateLimitRemaining: usage.RateLimitRemaining,
	}, nil
}
