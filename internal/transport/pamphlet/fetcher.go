// Package pamphlet downloads pamphlet images with a timeout, a size cap
// and a shared outbound rate limit.
package pamphlet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/metrics"
	"github.com/kailas-cloud/schemedex/internal/redact"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 10 << 20
)

// Config holds the fetcher settings.
type Config struct {
	Timeout  time.Duration
	MaxBytes int64
	// RateLimitRPS caps outbound fetches per second across all callers;
	// zero disables the limit.
	RateLimitRPS float64
	Burst        int
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Fetcher implements catalog.PamphletFetcher.
type Fetcher struct {
	http     *http.Client
	limiter  *rate.Limiter
	timeout  time.Duration
	maxBytes int64
	logger   *zap.Logger
}

// NewFetcher creates a pamphlet fetcher.
func NewFetcher(cfg Config) *Fetcher {
	f := &Fetcher{
		http:     cfg.HTTPClient,
		timeout:  cfg.Timeout,
		maxBytes: cfg.MaxBytes,
		logger:   cfg.Logger,
	}
	if f.http == nil {
		f.http = &http.Client{}
	}
	if f.timeout <= 0 {
		f.timeout = DefaultTimeout
	}
	if f.maxBytes <= 0 {
		f.maxBytes = DefaultMaxBytes
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	return f
}

// Fetch downloads url and verifies the body is an image. It never retries.
func (f *Fetcher) Fetch(ctx context.Context, url string) (domain.Pamphlet, error) {
	start := time.Now()
	p, outcome, err := f.fetch(ctx, url)
	duration := time.Since(start)

	metrics.PamphletFetchesTotal.WithLabelValues(outcome).Inc()
	metrics.PamphletFetchDuration.Observe(duration.Seconds())

	if err != nil {
		f.logger.Warn("Pamphlet fetch failed",
			zap.String("outcome", outcome),
			zap.Duration("duration", duration),
			zap.String("error", redact.Error(err)),
		)
		return domain.Pamphlet{}, err
	}
	return p, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (domain.Pamphlet, string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return domain.Pamphlet{}, "rate_limited", fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return domain.Pamphlet{}, "error", fmt.Errorf("%w: build request: %w", domain.ErrPamphletUnavailable, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.http.Do(req)
	if err != nil {
		outcome, err := classify(err)
		return domain.Pamphlet{}, outcome, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		return domain.Pamphlet{}, "error", fmt.Errorf("%w: status %s", domain.ErrPamphletUnavailable, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		outcome, err := classify(err)
		return domain.Pamphlet{}, outcome, err
	}
	if int64(len(body)) > f.maxBytes {
		return domain.Pamphlet{}, "too_large", fmt.Errorf("%w: over %d bytes", domain.ErrPamphletTooLarge, f.maxBytes)
	}

	mt := mimetype.Detect(body)
	if !strings.HasPrefix(mt.String(), "image/") {
		return domain.Pamphlet{}, "not_image", fmt.Errorf("%w: detected %s", domain.ErrNotImage, mt.String())
	}

	return domain.Pamphlet{URL: url, ContentType: mt.String(), Data: body}, "ok", nil
}

func classify(err error) (string, error) {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return "timeout", fmt.Errorf("%w: %s", domain.ErrFetchTimeout, redact.Error(err))
	}
	return "error", fmt.Errorf("%w: %s", domain.ErrPamphletUnavailable, redact.Error(err))
}
