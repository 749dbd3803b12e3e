// Package sampler measures per-request latency and body size against a
// single HTTP target using a warmup-then-measure protocol.
package sampler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kettleby/abench/stats"
)

// Config controls one sampling pass.
type Config struct {
	WarmupCount   int
	MeasuredCount int
	// Delay between consecutive measured requests, to keep one request's
	// queuing from bleeding into the next measurement.
	InterRequestDelay time.Duration
	RequestTimeout    time.Duration
}

// Sampler issues sequential requests against targets. Requests are never
// overlapped: per-request latency attribution requires the previous
// request to have fully completed.
type Sampler struct {
	client *http.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a Sampler. A zero RequestTimeout defaults to 10s.
func New(cfg Config, logger *slog.Logger) *Sampler {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Sampler{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Check verifies that a target responds at all. A failure is fatal to the
// whole run and the returned error names the target.
func Check(ctx context.Context, name, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return fmt.Errorf("target %s: build request for %s: %w", name, baseURL, err)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("target %s is not responding at %s: %w", name, baseURL, err)
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return nil
}

// Sample runs the warmup burst then the measured burst against one URL and
// aggregates the outcome. Failed requests are counted once and never
// retried. All measured requests failing yields a Failed summary rather
// than an error: the caller reports the scenario and moves on.
func (s *Sampler) Sample(ctx context.Context, url string) (stats.Summary, error) {
	s.logger.Debug("warming up", slog.String("url", url),
		slog.Int("requests", s.cfg.WarmupCount))

	for i := 0; i < s.cfg.WarmupCount; i++ {
		// Warmup results are discarded, failures included; the burst only
		// primes caches and connection pools.
		_, _, _ = s.fetch(ctx, url)

		if err := s.pause(ctx); err != nil {
			return stats.Summary{}, err
		}
	}

	samples := make([]stats.Sample, 0, s.cfg.MeasuredCount)
	errorCount := 0

	for i := 0; i < s.cfg.MeasuredCount; i++ {
		latency, size, err := s.fetch(ctx, url)
		if err != nil {
			errorCount++
		} else {
			samples = append(samples, stats.Sample{
				LatencyMs: latency,
				BodyBytes: size,
			})
		}

		if err := s.pause(ctx); err != nil {
			return stats.Summary{}, err
		}
	}

	summary, err := stats.Aggregate(samples, errorCount, s.cfg.MeasuredCount)
	if err != nil {
		s.logger.Warn("no valid responses", slog.String("url", url),
			slog.Int("errors", errorCount))

		return stats.FailedSummary(errorCount, s.cfg.MeasuredCount), nil
	}

	return summary, nil
}

// fetch issues one GET and times dispatch to full-body receipt. A non-2xx
// status or transport failure is an error sample.
func (s *Sampler) fetch(ctx context.Context, url string) (float64, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err
	}

	start := time.Now()

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, err
	}

	elapsed := float64(time.Since(start)) / float64(time.Millisecond)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return elapsed, len(body), nil
}

func (s *Sampler) pause(ctx context.Context) error {
	if s.cfg.InterRequestDelay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.cfg.InterRequestDelay):
		return nil
	}
}
