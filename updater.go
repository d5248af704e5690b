package publicsuffix

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// UpdaterConfig controls RunUpdater.
type UpdaterConfig struct {
	// Retriever is the update source. A nil Retriever uses the official
	// GitHub repository.
	Retriever ListRetriever

	// Interval is the base refresh interval. Zero means 24 hours.
	Interval time.Duration

	// InitialBackoff is the delay before the first retry after a failed
	// update. Zero means 30 seconds.
	InitialBackoff time.Duration

	// MaxBackoff caps the retry delay. Zero means 30 minutes.
	MaxBackoff time.Duration

	// Timeout bounds a single update attempt. Zero means 1 minute.
	Timeout time.Duration

	// Logger receives progress and failure messages. Nil means slog.Default.
	Logger *slog.Logger
}

// RunUpdater keeps the default list fresh until ctx is cancelled, updating
// once immediately and then on every tick of cfg.Interval. A failed update
// is retried with exponential backoff, capped at cfg.MaxBackoff, until it
// succeeds; the regular schedule then resumes. RunUpdater always returns the
// ctx error, so it can run directly under an errgroup alongside the rest of
// a program.
func RunUpdater(ctx context.Context, cfg UpdaterConfig) error {
	if cfg.Retriever == nil {
		cfg.Retriever = gitHubListRetriever{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 30 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// Perform the first update immediately on startup.
	if err := updateWithBackoff(ctx, cfg); err != nil {
		return err
	}
	cfg.Logger.Info("publicsuffix: list updated", "release", Release())

	var ticker = time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if err := updateWithBackoff(ctx, cfg); err != nil {
				return err
			}
		}
	}
}

// updateWithBackoff retries a failed update with exponential backoff until it
// succeeds or ctx ends. A non-nil error is always the ctx error.
func updateWithBackoff(ctx context.Context, cfg UpdaterConfig) error {
	var failures int

	for {
		var err = updateOnce(ctx, cfg)
		if err == nil {
			if failures > 0 {
				cfg.Logger.Info("publicsuffix: update recovered",
					"failures", failures, "release", Release())
			}
			return nil
		}

		failures++
		var backoff = calcBackoff(cfg.InitialBackoff, cfg.MaxBackoff, failures)

		cfg.Logger.Warn("publicsuffix: update failed",
			"attempt", failures, "backoff", backoff, "err", err)

		var timer = time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func updateOnce(ctx context.Context, cfg UpdaterConfig) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	return UpdateWithListRetriever(ctx, cfg.Retriever)
}

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	// Clamp before converting: for large failure counts the doubled delay
	// exceeds the int64 range and the conversion result is implementation
	// dependent.
	var backoff = max
	if pow := math.Pow(2, float64(failures-1)); pow < float64(max)/float64(initial) {
		backoff = time.Duration(float64(initial) * pow)
	}

	// Add jitter to avoid synchronized retries.
	var jitterFrac = 0.2
	var jitter = time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))

	return backoff + jitter
}
