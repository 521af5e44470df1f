package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryOptions configures the error reporter
type SentryOptions struct {
	DSN         string
	Environment string
	Release     string
}

// SentryReporter sends sink failures to Sentry. With an empty DSN the SDK
// stays uninitialised and Report only drops the error
type SentryReporter struct {
	enabled bool
}

// NewSentryReporter initialises the Sentry SDK
func NewSentryReporter(opts SentryOptions) (*SentryReporter, error) {
	if opts.DSN == "" {
		return &SentryReporter{}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
	}); err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}
	return &SentryReporter{enabled: true}, nil
}

// Report captures err with tags on a scoped hub
func (r *SentryReporter) Report(ctx context.Context, err error, tags map[string]string) {
	if !r.enabled || err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// Flush waits for buffered reports before process exit
func (r *SentryReporter) Flush(timeout time.Duration) {
	if r.enabled {
		sentry.Flush(timeout)
	}
}
