// Package poller runs one batch cycle over every configured telemetry source:
// admission check, poll, and request-log accounting.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"solarhub/internal/observability/metrics"
	"solarhub/internal/polllog"
	"solarhub/internal/ratelimit"
)

// Source is one pollable telemetry provider. Poll returns the HTTP status of
// the attempt (0 when the call never completed) alongside the error.
type Source interface {
	ID() polllog.Source
	Poll(ctx context.Context) (int, error)
}

// Admitter decides whether a source may be polled now.
type Admitter interface {
	Admit(ctx context.Context, source polllog.Source) (ratelimit.Decision, error)
}

// RecordAppender persists poll attempts.
type RecordAppender interface {
	Append(ctx context.Context, record polllog.Record) error
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Orchestrator drives one poll cycle. Sources are isolated from each other:
// a deny or failure in one never stops the rest of the cycle.
type Orchestrator struct {
	gate    Admitter
	records RecordAppender
	sources []Source
	logger  *log.Logger
	clock   Clock
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the default clock.
func WithClock(clock Clock) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// New constructs an orchestrator over the given sources.
func New(gate Admitter, records RecordAppender, sources []Source, logger *log.Logger, opts ...Option) (*Orchestrator, error) {
	if gate == nil {
		return nil, errors.New("poller: nil gate")
	}
	if records == nil {
		return nil, errors.New("poller: nil record appender")
	}
	if len(sources) == 0 {
		return nil, errors.New("poller: no sources")
	}
	if logger == nil {
		return nil, errors.New("poller: nil logger")
	}
	o := &Orchestrator{gate: gate, records: records, sources: sources, logger: logger, clock: systemClock{}}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes one cycle. Every admitted attempt is appended to the request
// log whether it succeeded or not; denied sources are skipped without an
// attempt record so a deny never consumes quota. The returned error joins the
// per-source failures of the cycle.
func (o *Orchestrator) Run(ctx context.Context) error {
	var errs []error
	for _, src := range o.sources {
		id := src.ID()

		decision, err := o.gate.Admit(ctx, id)
		if err != nil {
			metrics.IncPollAttempt(string(id), "gate_error")
			errs = append(errs, fmt.Errorf("%s: admit: %w", id, err))
			continue
		}
		if !decision.Allowed {
			metrics.IncPollDenied(string(id), decision.Reason)
			if decision.RetryAfter > 0 {
				o.logger.Printf("poll %s denied: %s (retry in %s)", id, decision.Reason, decision.RetryAfter.Round(time.Second))
			} else {
				o.logger.Printf("poll %s denied: %s", id, decision.Reason)
			}
			continue
		}

		requestedAt := o.clock.Now()
		status, pollErr := src.Poll(ctx)
		record := polllog.Record{
			Source:      id,
			RequestedAt: requestedAt,
			HTTPStatus:  status,
			Succeeded:   pollErr == nil,
		}
		if err := o.records.Append(ctx, record); err != nil {
			// A lost attempt record undermines quota accounting, so it is
			// reported even when the poll itself succeeded.
			errs = append(errs, fmt.Errorf("%s: append poll record: %w", id, err))
		}
		if pollErr != nil {
			metrics.IncPollAttempt(string(id), "failure")
			o.logger.Printf("poll %s failed (status %d): %v", id, status, pollErr)
			errs = append(errs, fmt.Errorf("%s: %w", id, pollErr))
			continue
		}
		metrics.IncPollAttempt(string(id), "success")
		o.logger.Printf("poll %s succeeded (status %d)", id, status)
	}
	return errors.Join(errs...)
}
