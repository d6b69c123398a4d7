// Package ratelimit decides whether a poll attempt may proceed for a source,
// based on the daily quota and the minimum inter-request interval.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"solarhub/internal/polllog"
)

// Deny reasons.
const (
	ReasonDailyLimit = "daily_limit_exceeded"
	ReasonInterval   = "interval_not_elapsed"
)

// RequestHistory reads the poll history the gate decides from. The backing
// store must answer both queries keyed by source.
type RequestHistory interface {
	CountToday(ctx context.Context, source polllog.Source, now time.Time) (int, error)
	LastRequestTime(ctx context.Context, source polllog.Source) (*time.Time, error)
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// Policy is the per-source admission policy.
type Policy struct {
	DailyLimit  int
	MinInterval time.Duration
}

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed    bool
	Reason     string
	RetryAfter time.Duration
}

// Gate performs advisory admission control. It never writes: the caller is
// responsible for appending a poll record after an attempt, and a Deny must
// not be counted as an attempt.
type Gate struct {
	history  RequestHistory
	policies map[polllog.Source]Policy
	clock    Clock
}

// Option configures the gate.
type Option func(*Gate)

// WithClock overrides the default clock.
func WithClock(clock Clock) Option {
	return func(g *Gate) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// NewGate constructs a gate over the given history and per-source policies.
func NewGate(history RequestHistory, policies map[polllog.Source]Policy, opts ...Option) (*Gate, error) {
	if history == nil {
		return nil, errors.New("rate gate: nil history")
	}
	if len(policies) == 0 {
		return nil, errors.New("rate gate: no policies")
	}
	g := &Gate{history: history, policies: policies, clock: systemClock{}}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Admit decides whether a poll for the source may proceed now. The daily
// count is recomputed from history on every call so the decision survives
// process restarts.
func (g *Gate) Admit(ctx context.Context, source polllog.Source) (Decision, error) {
	if g == nil {
		return Decision{}, errors.New("rate gate: nil gate")
	}
	policy, ok := g.policies[source]
	if !ok {
		return Decision{}, errors.New("rate gate: no policy for source " + string(source))
	}
	now := g.clock.Now()

	count, err := g.history.CountToday(ctx, source, now)
	if err != nil {
		return Decision{}, err
	}
	if policy.DailyLimit > 0 && count >= policy.DailyLimit {
		return Decision{Reason: ReasonDailyLimit}, nil
	}

	last, err := g.history.LastRequestTime(ctx, source)
	if err != nil {
		return Decision{}, err
	}
	if last == nil {
		return Decision{Allowed: true}, nil
	}
	if policy.MinInterval > 0 {
		elapsed := now.Sub(*last)
		if elapsed < policy.MinInterval {
			return Decision{Reason: ReasonInterval, RetryAfter: policy.MinInterval - elapsed}, nil
		}
	}
	return Decision{Allowed: true}, nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
