// Package notify evaluates grid feed-in power against the configured margin
// and sends debounced push notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"solarhub/internal/observability/metrics"
)

// Kind classifies an energy-flow alert.
type Kind string

const (
	// KindSurplus fires when feed-in power exceeds the excess margin.
	KindSurplus Kind = "surplus"
	// KindDeficit fires when consumption exceeds production by more than
	// the excess margin.
	KindDeficit Kind = "deficit"
)

// Record is the latest notification state for one (inverter, kind).
type Record struct {
	Kind   Kind
	SentAt time.Time
}

// StateStore persists notification state. An empty kind selects the most
// recent record of any kind. The store must apply RecordNotification as one
// atomic read-modify-write per (inverter, kind).
type StateStore interface {
	LastNotification(ctx context.Context, inverterID int64, kind Kind) (*Record, error)
	RecordNotification(ctx context.Context, inverterID int64, kind Kind, sentAt time.Time) error
}

// Sender delivers an alert to the operator.
type Sender interface {
	Send(ctx context.Context, title, body string) error
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// Debouncer decides whether an energy-flow alert should fire.
//
// Policy: an alert fires only on a kind transition. While the most recent
// notification for the inverter has the same kind as the candidate, the
// alert is suppressed indefinitely; a sustained state never re-alerts. On a
// transition, the candidate kind's own last send must additionally be at
// least repeatInterval old, which damps rapid oscillation around the margin.
type Debouncer struct {
	store          StateStore
	sender         Sender
	excessMargin   float64
	repeatInterval time.Duration
	clock          Clock

	mu sync.Mutex
}

// DebouncerOption configures a Debouncer.
type DebouncerOption func(*Debouncer)

// WithClock overrides the default clock.
func WithClock(clock Clock) DebouncerOption {
	return func(d *Debouncer) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// NewDebouncer constructs a debouncer.
func NewDebouncer(store StateStore, sender Sender, excessMargin float64, repeatInterval time.Duration, opts ...DebouncerOption) (*Debouncer, error) {
	if store == nil {
		return nil, errors.New("debouncer: nil state store")
	}
	if sender == nil {
		return nil, errors.New("debouncer: nil sender")
	}
	if excessMargin < 0 {
		return nil, errors.New("debouncer: negative excess margin")
	}
	d := &Debouncer{
		store:          store,
		sender:         sender,
		excessMargin:   excessMargin,
		repeatInterval: repeatInterval,
		clock:          systemClock{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Classify maps a feed-in power reading to a candidate alert kind. The
// second return is false when the reading sits inside the margin band.
func (d *Debouncer) Classify(feedInPower float64) (Kind, bool) {
	switch {
	case feedInPower > d.excessMargin:
		return KindSurplus, true
	case feedInPower < -d.excessMargin:
		return KindDeficit, true
	default:
		return "", false
	}
}

// Check evaluates the reading for the inverter and sends at most one alert.
// The decision read and the state write are serialized per debouncer so a
// concurrent invocation for the same inverter cannot double-send.
func (d *Debouncer) Check(ctx context.Context, inverterID int64, feedInPower float64) error {
	if d == nil {
		return errors.New("debouncer: nil debouncer")
	}
	candidate, ok := d.Classify(feedInPower)
	if !ok {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	latest, err := d.store.LastNotification(ctx, inverterID, "")
	if err != nil {
		return fmt.Errorf("debouncer: read latest state: %w", err)
	}
	if latest != nil && latest.Kind == candidate {
		// State unchanged since the last alert.
		return nil
	}

	sameKind, err := d.store.LastNotification(ctx, inverterID, candidate)
	if err != nil {
		return fmt.Errorf("debouncer: read %s state: %w", candidate, err)
	}
	now := d.clock.Now()
	if sameKind != nil && now.Sub(sameKind.SentAt) < d.repeatInterval {
		return nil
	}

	title, body := d.message(candidate, feedInPower)
	if err := d.sender.Send(ctx, title, body); err != nil {
		return fmt.Errorf("debouncer: send %s alert: %w", candidate, err)
	}
	if err := d.store.RecordNotification(ctx, inverterID, candidate, now); err != nil {
		return fmt.Errorf("debouncer: record %s alert: %w", candidate, err)
	}
	metrics.IncNotification(string(candidate))
	return nil
}

func (d *Debouncer) message(kind Kind, feedInPower float64) (string, string) {
	switch kind {
	case KindSurplus:
		return "Energy surplus",
			fmt.Sprintf("You have %.0f W of surplus (margin %.0f W). Switch on appliances to use your own energy.",
				feedInPower, d.excessMargin)
	default:
		return "High consumption",
			fmt.Sprintf("You are drawing %.0f W above your production (margin %.0f W). Switch off appliances to save.",
				-feedInPower, d.excessMargin)
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
