// Package timekey derives the composite natural key used for idempotent
// measurement upserts from provider-supplied timestamps.
package timekey

import (
	"fmt"
	"time"
)

// Layout is the fixed timestamp format every provider reports in.
const Layout = "2006-01-02 15:04:05"

// Key is the time portion of a measurement natural key. The components are
// kept as zero-padded strings because that is how the tables store them.
type Key struct {
	Date   string // "2006-01-02"
	Hour   string // "00".."23"
	Minute string // "00".."59"
}

// ParseError reports a timestamp that does not match Layout. Callers must
// skip persistence for the affected record rather than write a zero key.
type ParseError struct {
	Input string
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("timekey: malformed timestamp %q", e.Input)
}

func (e *ParseError) Unwrap() error { return e.cause }

// Derive parses a provider timestamp into its natural-key components.
func Derive(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Key{}, &ParseError{Input: s, cause: err}
	}
	// time.Parse accepts some inputs a fixed-width key must not, e.g. a
	// missing leading zero. Re-render and compare to keep parsing strict.
	if t.Format(Layout) != s {
		return Key{}, &ParseError{Input: s}
	}
	return Key{
		Date:   t.Format("2006-01-02"),
		Hour:   t.Format("15"),
		Minute: t.Format("04"),
	}, nil
}
