// Package polllog keeps the append-only log of poll attempts per source.
// The log is the source of truth for rate-limit accounting: daily counts and
// last-request times are always recomputed from it, never cached.
package polllog

import "time"

// Source identifies one external telemetry provider.
type Source string

const (
	SourceSolax       Source = "solaxcloud"
	SourceOpenWeather Source = "openweather"
	SourceWeatherbit  Source = "weatherbit"
)

// StatusTransportFailure is the sentinel HTTP status recorded when a call
// never completed.
const StatusTransportFailure = 0

// Record is one poll attempt. Records are appended on every attempt,
// successful or not, and never mutated.
type Record struct {
	Source      Source
	RequestedAt time.Time
	HTTPStatus  int
	Succeeded   bool
}
