package openweather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"solarhub/internal/measurement"
	"solarhub/internal/observability/metrics"
	"solarhub/internal/polllog"
	"solarhub/internal/timekey"
)

// UpsertStore persists normalized rows.
type UpsertStore interface {
	Upsert(ctx context.Context, table string, rows []measurement.Row) (measurement.Counts, error)
}

// Clock abstracts wall-clock time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Source polls both OpenWeather endpoints in one pass. The two calls are
// independent: a failure in one still lets the other persist its rows.
type Source struct {
	client *Client
	store  UpsertStore
	logger *log.Logger
	clock  Clock
}

// SourceOption configures the source.
type SourceOption func(*Source)

// WithClock overrides the clock used to bucket observations.
func WithClock(c Clock) SourceOption {
	return func(s *Source) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewSource constructs the OpenWeather source.
func NewSource(client *Client, store UpsertStore, logger *log.Logger, opts ...SourceOption) (*Source, error) {
	if client == nil {
		return nil, errors.New("openweather source: nil client")
	}
	if store == nil {
		return nil, errors.New("openweather source: nil store")
	}
	if logger == nil {
		return nil, errors.New("openweather source: nil logger")
	}
	s := &Source{client: client, store: store, logger: logger, clock: systemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID implements poller.Source.
func (s *Source) ID() polllog.Source { return polllog.SourceOpenWeather }

// Poll fetches the current weather and the air-pollution measurements, keyed
// by the same poll-time bucket. The reported status is the worst of the two
// calls so a partial failure is visible in the request log.
func (s *Source) Poll(ctx context.Context) (int, error) {
	key, err := timekey.Derive(s.clock.Now().Format(timekey.Layout))
	if err != nil {
		return 0, fmt.Errorf("openweather source: derive poll bucket: %w", err)
	}

	var errs []error
	current, currentStatus, err := s.client.FetchCurrent(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("current weather: %w", err))
	} else {
		counts, err := s.store.Upsert(ctx, TableCurrentWeather, []measurement.Row{CurrentWeatherRow(current, key)})
		if err != nil {
			errs = append(errs, fmt.Errorf("upsert %s: %w", TableCurrentWeather, err))
		} else {
			metrics.AddRowsUpserted(TableCurrentWeather, counts.Inserted, counts.Updated)
			s.logger.Printf("openweather: stored current weather for %s (%s)", current.Name, current.Sys.Country)
		}
	}

	pollution, pollutionStatus, err := s.client.FetchAirPollution(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("air pollution: %w", err))
	} else {
		rows := AirPollutionRows(pollution, key)
		counts, err := s.store.Upsert(ctx, TableAirPollution, rows)
		if err != nil {
			errs = append(errs, fmt.Errorf("upsert %s: %w", TableAirPollution, err))
		} else {
			metrics.AddRowsUpserted(TableAirPollution, counts.Inserted, counts.Updated)
			s.logger.Printf("openweather: stored %d air pollution measurements", len(rows))
		}
	}

	status := currentStatus
	if worse(pollutionStatus, status) {
		status = pollutionStatus
	}
	if len(errs) > 0 {
		return status, fmt.Errorf("openweather source: %w", errors.Join(errs...))
	}
	return status, nil
}

// worse reports whether status a is a stronger failure signal than b.
// Transport failures (0) dominate, then any non-2xx, then anything else.
func worse(a, b int) bool {
	rank := func(s int) int {
		switch {
		case s == 0:
			return 0
		case s < 200 || s >= 300:
			return 1
		default:
			return 2
		}
	}
	return rank(a) < rank(b)
}
