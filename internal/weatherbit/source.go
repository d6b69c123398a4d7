package weatherbit

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

// Source is the Weatherbit poll source.
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

// NewSource constructs the Weatherbit source.
func NewSource(client *Client, store UpsertStore, logger *log.Logger, opts ...SourceOption) (*Source, error) {
	if client == nil {
		return nil, errors.New("weatherbit source: nil client")
	}
	if store == nil {
		return nil, errors.New("weatherbit source: nil store")
	}
	if logger == nil {
		return nil, errors.New("weatherbit source: nil logger")
	}
	s := &Source{client: client, store: store, logger: logger, clock: systemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID implements poller.Source.
func (s *Source) ID() polllog.Source { return polllog.SourceWeatherbit }

// Poll performs one fetch-normalize-persist pass.
func (s *Source) Poll(ctx context.Context) (int, error) {
	resp, status, err := s.client.FetchCurrent(ctx)
	if err != nil {
		return status, err
	}

	key, err := timekey.Derive(s.clock.Now().Format(timekey.Layout))
	if err != nil {
		return status, fmt.Errorf("weatherbit source: derive poll bucket: %w", err)
	}

	rows := ObservationRows(resp, key)
	counts, err := s.store.Upsert(ctx, TableHourlyWeather, rows)
	if err != nil {
		return status, fmt.Errorf("weatherbit source: upsert %s: %w", TableHourlyWeather, err)
	}
	metrics.AddRowsUpserted(TableHourlyWeather, counts.Inserted, counts.Updated)
	s.logger.Printf("weatherbit: stored %d observations (station %s)", len(rows), resp.Data[0].Station)
	return status, nil
}
