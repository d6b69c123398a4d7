package solax

import (
	"context"
	"errors"
	"fmt"
	"log"

	"solarhub/internal/masterdata"
	"solarhub/internal/measurement"
	"solarhub/internal/observability/metrics"
	"solarhub/internal/polllog"
	"solarhub/internal/timekey"
)

// InverterResolver resolves the provisioned inverter for a serial number.
type InverterResolver interface {
	FindBySerial(ctx context.Context, serial string) (*masterdata.Inverter, error)
}

// UpsertStore persists normalized rows.
type UpsertStore interface {
	Upsert(ctx context.Context, table string, rows []measurement.Row) (measurement.Counts, error)
}

// EnergyChecker evaluates feed-in power for debounced alerting.
type EnergyChecker interface {
	Check(ctx context.Context, inverterID int64, feedInPower float64) error
}

// Source is the inverter poll source: fetch, normalize, persist, and drive
// the energy-flow checker.
type Source struct {
	client   *Client
	resolver InverterResolver
	store    UpsertStore
	checker  EnergyChecker
	logger   *log.Logger
}

// NewSource constructs the inverter source.
func NewSource(client *Client, resolver InverterResolver, store UpsertStore, checker EnergyChecker, logger *log.Logger) (*Source, error) {
	if client == nil {
		return nil, errors.New("solax source: nil client")
	}
	if resolver == nil {
		return nil, errors.New("solax source: nil resolver")
	}
	if store == nil {
		return nil, errors.New("solax source: nil store")
	}
	if logger == nil {
		return nil, errors.New("solax source: nil logger")
	}
	return &Source{client: client, resolver: resolver, store: store, checker: checker, logger: logger}, nil
}

// ID implements poller.Source.
func (s *Source) ID() polllog.Source { return polllog.SourceSolax }

// Poll performs one fetch-normalize-persist pass.
func (s *Source) Poll(ctx context.Context) (int, error) {
	resp, status, err := s.client.FetchRealTime(ctx)
	if err != nil {
		return status, err
	}
	result := resp.Result

	key, err := timekey.Derive(result.UploadTime)
	if err != nil {
		// A malformed uploadTime must never produce a partially keyed row.
		return status, fmt.Errorf("solax source: inverter %s: %w", result.InverterSN, err)
	}

	inverter, err := s.resolver.FindBySerial(ctx, result.InverterSN)
	if err != nil {
		if errors.Is(err, masterdata.ErrInverterNotFound) {
			return status, fmt.Errorf("solax source: no inverter provisioned for SN %s (uploadTime %s): %w",
				result.InverterSN, result.UploadTime, err)
		}
		return status, err
	}
	s.logger.Printf("solax: processing inverter id=%d sn=%s uploadTime=%s", inverter.ID, result.InverterSN, result.UploadTime)

	for _, t := range []struct {
		table string
		row   measurement.Row
	}{
		{TableEnergy, EnergyRow(result, key, inverter.ID)},
		{TablePhasePower, PhasePowerRow(result, key, inverter.ID)},
		{TableBattery, BatteryRow(result, key, inverter.ID)},
	} {
		counts, err := s.store.Upsert(ctx, t.table, []measurement.Row{t.row})
		if err != nil {
			return status, fmt.Errorf("solax source: upsert %s: %w", t.table, err)
		}
		metrics.AddRowsUpserted(t.table, counts.Inserted, counts.Updated)
	}

	if s.checker != nil {
		// Alerting failures do not fail the poll: the data is persisted.
		if err := s.checker.Check(ctx, inverter.ID, result.FeedInPower); err != nil {
			s.logger.Printf("solax: energy check for inverter %d: %v", inverter.ID, err)
		}
	}
	return status, nil
}
