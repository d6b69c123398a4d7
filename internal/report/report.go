// Package report builds daily production reports from the persisted inverter
// measurements.
package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Sample is one persisted energy measurement within the report day.
type Sample struct {
	Periodo       string
	Min           string
	ACPower       float64
	FeedInPower   float64
	YieldToday    float64
	ConsumeEnergy float64
}

// DayReport aggregates one inverter-day of measurements.
type DayReport struct {
	InverterID  int64
	SiteName    string
	Day         time.Time
	Samples     []Sample
	PeakACPower float64
	MaxFeedIn   float64
	MinFeedIn   float64
	YieldKWh    float64
	GeneratedAt time.Time
}

// ErrNoData is returned when the day has no persisted measurements.
var ErrNoData = errors.New("report: no measurements for day")

// Reader loads report data from the measurement tables.
type Reader struct {
	db *sql.DB
}

// NewReader constructs a report reader.
func NewReader(db *sql.DB) *Reader { return &Reader{db: db} }

// DayReport loads every energy sample of the inverter for the given calendar
// day, ordered by time bucket, and computes the day aggregates.
func (r *Reader) DayReport(ctx context.Context, inverterID int64, siteName string, day time.Time) (*DayReport, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("report: nil db")
	}
	fecha := day.Format("2006-01-02")
	rows, err := r.db.QueryContext(ctx, `
SELECT periodo, min, acpower, feedinpower, yieldtoday, consumeenergy
FROM energy_data
WHERE fecha = $1 AND inverter_id = $2
ORDER BY periodo, min`, fecha, inverterID)
	if err != nil {
		return nil, fmt.Errorf("report: query energy samples: %w", err)
	}
	defer rows.Close()

	rep := &DayReport{
		InverterID:  inverterID,
		SiteName:    siteName,
		Day:         day,
		GeneratedAt: time.Now(),
	}
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.Periodo, &s.Min, &s.ACPower, &s.FeedInPower, &s.YieldToday, &s.ConsumeEnergy); err != nil {
			return nil, fmt.Errorf("report: scan energy sample: %w", err)
		}
		rep.Samples = append(rep.Samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(rep.Samples) == 0 {
		return nil, fmt.Errorf("%w: inverter %d on %s", ErrNoData, inverterID, fecha)
	}
	rep.aggregate()
	return rep, nil
}

func (r *DayReport) aggregate() {
	r.MinFeedIn = r.Samples[0].FeedInPower
	for _, s := range r.Samples {
		if s.ACPower > r.PeakACPower {
			r.PeakACPower = s.ACPower
		}
		if s.FeedInPower > r.MaxFeedIn {
			r.MaxFeedIn = s.FeedInPower
		}
		if s.FeedInPower < r.MinFeedIn {
			r.MinFeedIn = s.FeedInPower
		}
	}
	// yieldtoday is a day-cumulative counter; the last sample holds the total.
	r.YieldKWh = r.Samples[len(r.Samples)-1].YieldToday
}
