package polllog

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const defaultTable = "request_log"

// Repository is a Postgres implementation of the request log.
type Repository struct {
	db    *sql.DB
	table string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*Repository)

// WithTable overrides the default table name.
func WithTable(table string) RepositoryOption {
	return func(r *Repository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewRepository constructs a request log repository.
func NewRepository(db *sql.DB, opts ...RepositoryOption) *Repository {
	repo := &Repository{db: db, table: defaultTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Append records one poll attempt.
func (r *Repository) Append(ctx context.Context, record Record) error {
	if r == nil || r.db == nil {
		return errors.New("request log: nil db")
	}
	if record.Source == "" {
		return errors.New("request log: empty source")
	}
	if record.RequestedAt.IsZero() {
		return errors.New("request log: zero request time")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO `+r.table+` (source, requested_at, http_status, succeeded)
VALUES ($1, $2, $3, $4)`,
		string(record.Source),
		record.RequestedAt.UTC(),
		record.HTTPStatus,
		record.Succeeded,
	)
	return err
}

// CountToday returns how many attempts were recorded for the source on the
// given local calendar date. The count is keyed by source: each provider's
// quota is accounted independently.
func (r *Repository) CountToday(ctx context.Context, source Source, now time.Time) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("request log: nil db")
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM `+r.table+`
WHERE source = $1 AND requested_at >= $2 AND requested_at < $3`,
		string(source), dayStart.UTC(), dayEnd.UTC(),
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LastRequestTime returns the most recent attempt time for the source, or
// nil when the source has never been polled.
func (r *Repository) LastRequestTime(ctx context.Context, source Source) (*time.Time, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("request log: nil db")
	}
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT MAX(requested_at)
FROM `+r.table+`
WHERE source = $1`, string(source)).Scan(&last)
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	t := last.Time.UTC()
	return &t, nil
}
