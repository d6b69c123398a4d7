package notify

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresStateStore keeps the latest notification per (inverter, kind).
// The natural-key upsert makes the record write atomic; concurrent cycles
// for one inverter serialize on the row.
type PostgresStateStore struct {
	db *sql.DB
}

// NewPostgresStateStore constructs a state store.
func NewPostgresStateStore(db *sql.DB) *PostgresStateStore {
	return &PostgresStateStore{db: db}
}

// LastNotification returns the most recent record for the inverter,
// optionally restricted to one kind. Returns nil when nothing was sent yet.
func (s *PostgresStateStore) LastNotification(ctx context.Context, inverterID int64, kind Kind) (*Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("notification store: nil db")
	}

	query := `
SELECT notification_type, sent_at
FROM notification_log
WHERE inverter_id = $1
ORDER BY sent_at DESC
LIMIT 1`
	args := []any{inverterID}
	if kind != "" {
		query = `
SELECT notification_type, sent_at
FROM notification_log
WHERE inverter_id = $1 AND notification_type = $2
ORDER BY sent_at DESC
LIMIT 1`
		args = append(args, string(kind))
	}

	var record Record
	var kindValue string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&kindValue, &record.SentAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	record.Kind = Kind(kindValue)
	record.SentAt = record.SentAt.UTC()
	return &record, nil
}

// RecordNotification stores the latest send time for (inverter, kind).
func (s *PostgresStateStore) RecordNotification(ctx context.Context, inverterID int64, kind Kind, sentAt time.Time) error {
	if s == nil || s.db == nil {
		return errors.New("notification store: nil db")
	}
	if kind == "" {
		return errors.New("notification store: empty kind")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO notification_log (inverter_id, notification_type, sent_at)
VALUES ($1, $2, $3)
ON CONFLICT (inverter_id, notification_type)
DO UPDATE SET sent_at = EXCLUDED.sent_at`,
		inverterID, string(kind), sentAt.UTC(),
	)
	return err
}
