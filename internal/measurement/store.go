package measurement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Store upserts measurement rows into Postgres.
type Store struct {
	db *sql.DB
}

// NewStore constructs a store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert writes the rows into the table keyed by their natural key. Existing
// rows are fully overwritten column by column; there is no field-level merge.
// All rows in one call must share the same column shape and are written in a
// single transaction so concurrent cycles serialize per key.
func (s *Store) Upsert(ctx context.Context, table string, rows []Row) (Counts, error) {
	if s == nil || s.db == nil {
		return Counts{}, errors.New("measurement store: nil db")
	}
	if table == "" {
		return Counts{}, errors.New("measurement store: empty table")
	}
	if len(rows) == 0 {
		return Counts{}, nil
	}
	query, err := buildUpsert(table, rows[0])
	if err != nil {
		return Counts{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return Counts{}, err
	}
	defer stmt.Close()

	var counts Counts
	for _, row := range rows {
		args, err := rowArgs(rows[0], row)
		if err != nil {
			_ = tx.Rollback()
			return Counts{}, err
		}
		// xmax = 0 only holds for freshly inserted tuples, which is the
		// engine's own insert-vs-update signal.
		var inserted bool
		if err := stmt.QueryRowContext(ctx, args...).Scan(&inserted); err != nil {
			_ = tx.Rollback()
			return Counts{}, err
		}
		if inserted {
			counts.Inserted++
		} else {
			counts.Updated++
		}
	}
	if err := tx.Commit(); err != nil {
		return Counts{}, err
	}
	return counts, nil
}

func buildUpsert(table string, shape Row) (string, error) {
	if len(shape.Keys) == 0 {
		return "", fmt.Errorf("measurement store: table %s: row without key columns", table)
	}
	names := make([]string, 0, len(shape.Keys)+len(shape.Values))
	keyNames := make([]string, 0, len(shape.Keys))
	for _, c := range shape.Keys {
		if c.Name == "" {
			return "", fmt.Errorf("measurement store: table %s: empty key column name", table)
		}
		names = append(names, c.Name)
		keyNames = append(keyNames, c.Name)
	}
	assignments := make([]string, 0, len(shape.Values))
	for _, c := range shape.Values {
		if c.Name == "" {
			return "", fmt.Errorf("measurement store: table %s: empty column name", table)
		}
		names = append(names, c.Name)
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", c.Name, c.Name))
	}
	placeholders := make([]string, len(names))
	for i := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s)\nVALUES (%s)\nON CONFLICT (%s)\n",
		table,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(keyNames, ", "),
	)
	if len(assignments) == 0 {
		// DO NOTHING would suppress the RETURNING row on conflict; a no-op
		// update keeps the insert signal observable for key-only rows.
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", keyNames[0], keyNames[0]))
	}
	fmt.Fprintf(&b, "DO UPDATE SET %s\n", strings.Join(assignments, ", "))
	b.WriteString("RETURNING (xmax = 0)")
	return b.String(), nil
}

func rowArgs(shape, row Row) ([]any, error) {
	if len(row.Keys) != len(shape.Keys) || len(row.Values) != len(shape.Values) {
		return nil, errors.New("measurement store: rows in one batch differ in shape")
	}
	args := make([]any, 0, len(row.Keys)+len(row.Values))
	for i, c := range row.Keys {
		if c.Name != shape.Keys[i].Name {
			return nil, errors.New("measurement store: rows in one batch differ in shape")
		}
		args = append(args, c.Value)
	}
	for i, c := range row.Values {
		if c.Name != shape.Values[i].Name {
			return nil, errors.New("measurement store: rows in one batch differ in shape")
		}
		args = append(args, c.Value)
	}
	return args, nil
}
