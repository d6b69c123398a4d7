package measurement_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"solarhub/internal/measurement"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestUpsertIdempotence_Postgres(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS energy_data_it (
	fecha TEXT NOT NULL,
	periodo TEXT NOT NULL,
	min TEXT NOT NULL,
	inverter_id BIGINT NOT NULL,
	acpower DOUBLE PRECISION,
	feedinpower DOUBLE PRECISION,
	PRIMARY KEY (fecha, periodo, min, inverter_id)
)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM energy_data_it"); err != nil {
		t.Fatalf("clean table: %v", err)
	}

	row := func(acpower, feedin float64) measurement.Row {
		return measurement.Row{
			Keys: []measurement.Column{
				{Name: "fecha", Value: "2025-02-15"},
				{Name: "periodo", Value: "19"},
				{Name: "min", Value: "38"},
				{Name: "inverter_id", Value: int64(1)},
			},
			Values: []measurement.Column{
				{Name: "acpower", Value: acpower},
				{Name: "feedinpower", Value: feedin},
			},
		}
	}

	store := measurement.NewStore(db)

	counts, err := store.Upsert(ctx, "energy_data_it", []measurement.Row{row(1250, 320)})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if counts.Inserted != 1 || counts.Updated != 0 {
		t.Fatalf("first upsert counts = %+v, want 1 inserted", counts)
	}

	counts, err = store.Upsert(ctx, "energy_data_it", []measurement.Row{row(900, -50)})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if counts.Inserted != 0 || counts.Updated != 1 {
		t.Fatalf("second upsert counts = %+v, want 1 updated", counts)
	}

	var total int
	var acpower float64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*), MAX(acpower) FROM energy_data_it").Scan(&total, &acpower); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected exactly one stored row, got %d", total)
	}
	if acpower != 900 {
		t.Fatalf("expected last write to win, acpower = %v", acpower)
	}
}
