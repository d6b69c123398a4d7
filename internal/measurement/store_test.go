package measurement

import (
	"strings"
	"testing"
)

func sampleRow() Row {
	return Row{
		Keys: []Column{
			{Name: "fecha", Value: "2025-02-15"},
			{Name: "periodo", Value: "19"},
			{Name: "min", Value: "38"},
			{Name: "inverter_id", Value: 1},
		},
		Values: []Column{
			{Name: "acpower", Value: 1250.0},
			{Name: "feedinpower", Value: 320.5},
		},
	}
}

func TestBuildUpsert(t *testing.T) {
	query, err := buildUpsert("energy_data", sampleRow())
	if err != nil {
		t.Fatalf("build upsert: %v", err)
	}
	for _, fragment := range []string{
		"INSERT INTO energy_data (fecha, periodo, min, inverter_id, acpower, feedinpower)",
		"VALUES ($1, $2, $3, $4, $5, $6)",
		"ON CONFLICT (fecha, periodo, min, inverter_id)",
		"DO UPDATE SET acpower = EXCLUDED.acpower, feedinpower = EXCLUDED.feedinpower",
		"RETURNING (xmax = 0)",
	} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("query missing %q:\n%s", fragment, query)
		}
	}
}

func TestBuildUpsertNoKeys(t *testing.T) {
	if _, err := buildUpsert("energy_data", Row{Values: []Column{{Name: "acpower", Value: 1.0}}}); err == nil {
		t.Fatal("expected error for row without key columns")
	}
}

func TestBuildUpsertKeyOnlyRow(t *testing.T) {
	row := Row{Keys: []Column{{Name: "fecha", Value: "2025-02-15"}}}
	query, err := buildUpsert("marker_data", row)
	if err != nil {
		t.Fatalf("build upsert: %v", err)
	}
	if !strings.Contains(query, "DO UPDATE SET fecha = EXCLUDED.fecha") {
		t.Fatalf("key-only row should fall back to a no-op update:\n%s", query)
	}
}

func TestRowArgsOrder(t *testing.T) {
	shape := sampleRow()
	args, err := rowArgs(shape, shape)
	if err != nil {
		t.Fatalf("row args: %v", err)
	}
	want := []any{"2025-02-15", "19", "38", 1, 1250.0, 320.5}
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d", len(args), len(want))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d = %v, want %v", i, args[i], want[i])
		}
	}
}

func TestRowArgsShapeMismatch(t *testing.T) {
	shape := sampleRow()
	other := sampleRow()
	other.Values[0].Name = "yieldtoday"
	if _, err := rowArgs(shape, other); err == nil {
		t.Fatal("expected error for mismatched column names")
	}
	short := sampleRow()
	short.Values = short.Values[:1]
	if _, err := rowArgs(shape, short); err == nil {
		t.Fatal("expected error for mismatched column counts")
	}
}
