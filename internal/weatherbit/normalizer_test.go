package weatherbit

import (
	"testing"

	"solarhub/internal/timekey"
)

func TestObservationRowKeysAndSources(t *testing.T) {
	key, err := timekey.Derive("2025-04-30 09:07:03")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	obs := &Observation{
		Station: "E3274",
		Sources: []string{"E3274", "analysis"},
		Weather: Condition{Code: 800, Description: "Clear sky"},
	}
	row := ObservationRow(obs, key)

	wantKeys := map[string]any{"fecha": "2025-04-30", "periodo": "09", "min": "07", "station": "E3274"}
	for _, k := range row.Keys {
		if wantKeys[k.Name] != k.Value {
			t.Errorf("key %s = %v, want %v", k.Name, k.Value, wantKeys[k.Name])
		}
	}
	for _, c := range row.Values {
		switch c.Name {
		case "sources":
			if c.Value != "E3274,analysis" {
				t.Errorf("sources = %v", c.Value)
			}
		case "weather_code":
			if c.Value != 800 {
				t.Errorf("weather_code = %v", c.Value)
			}
		case "wind_gust":
			if p := c.Value.(*float64); p != nil {
				t.Errorf("wind_gust = %v, want nil", *p)
			}
		}
	}
}

func TestObservationRowsOnePerObservation(t *testing.T) {
	key, err := timekey.Derive("2025-04-30 09:07:03")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	res := &CurrentResponse{Count: 2, Data: []Observation{{Station: "A"}, {Station: "B"}}}
	rows := ObservationRows(res, key)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for i, want := range []string{"A", "B"} {
		var got any
		for _, k := range rows[i].Keys {
			if k.Name == "station" {
				got = k.Value
			}
		}
		if got != want {
			t.Errorf("row %d station = %v, want %s", i, got, want)
		}
	}
}
