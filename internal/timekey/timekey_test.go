package timekey

import (
	"errors"
	"testing"
)

func TestDeriveValid(t *testing.T) {
	cases := []struct {
		input  string
		date   string
		hour   string
		minute string
	}{
		{"2025-02-15 19:38:40", "2025-02-15", "19", "38"},
		{"2025-02-15 00:00:00", "2025-02-15", "00", "00"},
		{"2024-12-31 23:59:59", "2024-12-31", "23", "59"},
		{"2025-06-01 07:05:09", "2025-06-01", "07", "05"},
	}
	for _, tc := range cases {
		key, err := Derive(tc.input)
		if err != nil {
			t.Fatalf("Derive(%q): unexpected error %v", tc.input, err)
		}
		if key.Date != tc.date || key.Hour != tc.hour || key.Minute != tc.minute {
			t.Fatalf("Derive(%q) = %+v, want {%s %s %s}", tc.input, key, tc.date, tc.hour, tc.minute)
		}
	}
}

func TestDeriveDeterministic(t *testing.T) {
	first, err := Derive("2025-02-15 19:38:40")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Derive("2025-02-15 19:38:40")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical keys, got %+v and %+v", first, second)
	}
}

func TestDeriveMalformed(t *testing.T) {
	inputs := []string{
		"",
		"2025-02-15",
		"19:38:40",
		"2025-02-15T19:38:40Z",
		"2025-2-15 19:38:40",
		"2025-02-15 19:38",
		"2025-02-15 9:38:40",
		"not a timestamp",
		"2025-13-40 19:38:40",
	}
	for _, input := range inputs {
		key, err := Derive(input)
		if err == nil {
			t.Fatalf("Derive(%q): expected error, got key %+v", input, key)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("Derive(%q): expected *ParseError, got %T", input, err)
		}
		if parseErr.Input != input {
			t.Fatalf("ParseError.Input = %q, want %q", parseErr.Input, input)
		}
		if key != (Key{}) {
			t.Fatalf("Derive(%q): expected zero key alongside error, got %+v", input, key)
		}
	}
}
