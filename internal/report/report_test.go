package report

import (
	"bytes"
	"testing"
	"time"
)

func sampleReport() *DayReport {
	rep := &DayReport{
		InverterID: 7,
		SiteName:   "Rooftop South",
		Day:        time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
		Samples: []Sample{
			{Periodo: "09", Min: "00", ACPower: 400, FeedInPower: -120, YieldToday: 0.8},
			{Periodo: "12", Min: "15", ACPower: 1800, FeedInPower: 410, YieldToday: 4.1},
			{Periodo: "15", Min: "30", ACPower: 1200, FeedInPower: 230, YieldToday: 6.5},
		},
		GeneratedAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	rep.aggregate()
	return rep
}

func TestAggregate(t *testing.T) {
	rep := sampleReport()
	if rep.PeakACPower != 1800 {
		t.Errorf("PeakACPower = %v", rep.PeakACPower)
	}
	if rep.MaxFeedIn != 410 || rep.MinFeedIn != -120 {
		t.Errorf("feed-in range = %v..%v", rep.MinFeedIn, rep.MaxFeedIn)
	}
	if rep.YieldKWh != 6.5 {
		t.Errorf("YieldKWh = %v, want last cumulative sample", rep.YieldKWh)
	}
}

func TestBuildDayPDF(t *testing.T) {
	data, err := BuildDayPDF(sampleReport())
	if err != nil {
		t.Fatalf("BuildDayPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output is not a PDF (starts %q)", data[:4])
	}
}

func TestBuildDayXLSX(t *testing.T) {
	data, err := BuildDayXLSX(sampleReport())
	if err != nil {
		t.Fatalf("BuildDayXLSX: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("output is not a zip container (starts %q)", data[:2])
	}
}
