package solax

import (
	"solarhub/internal/measurement"
	"solarhub/internal/timekey"
)

// Tables the inverter response normalizes into.
const (
	TableEnergy     = "energy_data"
	TablePhasePower = "phase_power_data"
	TableBattery    = "battery_data"
)

func naturalKey(key timekey.Key, inverterID int64) []measurement.Column {
	return []measurement.Column{
		{Name: "fecha", Value: key.Date},
		{Name: "periodo", Value: key.Hour},
		{Name: "min", Value: key.Minute},
		{Name: "inverter_id", Value: inverterID},
	}
}

// EnergyRow maps the response onto the energy table.
func EnergyRow(res *RealTimeResult, key timekey.Key, inverterID int64) measurement.Row {
	return measurement.Row{
		Keys: naturalKey(key, inverterID),
		Values: []measurement.Column{
			{Name: "acpower", Value: res.ACPower},
			{Name: "yieldtoday", Value: res.YieldToday},
			{Name: "yieldtotal", Value: res.YieldTotal},
			{Name: "feedinpower", Value: res.FeedInPower},
			{Name: "feedinenergy", Value: res.FeedInEnergy},
			{Name: "consumeenergy", Value: res.ConsumeEnergy},
			{Name: "upload_time", Value: res.UploadTime},
		},
	}
}

// PhasePowerRow maps the response onto the phase-power table.
func PhasePowerRow(res *RealTimeResult, key timekey.Key, inverterID int64) measurement.Row {
	return measurement.Row{
		Keys: naturalKey(key, inverterID),
		Values: []measurement.Column{
			{Name: "peps1", Value: res.PEPS1},
			{Name: "peps2", Value: res.PEPS2},
			{Name: "peps3", Value: res.PEPS3},
			{Name: "powerdc1", Value: res.PowerDC1},
			{Name: "powerdc2", Value: res.PowerDC2},
			{Name: "powerdc3", Value: res.PowerDC3},
			{Name: "powerdc4", Value: res.PowerDC4},
			{Name: "upload_time", Value: res.UploadTime},
		},
	}
}

// BatteryRow maps the response onto the battery table. Battery fields are
// absent for inverters without storage and persist as NULL.
func BatteryRow(res *RealTimeResult, key timekey.Key, inverterID int64) measurement.Row {
	return measurement.Row{
		Keys: naturalKey(key, inverterID),
		Values: []measurement.Column{
			{Name: "bat_power", Value: res.BatPower},
			{Name: "soc", Value: res.SOC},
			{Name: "bat_status", Value: res.BatStatus},
			{Name: "upload_time", Value: res.UploadTime},
		},
	}
}
