// Package solax polls the SolaxCloud real-time API and persists inverter
// energy, phase-power and battery measurements.
package solax

import "fmt"

// RealTimeResult is the validated payload of a real-time data response.
// Pointer fields are optional per the provider contract and persist as NULL.
type RealTimeResult struct {
	InverterSN     string   `json:"inverterSN"`
	SN             string   `json:"sn"`
	ACPower        float64  `json:"acpower"`
	YieldToday     float64  `json:"yieldtoday"`
	YieldTotal     float64  `json:"yieldtotal"`
	FeedInPower    float64  `json:"feedinpower"`
	FeedInEnergy   float64  `json:"feedinenergy"`
	ConsumeEnergy  float64  `json:"consumeenergy"`
	FeedInPowerM2  *float64 `json:"feedinpowerM2"`
	SOC            *float64 `json:"soc"`
	PEPS1          *float64 `json:"peps1"`
	PEPS2          *float64 `json:"peps2"`
	PEPS3          *float64 `json:"peps3"`
	InverterType   string   `json:"inverterType"`
	InverterStatus string   `json:"inverterStatus"`
	UploadTime     string   `json:"uploadTime"` // "YYYY-MM-DD HH:MM:SS"
	BatPower       *float64 `json:"batPower"`
	PowerDC1       float64  `json:"powerdc1"`
	PowerDC2       float64  `json:"powerdc2"`
	PowerDC3       *float64 `json:"powerdc3"`
	PowerDC4       *float64 `json:"powerdc4"`
	BatStatus      *string  `json:"batStatus"`
	UTCDateTime    string   `json:"utcDateTime"`
}

// RealTimeResponse is the provider envelope.
type RealTimeResponse struct {
	Success   bool            `json:"success"`
	Exception string          `json:"exception"`
	Result    *RealTimeResult `json:"result"`
	Code      int             `json:"code"`
}

// Validate reports provider-contract drift: fields the contract guarantees
// that are nonetheless absent. Optional fields are never checked here.
func (r *RealTimeResult) Validate() error {
	if r.InverterSN == "" {
		return fmt.Errorf("solax: response missing inverterSN")
	}
	if r.UploadTime == "" {
		return fmt.Errorf("solax: response missing uploadTime for inverter %s", r.InverterSN)
	}
	return nil
}
