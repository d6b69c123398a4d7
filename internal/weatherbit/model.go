// Package weatherbit polls the Weatherbit current-conditions API and persists
// the normalized observations.
package weatherbit

import "errors"

// Condition is the nested weather descriptor.
type Condition struct {
	Icon        string `json:"icon"`
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// Observation is one entry of the current-conditions data list. Weatherbit
// reports solar irradiance components alongside the usual surface fields,
// which is what makes it interesting next to a PV installation.
type Observation struct {
	Station      string    `json:"station"`
	CityName     string    `json:"city_name"`
	CountryCode  string    `json:"country_code"`
	StateCode    string    `json:"state_code"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Temp         float64   `json:"temp"`
	AppTemp      float64   `json:"app_temp"`
	Dewpt        float64   `json:"dewpt"`
	RH           int       `json:"rh"`
	Pres         float64   `json:"pres"`
	SLP          float64   `json:"slp"`
	Clouds       int       `json:"clouds"`
	Vis          float64   `json:"vis"`
	Precip       float64   `json:"precip"`
	Snow         float64   `json:"snow"`
	UV           float64   `json:"uv"`
	AQI          int       `json:"aqi"`
	GHI          float64   `json:"ghi"`
	DNI          float64   `json:"dni"`
	DHI          float64   `json:"dhi"`
	SolarRad     float64   `json:"solar_rad"`
	ElevAngle    float64   `json:"elev_angle"`
	HAngle       float64   `json:"h_angle"`
	Pod          string    `json:"pod"`
	WindSpd      float64   `json:"wind_spd"`
	WindGust     *float64  `json:"gust"`
	WindDir      int       `json:"wind_dir"`
	WindCdir     string    `json:"wind_cdir"`
	WindCdirFull string    `json:"wind_cdir_full"`
	Weather      Condition `json:"weather"`
	Sunrise      string    `json:"sunrise"`
	Sunset       string    `json:"sunset"`
	ObTime       string    `json:"ob_time"`
	TS           int64     `json:"ts"`
	Sources      []string  `json:"sources"`
}

// CurrentResponse is the current-conditions payload.
type CurrentResponse struct {
	Count int           `json:"count"`
	Data  []Observation `json:"data"`
}

// Validate reports contract drift on fields every observation must carry.
func (r *CurrentResponse) Validate() error {
	if len(r.Data) == 0 {
		return errors.New("weatherbit: response contains no observations")
	}
	for i := range r.Data {
		if r.Data[i].Station == "" {
			return errors.New("weatherbit: observation missing station id")
		}
	}
	return nil
}
