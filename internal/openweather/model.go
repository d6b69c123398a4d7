// Package openweather polls the OpenWeather current-weather and air-pollution
// APIs and persists the normalized observations.
package openweather

import "errors"

// Coord is a geographic coordinate pair.
type Coord struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Condition is one entry of the weather condition list.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// MainWeather carries the principal observation values. Sea-level and
// ground-level pressure are optional.
type MainWeather struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
	SeaLevel  *int    `json:"sea_level"`
	GrndLevel *int    `json:"grnd_level"`
}

// Wind is the optional wind block.
type Wind struct {
	Speed float64  `json:"speed"`
	Deg   int      `json:"deg"`
	Gust  *float64 `json:"gust"`
}

// Clouds is the optional cloud-cover block.
type Clouds struct {
	All int `json:"all"`
}

// Rain carries optional rain volumes.
type Rain struct {
	OneH   *float64 `json:"1h"`
	ThreeH *float64 `json:"3h"`
}

// Sys carries country and sun times.
type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// CurrentResponse is the current-weather payload.
type CurrentResponse struct {
	Coord      Coord        `json:"coord"`
	Weather    []Condition  `json:"weather"`
	Main       *MainWeather `json:"main"`
	Visibility *int         `json:"visibility"`
	Wind       *Wind        `json:"wind"`
	Rain       *Rain        `json:"rain"`
	Clouds     *Clouds      `json:"clouds"`
	DT         int64        `json:"dt"`
	Sys        *Sys         `json:"sys"`
	Timezone   int          `json:"timezone"`
	CityID     int64        `json:"id"`
	Name       string       `json:"name"`
}

// Validate reports contract drift on fields the provider guarantees.
func (r *CurrentResponse) Validate() error {
	if r.Main == nil {
		return errors.New("openweather: current response missing main block")
	}
	if r.Sys == nil {
		return errors.New("openweather: current response missing sys block")
	}
	if len(r.Weather) == 0 {
		return errors.New("openweather: current response missing weather conditions")
	}
	if r.Name == "" {
		return errors.New("openweather: current response missing city name")
	}
	return nil
}

// PollutionComponents are the measured pollutant concentrations.
type PollutionComponents struct {
	CO   float64 `json:"co"`
	NO   float64 `json:"no"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	SO2  float64 `json:"so2"`
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	NH3  float64 `json:"nh3"`
}

// PollutionItem is one air-quality measurement.
type PollutionItem struct {
	DT   int64 `json:"dt"`
	Main struct {
		AQI int `json:"aqi"`
	} `json:"main"`
	Components PollutionComponents `json:"components"`
}

// AirPollutionResponse is the air-pollution payload.
type AirPollutionResponse struct {
	Coord Coord           `json:"coord"`
	List  []PollutionItem `json:"list"`
}

// Validate reports an empty measurement list, which the contract forbids.
func (r *AirPollutionResponse) Validate() error {
	if len(r.List) == 0 {
		return errors.New("openweather: air pollution response contains no measurements")
	}
	return nil
}
