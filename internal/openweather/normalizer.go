package openweather

import (
	"solarhub/internal/measurement"
	"solarhub/internal/timekey"
)

// Tables the weather responses normalize into.
const (
	TableCurrentWeather = "current_weather"
	TableAirPollution   = "air_pollution"
)

// CurrentWeatherRow maps the current-weather response onto its table, keyed by
// the observation time bucket and the provider's city id.
func CurrentWeatherRow(res *CurrentResponse, key timekey.Key) measurement.Row {
	row := measurement.Row{
		Keys: []measurement.Column{
			{Name: "fecha", Value: key.Date},
			{Name: "periodo", Value: key.Hour},
			{Name: "min", Value: key.Minute},
			{Name: "city_id", Value: res.CityID},
		},
		Values: []measurement.Column{
			{Name: "city_name", Value: res.Name},
			{Name: "country", Value: res.Sys.Country},
			{Name: "lat", Value: res.Coord.Lat},
			{Name: "lon", Value: res.Coord.Lon},
			{Name: "weather_main", Value: res.Weather[0].Main},
			{Name: "weather_description", Value: res.Weather[0].Description},
			{Name: "weather_icon", Value: res.Weather[0].Icon},
			{Name: "temp", Value: res.Main.Temp},
			{Name: "feels_like", Value: res.Main.FeelsLike},
			{Name: "temp_min", Value: res.Main.TempMin},
			{Name: "temp_max", Value: res.Main.TempMax},
			{Name: "pressure", Value: res.Main.Pressure},
			{Name: "humidity", Value: res.Main.Humidity},
			{Name: "sea_level", Value: res.Main.SeaLevel},
			{Name: "grnd_level", Value: res.Main.GrndLevel},
			{Name: "visibility", Value: res.Visibility},
			{Name: "timezone", Value: res.Timezone},
			{Name: "sunrise", Value: res.Sys.Sunrise},
			{Name: "sunset", Value: res.Sys.Sunset},
			{Name: "dt", Value: res.DT},
		},
	}
	var windSpeed, windGust *float64
	var windDeg *int
	if res.Wind != nil {
		speed, deg := res.Wind.Speed, res.Wind.Deg
		windSpeed, windDeg, windGust = &speed, &deg, res.Wind.Gust
	}
	var clouds *int
	if res.Clouds != nil {
		all := res.Clouds.All
		clouds = &all
	}
	var rain1h, rain3h *float64
	if res.Rain != nil {
		rain1h, rain3h = res.Rain.OneH, res.Rain.ThreeH
	}
	row.Values = append(row.Values,
		measurement.Column{Name: "wind_speed", Value: windSpeed},
		measurement.Column{Name: "wind_deg", Value: windDeg},
		measurement.Column{Name: "wind_gust", Value: windGust},
		measurement.Column{Name: "clouds", Value: clouds},
		measurement.Column{Name: "rain_1h", Value: rain1h},
		measurement.Column{Name: "rain_3h", Value: rain3h},
	)
	return row
}

// AirPollutionRows maps the air-pollution response onto its table, one row
// per measurement in the list, keyed by the poll bucket and the measurement's
// own unix timestamp.
func AirPollutionRows(res *AirPollutionResponse, key timekey.Key) []measurement.Row {
	rows := make([]measurement.Row, 0, len(res.List))
	for _, item := range res.List {
		rows = append(rows, measurement.Row{
			Keys: []measurement.Column{
				{Name: "fecha", Value: key.Date},
				{Name: "periodo", Value: key.Hour},
				{Name: "min", Value: key.Minute},
				{Name: "dt", Value: item.DT},
			},
			Values: []measurement.Column{
				{Name: "lat", Value: res.Coord.Lat},
				{Name: "lon", Value: res.Coord.Lon},
				{Name: "aqi", Value: item.Main.AQI},
				{Name: "co", Value: item.Components.CO},
				{Name: "no", Value: item.Components.NO},
				{Name: "no2", Value: item.Components.NO2},
				{Name: "o3", Value: item.Components.O3},
				{Name: "so2", Value: item.Components.SO2},
				{Name: "pm2_5", Value: item.Components.PM25},
				{Name: "pm10", Value: item.Components.PM10},
				{Name: "nh3", Value: item.Components.NH3},
			},
		})
	}
	return rows
}
