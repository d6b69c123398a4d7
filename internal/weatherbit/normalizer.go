package weatherbit

import (
	"strings"

	"solarhub/internal/measurement"
	"solarhub/internal/timekey"
)

// TableHourlyWeather is the table the observations normalize into.
const TableHourlyWeather = "hourly_weather"

// ObservationRow maps one observation onto the hourly-weather table, keyed by
// the poll bucket and the reporting station.
func ObservationRow(obs *Observation, key timekey.Key) measurement.Row {
	return measurement.Row{
		Keys: []measurement.Column{
			{Name: "fecha", Value: key.Date},
			{Name: "periodo", Value: key.Hour},
			{Name: "min", Value: key.Minute},
			{Name: "station", Value: obs.Station},
		},
		Values: []measurement.Column{
			{Name: "city_name", Value: obs.CityName},
			{Name: "country_code", Value: obs.CountryCode},
			{Name: "state_code", Value: obs.StateCode},
			{Name: "lat", Value: obs.Lat},
			{Name: "lon", Value: obs.Lon},
			{Name: "temp", Value: obs.Temp},
			{Name: "app_temp", Value: obs.AppTemp},
			{Name: "dewpt", Value: obs.Dewpt},
			{Name: "rh", Value: obs.RH},
			{Name: "pres", Value: obs.Pres},
			{Name: "slp", Value: obs.SLP},
			{Name: "clouds", Value: obs.Clouds},
			{Name: "vis", Value: obs.Vis},
			{Name: "precip", Value: obs.Precip},
			{Name: "snow", Value: obs.Snow},
			{Name: "uv", Value: obs.UV},
			{Name: "aqi", Value: obs.AQI},
			{Name: "ghi", Value: obs.GHI},
			{Name: "dni", Value: obs.DNI},
			{Name: "dhi", Value: obs.DHI},
			{Name: "solar_rad", Value: obs.SolarRad},
			{Name: "elev_angle", Value: obs.ElevAngle},
			{Name: "h_angle", Value: obs.HAngle},
			{Name: "pod", Value: obs.Pod},
			{Name: "wind_spd", Value: obs.WindSpd},
			{Name: "wind_gust", Value: obs.WindGust},
			{Name: "wind_dir", Value: obs.WindDir},
			{Name: "wind_cdir", Value: obs.WindCdir},
			{Name: "wind_cdir_full", Value: obs.WindCdirFull},
			{Name: "weather_icon", Value: obs.Weather.Icon},
			{Name: "weather_code", Value: obs.Weather.Code},
			{Name: "weather_description", Value: obs.Weather.Description},
			{Name: "sunrise", Value: obs.Sunrise},
			{Name: "sunset", Value: obs.Sunset},
			{Name: "ob_time", Value: obs.ObTime},
			{Name: "ts", Value: obs.TS},
			{Name: "sources", Value: strings.Join(obs.Sources, ",")},
		},
	}
}

// ObservationRows maps every observation in the response.
func ObservationRows(res *CurrentResponse, key timekey.Key) []measurement.Row {
	rows := make([]measurement.Row, 0, len(res.Data))
	for i := range res.Data {
		rows = append(rows, ObservationRow(&res.Data[i], key))
	}
	return rows
}
