// Package config loads the application configuration from a YAML file with
// environment-variable overrides for credentials. A .env file next to the
// binary is honored for local runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "60m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard-library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the application configuration.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Solax       SolaxConfig       `yaml:"solax"`
	OpenWeather OpenWeatherConfig `yaml:"openweather"`
	Weatherbit  WeatherbitConfig  `yaml:"weatherbit"`
	Notify      NotifyConfig      `yaml:"notify"`
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RateConfig holds the per-source admission policy.
type RateConfig struct {
	DailyLimit  int      `yaml:"daily_limit,omitempty"`
	MinInterval Duration `yaml:"min_interval,omitempty"`
}

// SolaxConfig holds the SolaxCloud source settings.
type SolaxConfig struct {
	APIURL  string     `yaml:"api_url,omitempty"`
	TokenID string     `yaml:"token_id,omitempty"`
	WifiSN  string     `yaml:"wifi_sn,omitempty"`
	Rate    RateConfig `yaml:"rate,omitempty"`
}

// OpenWeatherConfig holds the OpenWeather source settings.
type OpenWeatherConfig struct {
	CurrentURL      string     `yaml:"current_url,omitempty"`
	AirPollutionURL string     `yaml:"air_pollution_url,omitempty"`
	APIKey          string     `yaml:"api_key,omitempty"`
	Lat             float64    `yaml:"lat"`
	Lon             float64    `yaml:"lon"`
	Units           string     `yaml:"units,omitempty"`
	Lang            string     `yaml:"lang,omitempty"`
	Rate            RateConfig `yaml:"rate,omitempty"`
}

// WeatherbitConfig holds the Weatherbit source settings.
type WeatherbitConfig struct {
	APIURL string     `yaml:"api_url,omitempty"`
	APIKey string     `yaml:"api_key,omitempty"`
	Lat    float64    `yaml:"lat"`
	Lon    float64    `yaml:"lon"`
	Units  string     `yaml:"units,omitempty"`
	Lang   string     `yaml:"lang,omitempty"`
	Rate   RateConfig `yaml:"rate,omitempty"`
}

// NotifyConfig holds the ntfy sender and debounce settings.
type NotifyConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Server         string   `yaml:"server,omitempty"`
	Topic          string   `yaml:"topic,omitempty"`
	Username       string   `yaml:"username,omitempty"`
	Password       string   `yaml:"password,omitempty"`
	ExcessMargin   float64  `yaml:"excess_margin,omitempty"`
	RepeatInterval Duration `yaml:"repeat_interval,omitempty"`
}

// Defaults that apply when the file leaves a field unset.
const (
	defaultSolaxAPIURL      = "https://www.solaxcloud.com/proxyApp/proxy/api/getRealtimeInfo.do"
	defaultCurrentURL       = "https://api.openweathermap.org/data/2.5/weather"
	defaultAirPollutionURL  = "https://api.openweathermap.org/data/2.5/air_pollution"
	defaultWeatherbitAPIURL = "https://api.weatherbit.io/v2.0/current"
	defaultNtfyServer       = "https://ntfy.sh"

	defaultDailyLimit     = 10
	defaultMinInterval    = 60 * time.Minute
	defaultExcessMargin   = 50.0
	defaultRepeatInterval = 6 * time.Hour
)

// Load reads the config file, applies defaults and environment overrides.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// DefaultConfigPath returns the default config file path (local directory).
func DefaultConfigPath() string {
	return "config.yaml"
}

func (c *Config) applyDefaults() {
	if c.Solax.APIURL == "" {
		c.Solax.APIURL = defaultSolaxAPIURL
	}
	if c.OpenWeather.CurrentURL == "" {
		c.OpenWeather.CurrentURL = defaultCurrentURL
	}
	if c.OpenWeather.AirPollutionURL == "" {
		c.OpenWeather.AirPollutionURL = defaultAirPollutionURL
	}
	if c.Weatherbit.APIURL == "" {
		c.Weatherbit.APIURL = defaultWeatherbitAPIURL
	}
	if c.Notify.Server == "" {
		c.Notify.Server = defaultNtfyServer
	}
	if c.Notify.ExcessMargin <= 0 {
		c.Notify.ExcessMargin = defaultExcessMargin
	}
	if c.Notify.RepeatInterval <= 0 {
		c.Notify.RepeatInterval = Duration(defaultRepeatInterval)
	}
	for _, r := range []*RateConfig{&c.Solax.Rate, &c.OpenWeather.Rate, &c.Weatherbit.Rate} {
		if r.DailyLimit <= 0 {
			r.DailyLimit = defaultDailyLimit
		}
		if r.MinInterval <= 0 {
			r.MinInterval = Duration(defaultMinInterval)
		}
	}
}

// applyEnv lets credentials live outside the config file.
func (c *Config) applyEnv() {
	overrides := []struct {
		env  string
		dest *string
	}{
		{"SOLARHUB_DB_DSN", &c.Database.DSN},
		{"SOLAX_TOKEN_ID", &c.Solax.TokenID},
		{"SOLAX_WIFI_SN", &c.Solax.WifiSN},
		{"OPENWEATHER_API_KEY", &c.OpenWeather.APIKey},
		{"WEATHERBIT_API_KEY", &c.Weatherbit.APIKey},
		{"NTFY_USERNAME", &c.Notify.Username},
		{"NTFY_PASSWORD", &c.Notify.Password},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dest = v
		}
	}
}

// Validate checks the fields every run needs. Source credentials are checked
// lazily by the sources themselves so a partial setup can still poll the
// providers it has keys for.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("config: database dsn is required (database.dsn or SOLARHUB_DB_DSN)")
	}
	if c.Notify.Enabled && c.Notify.Topic == "" {
		return errors.New("config: notify.topic is required when notifications are enabled")
	}
	return nil
}
