// Package config defines process configuration and the trip catalog, and
// loads both with koanf.
package config

import (
	"time"
)

// Config contains process configuration and the catalog of categories,
// venues and trips.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr is the status/metrics listen address. Empty disables it.
	Addr string `koanf:"addr"`

	// RedocURL overrides where the /api-docs page loads ReDoc from.
	RedocURL string `koanf:"redoc_url"`

	// Seed fixes the random source. Zero picks a random seed.
	Seed int64 `koanf:"seed"`

	// Timezone is the IANA zone all visit times are computed in.
	Timezone string `koanf:"timezone"`

	// DryRun logs visits instead of sending them.
	DryRun bool `koanf:"dry_run"`

	// QueueCapacity bounds the event queue.
	QueueCapacity int `koanf:"queue_capacity"`

	Foursquare Foursquare `koanf:"foursquare"`

	Categories map[string]CategorySpec `koanf:"categories"`
	Venues     map[string]VenueSpec    `koanf:"venues"`
	Trips      []TripSpec              `koanf:"trips"`
}

// Foursquare holds API and OAuth settings.
type Foursquare struct {
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	RedirectURI  string        `koanf:"redirect_uri"`
	AccessToken  string        `koanf:"access_token"`
	APIVersion   string        `koanf:"api_version"`
	APIBase      string        `koanf:"api_base"`
	AuthBase     string        `koanf:"auth_base"`
	Timeout      time.Duration `koanf:"timeout"`
}

// CategorySpec is a category as written in the file. Omitted fields take
// the model defaults.
type CategorySpec struct {
	CheckIn      []int    `koanf:"check_in"`
	CheckOut     []int    `koanf:"check_out"`
	TransitHours *float64 `koanf:"transit_hours"`
}

// VenueSpec names a category and carries the external venue id.
type VenueSpec struct {
	Category string `koanf:"category"`
	ID       string `koanf:"id"`
}

// TripSpec lists venue names in arrival order.
type TripSpec struct {
	Name      string   `koanf:"name"`
	Checkins  []string `koanf:"checkins"`
	Checkouts []string `koanf:"checkouts"`
}

// New returns a Config populated with defaults and an empty catalog.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		Timezone:      "Local",
		QueueCapacity: 10_000,
		Foursquare: Foursquare{
			APIVersion: "20240101",
			APIBase:    "https://api.foursquare.com",
			AuthBase:   "https://foursquare.com",
			Timeout:    15 * time.Second,
		},
		Categories: map[string]CategorySpec{},
		Venues:     map[string]VenueSpec{},
	}
}
