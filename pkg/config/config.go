// Package config loads and validates coldtrack's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can use "2s" / "500ms".
type Duration time.Duration

// UnmarshalYAML parses Go duration strings
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// BackendConfig holds delivery-backend connection settings
type BackendConfig struct {
	BaseURL    string `yaml:"base_url" validate:"required,url"`
	Token      string `yaml:"token"`
	NationalID string `yaml:"national_id"`
}

// RoutingConfig holds the OSRM-compatible routing service settings
type RoutingConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
}

// TrackingConfig holds the cadences and movement thresholds of a
// tracking session
type TrackingConfig struct {
	PollInterval      Duration `yaml:"poll_interval"`
	CountdownInterval Duration `yaml:"countdown_interval"`
	NotificationEvery int      `yaml:"notification_every" validate:"min=1"`
	JitterMeters      float64  `yaml:"jitter_meters"`
	RerouteMeters     float64  `yaml:"reroute_meters"`
	RouteMinInterval  Duration `yaml:"route_min_interval"`
	HTTPTimeout       Duration `yaml:"http_timeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// Config is the full coldtrack configuration
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Routing  RoutingConfig  `yaml:"routing"`
	Tracking TrackingConfig `yaml:"tracking"`
	Log      LogConfig      `yaml:"log"`
	DataDir  string         `yaml:"data_dir"`
}

// Default returns the standard tracking cadences and thresholds.
// Backend and routing URLs have no defaults and must be configured.
func Default() Config {
	return Config{
		Tracking: TrackingConfig{
			PollInterval:      Duration(2 * time.Second),
			CountdownInterval: Duration(time.Second),
			NotificationEvery: 5,
			JitterMeters:      8,
			RerouteMeters:     30,
			RouteMinInterval:  Duration(6 * time.Second),
			HTTPTimeout:       Duration(7 * time.Second),
		},
		Log:     LogConfig{Level: "info"},
		DataDir: ".",
	}
}

// Load reads, defaults, and validates a YAML config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyDefaults restores defaults for fields the file zeroed out
func (c *Config) applyDefaults() {
	def := Default()
	if c.Tracking.PollInterval <= 0 {
		c.Tracking.PollInterval = def.Tracking.PollInterval
	}
	if c.Tracking.CountdownInterval <= 0 {
		c.Tracking.CountdownInterval = def.Tracking.CountdownInterval
	}
	if c.Tracking.NotificationEvery <= 0 {
		c.Tracking.NotificationEvery = def.Tracking.NotificationEvery
	}
	if c.Tracking.JitterMeters <= 0 {
		c.Tracking.JitterMeters = def.Tracking.JitterMeters
	}
	if c.Tracking.RerouteMeters <= 0 {
		c.Tracking.RerouteMeters = def.Tracking.RerouteMeters
	}
	if c.Tracking.RouteMinInterval <= 0 {
		c.Tracking.RouteMinInterval = def.Tracking.RouteMinInterval
	}
	if c.Tracking.HTTPTimeout <= 0 {
		c.Tracking.HTTPTimeout = def.Tracking.HTTPTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
}
