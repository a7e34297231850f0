package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mattjoyce/simdeck/internal/device"
)

// Config represents the complete simdeck configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	State    StateConfig    `yaml:"state"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Upload   UploadConfig   `yaml:"upload"`
	Backend  BackendConfig  `yaml:"backend"`
	API      APIConfig      `yaml:"api,omitempty"`

	// SourcePath is the file the config was loaded from, empty for Defaults().
	SourcePath string `yaml:"-"`
}

// ServiceConfig defines logging and output settings.
type ServiceConfig struct {
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	OutputFormat string `yaml:"output_format"`
}

// StateConfig selects the defaults store.
type StateConfig struct {
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"`
	Redis  RedisConfig `yaml:"redis,omitempty"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// DefaultsConfig lists the configurations `create --all-missing-defaults`
// should ensure exist.
type DefaultsConfig struct {
	Configurations []ConfigurationSpec `yaml:"configurations"`
}

type ConfigurationSpec struct {
	Name   string `yaml:"name"`
	Device string `yaml:"device"`
	OS     string `yaml:"os"`
}

// UploadConfig controls where non-media artifacts are written.
type UploadConfig struct {
	AuxDir       string `yaml:"aux_dir"`
	MediaPattern string `yaml:"media_pattern"`
}

// BackendConfig configures the simctl subprocess backend.
type BackendConfig struct {
	Xcrun     string         `yaml:"xcrun"`
	DeviceSet string         `yaml:"device_set"`
	Timeouts  TimeoutsConfig `yaml:"timeouts"`
}

// TimeoutsConfig defines command-specific timeouts.
type TimeoutsConfig struct {
	Default time.Duration `yaml:"default"`
	Boot    time.Duration `yaml:"boot"`
	Create  time.Duration `yaml:"create"`
	Erase   time.Duration `yaml:"erase"`
}

// APIConfig defines listen-mode HTTP server settings.
type APIConfig struct {
	Listen string `yaml:"listen"`
	APIKey string `yaml:"api_key"`
}

// DeviceConfigurations converts the defaults section to device values.
func (c DefaultsConfig) DeviceConfigurations() []device.Configuration {
	out := make([]device.Configuration, 0, len(c.Configurations))
	for _, cs := range c.Configurations {
		out = append(out, device.Configuration{Name: cs.Name, Device: cs.Device, OS: cs.OS})
	}
	return out
}

// StateDir is the directory holding the defaults database and target locks.
func (c *Config) StateDir() string {
	if c.State.Path != "" {
		return filepath.Dir(c.State.Path)
	}
	return DefaultStateDir()
}

// DefaultStateDir returns ~/.local/state/simdeck, or ./.simdeck when the home
// directory is unknown.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".simdeck"
	}
	return filepath.Join(home, ".local", "state", "simdeck")
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	stateDir := DefaultStateDir()
	return &Config{
		Service: ServiceConfig{
			LogLevel:     "info",
			LogFormat:    "json",
			OutputFormat: "json",
		},
		State: StateConfig{
			Driver: "sqlite",
			Path:   filepath.Join(stateDir, "defaults.db"),
			Redis: RedisConfig{
				Addr:   "127.0.0.1:6379",
				Prefix: "simdeck:",
			},
		},
		Upload: UploadConfig{
			AuxDir: filepath.Join(stateDir, "artifacts"),
		},
		Backend: BackendConfig{
			Xcrun: "xcrun",
			Timeouts: TimeoutsConfig{
				Default: 60 * time.Second,
				Boot:    180 * time.Second,
				Create:  120 * time.Second,
				Erase:   120 * time.Second,
			},
		},
		API: APIConfig{
			Listen: "127.0.0.1:8787",
		},
	}
}
