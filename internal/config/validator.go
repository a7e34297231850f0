package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"json", "text"}
	validOutputFormats = []string{"json", "human"}
	validStateDrivers  = []string{"sqlite", "redis"}
)

// ConfigValidator checks a fully defaulted Config.
type ConfigValidator struct {
	config *Config
}

// Validate runs every section check and returns the first problem found.
func (v *ConfigValidator) Validate() error {
	checks := []func() error{
		v.validateService,
		v.validateState,
		v.validateDefaults,
		v.validateUpload,
		v.validateBackend,
		v.validateAPI,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (v *ConfigValidator) validateService() error {
	s := v.config.Service
	if !slices.Contains(validLogLevels, strings.ToLower(s.LogLevel)) {
		return fmt.Errorf("service.log_level %q must be one of %s", s.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validLogFormats, s.LogFormat) {
		return fmt.Errorf("service.log_format %q must be one of %s", s.LogFormat, strings.Join(validLogFormats, ", "))
	}
	if !slices.Contains(validOutputFormats, s.OutputFormat) {
		return fmt.Errorf("service.output_format %q must be one of %s", s.OutputFormat, strings.Join(validOutputFormats, ", "))
	}
	return nil
}

func (v *ConfigValidator) validateState() error {
	s := v.config.State
	if !slices.Contains(validStateDrivers, s.Driver) {
		return fmt.Errorf("state.driver %q must be one of %s", s.Driver, strings.Join(validStateDrivers, ", "))
	}
	switch s.Driver {
	case "sqlite":
		if s.Path == "" {
			return fmt.Errorf("state.path is required for the sqlite driver")
		}
	case "redis":
		if s.Redis.Addr == "" {
			return fmt.Errorf("state.redis.addr is required for the redis driver")
		}
		if s.Redis.DB < 0 {
			return fmt.Errorf("state.redis.db must not be negative")
		}
		if err := checkUnresolved("state.redis.password", s.Redis.Password); err != nil {
			return err
		}
	}
	return nil
}

// validateDefaults rejects incomplete or duplicate configurations.
func (v *ConfigValidator) validateDefaults() error {
	seen := make(map[string]int)
	for i, cfg := range v.config.Defaults.DeviceConfigurations() {
		if cfg.Device == "" {
			return fmt.Errorf("defaults.configurations[%d]: device is required", i)
		}
		if cfg.OS == "" {
			return fmt.Errorf("defaults.configurations[%d]: os is required", i)
		}
		if prev, dup := seen[cfg.Key()]; dup {
			return fmt.Errorf("defaults.configurations[%d]: duplicates entry %d (%s)", i, prev, cfg)
		}
		seen[cfg.Key()] = i
	}
	return nil
}

func (v *ConfigValidator) validateUpload() error {
	u := v.config.Upload
	if u.AuxDir == "" {
		return fmt.Errorf("upload.aux_dir is required")
	}
	if u.MediaPattern != "" {
		if _, err := regexp.Compile(u.MediaPattern); err != nil {
			return fmt.Errorf("upload.media_pattern: %w", err)
		}
	}
	return nil
}

func (v *ConfigValidator) validateBackend() error {
	b := v.config.Backend
	if b.Xcrun == "" {
		return fmt.Errorf("backend.xcrun is required")
	}
	t := b.Timeouts
	for name, d := range map[string]int64{
		"default": int64(t.Default),
		"boot":    int64(t.Boot),
		"create":  int64(t.Create),
		"erase":   int64(t.Erase),
	} {
		if d <= 0 {
			return fmt.Errorf("backend.timeouts.%s must be positive", name)
		}
	}
	return nil
}

func (v *ConfigValidator) validateAPI() error {
	if v.config.API.Listen == "" {
		return fmt.Errorf("api.listen is required")
	}
	return checkUnresolved("api.api_key", v.config.API.APIKey)
}

// checkUnresolved reports a ${VAR} placeholder left behind by interpolation.
func checkUnresolved(field, value string) error {
	if m := envVarPattern.FindStringSubmatch(value); m != nil {
		return fmt.Errorf("%s references unset environment variable %s", field, m[1])
	}
	return nil
}
