package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads, interpolates, defaults and validates a config file.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path, set $%s, or run with --config", absPath, EnvConfigPath)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", absPath, err)
	}
	cfg.SourcePath = absPath

	cfg = applyConfigDefaults(cfg)
	resolveRelativePaths(cfg, filepath.Dir(absPath))

	if err := (&ConfigValidator{config: cfg}).Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	interpolated := interpolateEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(interpolated)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// An empty file decodes to io.EOF; treat it as all defaults.
		if strings.TrimSpace(interpolated) == "" {
			return &Config{}, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func applyConfigDefaults(cfg *Config) *Config {
	defaults := Defaults()

	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = defaults.Service.LogLevel
	}
	if cfg.Service.LogFormat == "" {
		cfg.Service.LogFormat = defaults.Service.LogFormat
	}
	if cfg.Service.OutputFormat == "" {
		cfg.Service.OutputFormat = defaults.Service.OutputFormat
	}

	if cfg.State.Driver == "" {
		cfg.State.Driver = defaults.State.Driver
	}
	if cfg.State.Path == "" {
		cfg.State.Path = defaults.State.Path
	}
	if cfg.State.Redis.Addr == "" {
		cfg.State.Redis.Addr = defaults.State.Redis.Addr
	}
	if cfg.State.Redis.Prefix == "" {
		cfg.State.Redis.Prefix = defaults.State.Redis.Prefix
	}

	if cfg.Upload.AuxDir == "" {
		cfg.Upload.AuxDir = defaults.Upload.AuxDir
	}

	if cfg.Backend.Xcrun == "" {
		cfg.Backend.Xcrun = defaults.Backend.Xcrun
	}
	t, dt := &cfg.Backend.Timeouts, defaults.Backend.Timeouts
	if t.Default == 0 {
		t.Default = dt.Default
	}
	if t.Boot == 0 {
		t.Boot = dt.Boot
	}
	if t.Create == 0 {
		t.Create = dt.Create
	}
	if t.Erase == 0 {
		t.Erase = dt.Erase
	}

	if cfg.API.Listen == "" {
		cfg.API.Listen = defaults.API.Listen
	}
	return cfg
}

// resolveRelativePaths anchors relative state and artifact paths to the
// directory holding the config file.
func resolveRelativePaths(cfg *Config, baseDir string) {
	for _, p := range []*string{&cfg.State.Path, &cfg.Upload.AuxDir, &cfg.Backend.DeviceSet} {
		if *p == "" {
			continue
		}
		*p = expandHome(*p)
		if !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// interpolateEnv replaces ${VAR} with environment variable values.
// Unknown variables are left in place so validation can name them.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}
