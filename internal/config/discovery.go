package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "SIMDECK_CONFIG"

// Discover finds the config file by checking standard locations.
// Priority order: $SIMDECK_CONFIG, ~/.config/simdeck/config.yaml, ./simdeck.yaml.
// It returns "" and no error when nothing is found; callers fall back to Defaults().
func Discover() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("$%s points at %s: %w", EnvConfigPath, p, err)
		}
		return p, nil
	}

	for _, candidate := range candidatePaths() {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

func candidatePaths() []string {
	var out []string
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".config", "simdeck", "config.yaml"))
	}
	return append(out, "simdeck.yaml")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadOrDefault loads path if set, otherwise the discovered file, otherwise
// Defaults().
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		found, err := Discover()
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}
