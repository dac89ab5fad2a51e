package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name searched for.
const FileName = "config.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	applyFlags(cfg)
	cfg.Normalize()
	return cfg, nil
}

// LoadFile loads defaults merged with the file at path, ignoring flags.
// An empty path yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	cfg.Normalize()
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "AstraMesh")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "AstraMesh")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "astramesh")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "astramesh")
	}
}

// loadFromFile merges a YAML file over the values already in cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
