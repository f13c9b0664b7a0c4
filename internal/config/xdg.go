package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or its conventional default.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config location.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "leettrack", "config.toml")
}
