// Package paths resolves the platform-specific directories hostscout
// reads configuration and data from.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the config directory for hostscout.
// Order: XDG_CONFIG_HOME/hostscout, platform-specific fallback.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hostscout")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, "Hostscout")
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hostscout")
}

// DataDir returns the data directory for hostscout.
// Order: XDG_DATA_HOME/hostscout, platform-specific fallback.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "hostscout")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, "Hostscout")
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "hostscout")
}

// DefaultConfigFile returns the conventional config file location, or ""
// when no config file exists there.
func DefaultConfigFile() string {
	path := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
