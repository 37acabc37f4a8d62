// Package paths resolves the configuration and data directory locations.
// The config directory holds config.yaml; the data directory receives the
// terminal grid's log file and rendered images written without an explicit
// path.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "griddle"

// File names inside the resolved directories.
const (
	ConfigFileName = "config.yaml"
	LogFileName    = "griddle.log"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "GRIDDLE_CONFIG_DIR"
	EnvDataDir   = "GRIDDLE_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/griddle (fallback ~/.config/griddle)
// macOS:   ~/Library/Application Support/griddle
// Windows: %APPDATA%/griddle
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	default:
		// ~/Library/Application Support on macOS, %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/griddle (fallback ~/.local/share/griddle)
// macOS:   ~/Library/Application Support/griddle
// Windows: %APPDATA%/griddle
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > GRIDDLE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > data_dir in config.yaml > GRIDDLE_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// ConfigFile returns the path of config.yaml inside dir.
func ConfigFile(dir string) string { return filepath.Join(dir, ConfigFileName) }

// LogFile returns the path of the terminal grid's log inside dir.
func LogFile(dir string) string { return filepath.Join(dir, LogFileName) }
