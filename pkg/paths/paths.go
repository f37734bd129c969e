// Package paths provides the well-known locations overlink reads and
// writes, following the XDG Base Directory specification.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// EnvConfigDir overrides the directory holding the configuration
	// file.
	EnvConfigDir = "OVERLINK_CONFIG_DIR"

	// EnvStateDir overrides the directory holding run state.
	EnvStateDir = "OVERLINK_STATE_DIR"

	// AppDirName is the directory name overlink uses under the XDG
	// base directories.
	AppDirName = "overlink"

	// ConfigFileName is the name of the user configuration file.
	ConfigFileName = "overlink.toml"

	// LogFileName is the name of the log file.
	LogFileName = "overlink.log"
)

// ConfigDir returns the directory holding the configuration file,
// $XDG_CONFIG_HOME/overlink unless OVERLINK_CONFIG_DIR is set.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFile returns the default configuration file path inside
// ConfigDir.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// StateDir returns the directory for run state,
// $XDG_STATE_HOME/overlink unless OVERLINK_STATE_DIR is set.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// LogFile returns the log file path inside StateDir.
func LogFile() string {
	return filepath.Join(StateDir(), LogFileName)
}

// expandHome expands a leading ~ to the home directory. The ~user form
// is not supported and is returned unchanged.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if os.IsPathSeparator(path[1]) {
		return filepath.Join(home, path[2:])
	}
	return path
}
