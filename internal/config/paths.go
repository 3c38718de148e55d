package config

import (
	"os"
	"path/filepath"
)

// Paths provides all sharpen-related filesystem paths.
type Paths struct {
	ConfigDir  string // ~/.config/sharpen
	StateDir   string // ~/.local/state/sharpen
	ConfigFile string // ~/.config/sharpen/config.yaml
	EnvFile    string // ~/.config/sharpen/.env
	Database   string // ~/.local/state/sharpen/sharpen.db
}

// NewPaths creates Paths under ~/.config and ~/.local/state.
// These are used on every platform for consistency.
func NewPaths() *Paths {
	home := os.Getenv("HOME")
	return NewPathsWithOverrides(
		filepath.Join(home, ".config", "sharpen"),
		filepath.Join(home, ".local", "state", "sharpen"),
	)
}

// NewPathsWithOverrides allows overriding directories for testing.
func NewPathsWithOverrides(configDir, stateDir string) *Paths {
	return &Paths{
		ConfigDir:  configDir,
		StateDir:   stateDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
		EnvFile:    filepath.Join(configDir, ".env"),
		Database:   filepath.Join(stateDir, "sharpen.db"),
	}
}
