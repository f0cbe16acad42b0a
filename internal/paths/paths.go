package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppDir is the directory name used under the per-user config and data roots.
const AppDir = "MineSweeper"

// File names inside the config directory.
const (
	ConfigFileName   = "config.txt"
	SettingsFileName = "settings.yaml"
	StatsFileName    = "stats.db"
)

// EnvConfigDir overrides the config directory when set.
const EnvConfigDir = "MINESWEEPER_CONFIG_DIR"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns the per-user directory holding config.txt and settings.yaml.
//
//   - $MINESWEEPER_CONFIG_DIR when set
//   - Windows: %USERPROFILE%\AppData\Local\MineSweeper
//   - elsewhere: <ConfigHome>/MineSweeper
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	return platformConfigDir()
}

// ConfigFile returns the path of the board configuration file.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// SettingsFile returns the path of the settings file.
func SettingsFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// StatsFile returns the path of the game history database.
// It follows the config directory when $MINESWEEPER_CONFIG_DIR is set so a
// relocated profile stays self-contained.
func StatsFile() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, StatsFileName), nil
	}
	dir, err := platformDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, StatsFileName), nil
}
