// Package settings manages minesweeper's preferences using Viper.
package settings

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/paths"
	"github.com/thoreinstein/minesweeper/pkg/fileutil"
)

// EnvPrefix is the prefix for environment overrides (MINESWEEPER_THEME, ...).
const EnvPrefix = "MINESWEEPER"

// Keys.
const (
	KeySafeFirstClick = "safe_first_click"
	KeyTheme          = "theme"
	KeySeed           = "seed"
	KeyStats          = "stats"
)

// Themes.
const (
	ThemeClassic = "classic"
	ThemeMono    = "mono"
)

// Settings are the user's preferences. They are separate from the board
// configuration, which is rewritten after every game.
type Settings struct {
	// SafeFirstClick keeps the first revealed cell's neighbours clear.
	SafeFirstClick bool `mapstructure:"safe_first_click" yaml:"safe_first_click" toml:"safe_first_click" json:"safe_first_click"`

	// Theme selects the board palette: classic or mono.
	Theme string `mapstructure:"theme" yaml:"theme" toml:"theme" json:"theme"`

	// Seed fixes mine placement when non-zero.
	Seed int64 `mapstructure:"seed" yaml:"seed" toml:"seed" json:"seed"`

	// Stats enables recording finished games.
	Stats bool `mapstructure:"stats" yaml:"stats" toml:"stats" json:"stats"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		SafeFirstClick: true,
		Theme:          ThemeClassic,
		Stats:          true,
	}
}

// Keys returns every recognised key in display order.
func Keys() []string {
	return []string{KeySafeFirstClick, KeyTheme, KeySeed, KeyStats}
}

// Init resets Viper and registers the search path, environment binding and
// defaults. Call it once at startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("settings")
	viper.SetConfigType("yaml")
	if dir, err := paths.ConfigDir(); err == nil {
		viper.AddConfigPath(dir)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault(KeySafeFirstClick, d.SafeFirstClick)
	viper.SetDefault(KeyTheme, d.Theme)
	viper.SetDefault(KeySeed, d.Seed)
	viper.SetDefault(KeyStats, d.Stats)
}

// Load reads the settings file.
// If path is provided, it reads from that specific file and a missing file
// is an error. If path is empty, the default location is searched and a
// missing file yields defaults.
func Load(path string) (*Settings, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrap(err, "reading settings file")
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unmarshaling settings")
	}

	if errs := Validate(&s); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating settings")
	}

	return &s, nil
}

// Current returns the settings as Viper holds them now, without validation.
func Current() Settings {
	return Settings{
		SafeFirstClick: viper.GetBool(KeySafeFirstClick),
		Theme:          viper.GetString(KeyTheme),
		Seed:           viper.GetInt64(KeySeed),
		Stats:          viper.GetBool(KeyStats),
	}
}

// Save writes s to path as YAML, creating the directory if needed.
func Save(path string, s Settings) error {
	if errs := Validate(&s); len(errs) > 0 {
		return errors.Wrap(errs[0], "validating settings")
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating settings directory")
	}
	if err := fileutil.AtomicWriteYAML(path, s); err != nil {
		return errors.Wrap(err, "writing settings file")
	}
	return nil
}
