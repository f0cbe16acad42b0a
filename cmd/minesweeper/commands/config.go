package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/editor"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/logging"
	"github.com/thoreinstein/minesweeper/internal/paths"
	"github.com/thoreinstein/minesweeper/internal/settings"
)

// configFormat holds the value of the config show --format flag.
var configFormat string

// configPathAll holds the value of the config path --all flag.
var configPathAll bool

// configEditSettings holds the value of the config edit --settings flag.
var configEditSettings bool

func init() {
	configShowCmd.Flags().StringVarP(&configFormat, "format", "f", "text",
		"output format: text, yaml, toml, json")
	configPathCmd.Flags().BoolVar(&configPathAll, "all", false,
		"also print the settings and stats locations")
	configEditCmd.Flags().BoolVar(&configEditSettings, "settings", false,
		"edit settings.yaml instead of the board configuration")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the saved board configuration",
	Long: `Manage the board configuration stored in config.txt.

The file holds three numbers: width, height and mine count. It is rewritten
every time a game ends. Without a subcommand, shows the configuration.`,
	Example: `  # Show the saved board
  minesweeper config

  # Save a 20x12 board with 40 mines
  minesweeper config set 20 12 40

See Also: minesweeper preset`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the board configuration and settings",
	Long: `Show the board configuration and settings.

The text format is meant for reading; yaml, toml and json are stable for
scripts.`,
	Example: `  # Human readable
  minesweeper config show

  # As JSON
  minesweeper config show --format json

See Also: minesweeper config path`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <width> <height> <mines>",
	Short: "Save a board configuration",
	Long: `Save a board configuration for the next game.

Values are clamped to a playable board: width and height between 2 and 99,
at least one mine and at least one safe cell.`,
	Example: `  # A wide board
  minesweeper config set 40 16 120

See Also: minesweeper preset, minesweeper config reset`,
	Args: cobra.ExactArgs(3),
	RunE: runConfigSet,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default board (10x10, 9 mines)",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Example: `  # Board configuration only
  minesweeper config path

  # Every file minesweeper writes
  minesweeper config path --all`,
	Args: cobra.NoArgs,
	RunE: runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration in $EDITOR",
	Long: `Open the board configuration file in your default editor.

Uses $EDITOR, then $VISUAL, then notepad on Windows or nano/vi elsewhere.
The file is created first if it does not exist yet.`,
	Example: `  # Edit the board configuration
  minesweeper config edit

  # Edit settings.yaml with a specific editor
  EDITOR=nano minesweeper config edit --settings`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

// configView is what config show prints.
type configView struct {
	Board    boardView         `json:"board" yaml:"board" toml:"board"`
	Settings settings.Settings `json:"settings" yaml:"settings" toml:"settings"`
}

type boardView struct {
	boardconfig.Config `yaml:",inline"`

	Preset string `json:"preset" yaml:"preset" toml:"preset"`
	Path   string `json:"path" yaml:"path" toml:"path"`
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := boardconfig.NewStore(configPath)
	if err != nil {
		return errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR or pass --config")
	}
	cfg, err := store.Load(cmd.Context())
	if err != nil {
		return errors.NewSystemError(err, "Check permissions on "+store.Path())
	}

	view := configView{
		Board: boardView{
			Config: cfg,
			Preset: game.PresetFor(cfg),
			Path:   store.Path(),
		},
		Settings: settings.Current(),
	}
	return writeConfigView(cmd.OutOrStdout(), configFormat, view)
}

func writeConfigView(w io.Writer, format string, view configView) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "text", "":
		writeConfigText(w, view)
		return nil
	case "yaml":
		data, err = yaml.Marshal(view)
	case "toml":
		data, err = toml.Marshal(view)
	case "json":
		data, err = json.MarshalIndent(view, "", "  ")
		data = append(data, '\n')
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", format),
			"Use --format text, yaml, toml or json")
	}
	if err != nil {
		return errors.Wrapf(err, "marshaling config as %s", format)
	}

	_, err = w.Write(data)
	return errors.Wrap(err, "writing config")
}

func writeConfigText(w io.Writer, view configView) {
	label := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	b := view.Board
	fmt.Fprintf(w, "%s %dx%d, %d mines %s\n", label("Board:"), b.Width, b.Height, b.Mines, dim("("+b.Preset+")"))
	fmt.Fprintf(w, "%s %s\n", label("File: "), b.Path)
	fmt.Fprintln(w)

	s := view.Settings
	fmt.Fprintf(w, "%s\n", label("Settings:"))
	fmt.Fprintf(w, "  %-17s %t\n", settings.KeySafeFirstClick, s.SafeFirstClick)
	fmt.Fprintf(w, "  %-17s %s\n", settings.KeyTheme, s.Theme)
	fmt.Fprintf(w, "  %-17s %d\n", settings.KeySeed, s.Seed)
	fmt.Fprintf(w, "  %-17s %t\n", settings.KeyStats, s.Stats)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	var vals [3]int
	names := [3]string{"width", "height", "mines"}
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return errors.NewUserError(errors.Newf("%s must be an integer, got %q", names[i], arg),
				"Example: minesweeper config set 16 16 40")
		}
		vals[i] = v
	}

	requested := boardconfig.Config{Width: vals[0], Height: vals[1], Mines: vals[2]}
	cfg := game.Normalize(requested)
	if cfg != requested {
		logging.FromContext(cmd.Context()).Warn("adjusted board to fit limits",
			"requested", requested.String(), "saved", cfg.String())
	}

	return saveBoard(cmd, cfg)
}

func runConfigReset(cmd *cobra.Command, _ []string) error {
	return saveBoard(cmd, boardconfig.Default())
}

// saveBoard writes cfg to the configuration file and reports it.
func saveBoard(cmd *cobra.Command, cfg boardconfig.Config) error {
	store, err := boardconfig.NewStore(configPath)
	if err != nil {
		return errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR or pass --config")
	}
	if err := store.Save(cmd.Context(), cfg); err != nil {
		return errors.NewSystemError(err, "Check permissions on "+store.Path())
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Board set to %dx%d with %d mines (%s)\n",
			color.GreenString("✓"), cfg.Width, cfg.Height, cfg.Mines, game.PresetFor(cfg))
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := boardconfig.NewStore(configPath)
	if err != nil {
		return errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR or pass --config")
	}
	w := cmd.OutOrStdout()

	if !configPathAll {
		fmt.Fprintln(w, store.Path())
		return nil
	}

	settingsFile, err := resolveSettingsPath()
	if err != nil {
		return err
	}
	statsFile, err := paths.StatsFile()
	if err != nil {
		return errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR")
	}

	fmt.Fprintf(w, "config:   %s\n", store.Path())
	fmt.Fprintf(w, "settings: %s\n", settingsFile)
	fmt.Fprintf(w, "stats:    %s\n", statsFile)
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	var path string

	if configEditSettings {
		p, err := resolveSettingsPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			if err := settings.Save(p, settings.Current()); err != nil {
				return errors.NewSystemError(err, "Check permissions on "+p)
			}
		}
		path = p
	} else {
		store, err := boardconfig.NewStore(configPath)
		if err != nil {
			return errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR or pass --config")
		}
		// Load creates the file on first run.
		if _, err := store.Load(cmd.Context()); err != nil {
			return errors.NewSystemError(err, "Check permissions on "+store.Path())
		}
		path = store.Path()
	}

	if err := editor.Open(cmd.OutOrStdout(), path); err != nil {
		return errors.NewUserError(err, "Set $EDITOR to your editor")
	}
	return nil
}

// resolveSettingsPath returns --settings or the default settings file.
func resolveSettingsPath() (string, error) {
	if settingsPath != "" {
		return settingsPath, nil
	}
	p, err := paths.SettingsFile()
	if err != nil {
		return "", errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR")
	}
	return p, nil
}
