// Package commands implements the CLI commands for minesweeper.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	buildinfo "github.com/thoreinstein/minesweeper/cmd"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/logging"
	"github.com/thoreinstein/minesweeper/internal/settings"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configPath overrides the board configuration file.
var configPath string

// settingsPath overrides the settings file.
var settingsPath string

// settingsLoadErr holds any error that occurred during settings loading.
var settingsLoadErr error

// logCloser closes the --log-file handle after the command finishes.
var logCloser io.Closer

func init() {
	cobra.OnInitialize(initSettings)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format (useful while the board is on screen)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"board configuration file (default: per-user config.txt)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "",
		"settings file (default: settings.yaml next to the board configuration)")

	rootCmd.Version = buildinfo.Version
	rootCmd.SetVersionTemplate("minesweeper version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initSettings() {
	settings.Init()
	// Capture load errors for later reporting
	_, settingsLoadErr = settings.Load(settingsPath)
}

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Minesweeper in the terminal",
	Long: `minesweeper plays Minesweeper in the terminal.

The board size and mine count are remembered between sessions in a small
per-user file (config.txt). On Windows it lives in
%USERPROFILE%\AppData\Local\MineSweeper; elsewhere in the XDG config
directory. A missing or unreadable file starts an Easy game (10x10, 9 mines).

Keys: arrows/hjkl move, space/enter reveal, f flag, c chord, r restart,
1/2/3 switch to Easy/Medium/Hard, q quit. Left click reveals, right click
flags.`,
	Example: `  # Play with the saved board
  minesweeper

  # Play a one-off 20x12 board with 40 mines (it is saved on exit)
  minesweeper --width 20 --height 12 --mines 40

  # Switch to the hard preset for next time
  minesweeper preset hard

  See Also: minesweeper config, minesweeper stats`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkSettings(cmd, args)
	},
	RunE: runPlay,
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"),
			"Pick one of -q or -v")
	}

	format, ok := logging.ParseFormat(logFormat)
	if !ok {
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat),
			"Use --log-format text or --log-format json")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			e, err := parseEnvironment()
			if err != nil {
				return errors.NewUserError(err, "Check the MINESWEEPER_* environment variables")
			}
			v = e.debugVerbosity()
		}
		level = logging.LevelFromVerbosity(v)
	}

	cfg := logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "failed to open log file"),
				"Check the --log-file path")
		}
		cfg.File = f
		logCloser = f
	}

	logging.ConfigureColor(cmd.OutOrStdout())

	logger := logging.New(cfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkSettings reports a broken settings file before any command runs.
func checkSettings(cmd *cobra.Command, _ []string) error {
	// help, version and doctor must work with a broken settings file
	switch cmd.Name() {
	case "help", "version", "doctor":
		return nil
	}
	if settingsLoadErr != nil {
		return errors.NewConfigError(settingsLoadErr)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// SIGINT/SIGTERM by main.
func ExecuteContext(ctx context.Context) error {
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}
