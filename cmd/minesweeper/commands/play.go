package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/logging"
	"github.com/thoreinstein/minesweeper/internal/paths"
	"github.com/thoreinstein/minesweeper/internal/settings"
	"github.com/thoreinstein/minesweeper/internal/stats"
	"github.com/thoreinstein/minesweeper/internal/ui"
)

// Session overrides for the board configuration.
var (
	widthFlag  int
	heightFlag int
	minesFlag  int
)

func init() {
	rootCmd.Flags().IntVar(&widthFlag, "width", 0, "board width for this session")
	rootCmd.Flags().IntVar(&heightFlag, "height", 0, "board height for this session")
	rootCmd.Flags().IntVar(&minesFlag, "mines", 0, "mine count for this session")
}

// newGame builds the factory for game sessions. Tests replace it.
var newGame = func(s settings.Settings, rec game.Recorder) game.Factory {
	boardOpts := []game.Option{game.WithSafeFirstClick(s.SafeFirstClick)}
	if s.Seed != 0 {
		boardOpts = append(boardOpts, game.WithSeed(uint64(s.Seed)))
	}

	opts := []ui.Option{
		ui.WithTheme(ui.ThemeByName(s.Theme)),
		ui.WithBoardOptions(boardOpts...),
	}
	if rec != nil {
		opts = append(opts, ui.WithRecorder(rec))
	}
	return ui.Factory(opts...)
}

// runPlay loads the board configuration, plays one session and saves the
// configuration the session ended with.
func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	store, err := boardconfig.NewStore(configPath)
	if err != nil {
		return errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR or pass --config")
	}

	cfg, err := store.Load(ctx)
	if err != nil {
		return errors.NewSystemError(err, "Check permissions on "+store.Path())
	}
	cfg = applyOverrides(cmd, cfg)

	s := settings.Current()
	rec, closeStats := openRecorder(ctx, s)
	defer closeStats()

	logger.Info("starting game", "config", cfg.String(), "theme", s.Theme)

	final, err := newGame(s, rec)(cfg).Run(ctx)
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "running game"),
			"minesweeper needs an interactive terminal")
	}

	if err := store.Save(ctx, final); err != nil {
		return errors.NewSystemError(err, "Check permissions on "+store.Path())
	}
	return nil
}

// applyOverrides replaces the loaded values with any --width/--height/--mines
// given on the command line.
func applyOverrides(cmd *cobra.Command, cfg boardconfig.Config) boardconfig.Config {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = widthFlag
	}
	if flags.Changed("height") {
		cfg.Height = heightFlag
	}
	if flags.Changed("mines") {
		cfg.Mines = minesFlag
	}
	return cfg
}

// openRecorder opens the stats store when enabled. A store that cannot be
// opened is logged and the game is played without recording.
func openRecorder(ctx context.Context, s settings.Settings) (game.Recorder, func()) {
	noop := func() {}
	if !s.Stats {
		return nil, noop
	}

	logger := logging.FromContext(ctx)
	path, err := paths.StatsFile()
	if err != nil {
		logger.Warn("stats disabled", "error", err)
		return nil, noop
	}
	store, err := stats.Open(path)
	if err != nil {
		logger.Warn("stats disabled", "path", path, "error", err)
		return nil, noop
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close stats store", "error", err)
		}
	}
}
