package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/cli/prompt"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/logging"
)

// presetList holds the value of the preset --list flag.
var presetList bool

func init() {
	presetCmd.Flags().BoolVarP(&presetList, "list", "l", false, "list presets instead of choosing one")
	rootCmd.AddCommand(presetCmd)
}

var presetCmd = &cobra.Command{
	Use:   "preset [name]",
	Short: "Switch the saved board to a preset difficulty",
	Long: `Switch the saved board to one of the built-in difficulties:

  easy    10x10,  9 mines
  medium  16x16, 40 mines
  hard    30x16, 99 mines

Without a name an interactive picker is shown.`,
	Example: `  # Pick interactively
  minesweeper preset

  # Go straight to hard
  minesweeper preset hard

See Also: minesweeper config set`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: game.PresetNames(),
	RunE:      runPreset,
}

// pickPreset asks the user to choose a preset: a fuzzy finder on a terminal,
// a numbered prompt otherwise. Tests replace it.
var pickPreset = func(cmd *cobra.Command, presets []game.Preset, current boardconfig.Config) (int, error) {
	if !logging.IsTTY(cmd.InOrStdin()) {
		return promptPreset(cmd, presets, current)
	}
	return fuzzyfinder.Find(
		presets,
		func(i int) string {
			return presets[i].Name
		},
		fuzzyfinder.WithHeader("current: "+current.String()),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return presetPreview(presets[i], w, h)
		}),
	)
}

func promptPreset(cmd *cobra.Command, presets []game.Preset, current boardconfig.Config) (int, error) {
	options := make([]string, len(presets))
	def := 0
	for i, p := range presets {
		options[i] = fmt.Sprintf("%s (%dx%d, %d mines)", p.Title(), p.Config.Width, p.Config.Height, p.Config.Mines)
		if p.Config == current {
			def = i
		}
	}
	s := prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
	return s.Select("Choose a preset", options, def)
}

func runPreset(cmd *cobra.Command, args []string) error {
	store, err := boardconfig.NewStore(configPath)
	if err != nil {
		return errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR or pass --config")
	}

	if presetList {
		current, err := store.Load(cmd.Context())
		if err != nil {
			return errors.NewSystemError(err, "Check permissions on "+store.Path())
		}
		listPresets(cmd, current)
		return nil
	}

	var p game.Preset
	if len(args) == 1 {
		p, err = game.LookupPreset(args[0])
		if err != nil {
			return errors.NewUserError(err, "Run: minesweeper preset --list")
		}
	} else {
		current, err := store.Load(cmd.Context())
		if err != nil {
			return errors.NewSystemError(err, "Check permissions on "+store.Path())
		}
		presets := game.Presets()
		idx, err := pickPreset(cmd, presets, current)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) || errors.Is(err, prompt.ErrSelectionCancelled) {
				return nil
			}
			if errors.Is(err, prompt.ErrInvalidSelection) {
				return errors.NewUserError(err, "Run: minesweeper preset <easy|medium|hard>")
			}
			return errors.Wrap(err, "preset picker failed")
		}
		p = presets[idx]
	}

	return saveBoard(cmd, p.Config)
}

func listPresets(cmd *cobra.Command, current boardconfig.Config) {
	w := cmd.OutOrStdout()
	for _, p := range game.Presets() {
		marker := " "
		name := p.Name
		if p.Config == current {
			marker = color.GreenString("*")
			name = color.New(color.Bold).Sprint(name)
		}
		// Pad before colouring so escape codes do not break alignment.
		pad := strings.Repeat(" ", max(0, 7-len(p.Name)))
		fmt.Fprintf(w, "%s %s%s %5s, %2d mines\n", marker, name, pad,
			fmt.Sprintf("%dx%d", p.Config.Width, p.Config.Height), p.Config.Mines)
	}
}

// presetPreview draws a hidden board of the preset's size, cropped to the
// preview pane.
func presetPreview(p game.Preset, w, h int) string {
	cfg := p.Config
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%dx%d, %d mines (%.0f%% density)\n\n",
		p.Title(), cfg.Width, cfg.Height, cfg.Mines,
		100*float64(cfg.Mines)/float64(cfg.Width*cfg.Height))

	cols := min(cfg.Width, max(0, (w-2)/2))
	rows := min(cfg.Height, max(0, h-4))
	row := strings.TrimRight(strings.Repeat("# ", cols), " ")
	for range rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}
