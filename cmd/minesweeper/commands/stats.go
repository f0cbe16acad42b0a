package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/minesweeper/internal/cli/prompt"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/paths"
	"github.com/thoreinstein/minesweeper/internal/stats"
)

// statsJSON holds the value of the stats --json flag.
var statsJSON bool

// statsReset holds the value of the stats --reset flag.
var statsReset bool

// statsYes skips the --reset confirmation.
var statsYes bool

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	statsCmd.Flags().BoolVar(&statsReset, "reset", false, "delete all recorded games")
	statsCmd.Flags().BoolVarP(&statsYes, "yes", "y", false, "do not ask before --reset")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show results of finished games",
	Long: `Show how many games were played and won on each board, and the fastest
win. Games are recorded when they end in a win or a loss; quitting mid-game
records nothing. Disable recording with "stats: false" in settings.yaml.`,
	Example: `  # Summary table
  minesweeper stats

  # For scripts
  minesweeper stats --json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

// statsRow is the JSON form of a summary.
type statsRow struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Mines      int       `json:"mines"`
	Preset     string    `json:"preset"`
	Played     int       `json:"played"`
	Won        int       `json:"won"`
	BestMS     int64     `json:"best_ms,omitempty"`
	LastPlayed time.Time `json:"last_played"`
}

func runStats(cmd *cobra.Command, _ []string) error {
	path, err := paths.StatsFile()
	if err != nil {
		return errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR")
	}
	store, err := stats.Open(path)
	if err != nil {
		return errors.NewSystemError(err, "Check permissions on "+path)
	}
	defer store.Close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	if statsReset {
		if !statsYes {
			s := prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			ok, err := s.Confirm("Delete all recorded games?")
			if err != nil && !errors.Is(err, prompt.ErrSelectionCancelled) {
				return errors.Wrap(err, "confirming reset")
			}
			if !ok {
				fmt.Fprintln(w, "Nothing deleted.")
				return nil
			}
		}
		if err := store.Reset(ctx); err != nil {
			return errors.NewSystemError(err, "Delete "+path+" to start over")
		}
		if !quiet {
			fmt.Fprintf(w, "%s Statistics cleared\n", color.GreenString("✓"))
		}
		return nil
	}

	summaries, err := store.Summaries(ctx)
	if err != nil {
		return errors.NewSystemError(err, "Delete "+path+" to start over")
	}

	if statsJSON {
		return writeStatsJSON(w, summaries)
	}
	writeStatsTable(w, summaries)
	return nil
}

func writeStatsJSON(w io.Writer, summaries []stats.Summary) error {
	rows := make([]statsRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, statsRow{
			Width:      s.Config.Width,
			Height:     s.Config.Height,
			Mines:      s.Config.Mines,
			Preset:     game.PresetFor(s.Config),
			Played:     s.Played,
			Won:        s.Won,
			BestMS:     s.Best.Milliseconds(),
			LastPlayed: s.LastPlayed,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(rows), "encoding stats")
}

func writeStatsTable(w io.Writer, summaries []stats.Summary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No games recorded yet.")
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BOARD\tPRESET\tPLAYED\tWON\tWIN %\tBEST")
	for _, s := range summaries {
		best := "-"
		if s.Best > 0 {
			best = s.Best.Round(100 * time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.0f%%\t%s\n",
			s.Config, game.PresetFor(s.Config), s.Played, s.Won, 100*s.WinRate(), best)
	}
	_ = tw.Flush()

	var played, won int
	for _, s := range summaries {
		played += s.Played
		won += s.Won
	}
	fmt.Fprintf(w, "\n%s %d played, %d won\n", bold("Total:"), played, won)
}
