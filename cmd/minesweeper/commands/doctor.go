package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/doctor"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/paths"
	"github.com/thoreinstein/minesweeper/internal/settings"
)

var (
	doctorJSON    bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "all", false,
		"show every check including passed ones")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair fixable issues (rewrite a broken board file, tighten permissions)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Check the files minesweeper reads and writes: the configuration
directory, the board file, settings.yaml and the stats database.

Output modes (mutually exclusive):
  (default)   Show problems only
  --all       Show all checks including passed ones
  --json      Machine-readable JSON output
  -q          No output, exit code only

Exit codes:
  0 - No problems
  1 - Warnings present, no errors
  2 - Errors present`,
	Args:    cobra.NoArgs,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("doctor found warnings")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("doctor found errors")

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorVerbose, quiet} {
		if set {
			count++
		}
	}
	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --all and --quiet are mutually exclusive"),
			"Pick one output mode")
	}
	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	runner, err := doctorRunner()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	report := runner.Run(ctx)

	var fixes []doctor.FixResult
	if doctorFix {
		fixes = runner.FixAll(ctx)
		if len(fixes) > 0 {
			// Report the state after repairs.
			report = runner.Run(ctx)
		}
	}

	if err := outputDoctorReport(w, report, fixes); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitErrorWithSuggestion(errDoctorWarnings, errors.ExitUser,
			"Run: minesweeper doctor --fix")
	}
	return nil
}

// doctorRunner registers every check against the resolved file locations.
func doctorRunner() (*doctor.Runner, error) {
	store, err := boardconfig.NewStore(configPath)
	if err != nil {
		return nil, errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR or pass --config")
	}
	dir, err := paths.ConfigDir()
	if err != nil {
		return nil, errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR")
	}
	settingsFile, err := resolveSettingsPath()
	if err != nil {
		return nil, err
	}
	statsFile, err := paths.StatsFile()
	if err != nil {
		return nil, errors.NewSystemError(err, "Set MINESWEEPER_CONFIG_DIR")
	}

	return doctor.NewInstallRunner(doctor.Locations{
		ConfigDir:    dir,
		ConfigFile:   store.Path(),
		SettingsFile: settingsFile,
		StatsFile:    statsFile,
		StatsEnabled: settings.Current().Stats,
	}), nil
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport, fixes []doctor.FixResult) error {
	if quiet {
		return nil
	}
	if doctorJSON {
		return outputDoctorJSON(w, report, fixes)
	}
	outputDoctorText(w, report, fixes)
	return nil
}

func outputDoctorJSON(w io.Writer, report *doctor.DoctorReport, fixes []doctor.FixResult) error {
	out := struct {
		*doctor.DoctorReport
		Fixes []doctor.FixResult `json:"fixes,omitempty"`
	}{report, fixes}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "encoding JSON")
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport, fixes []doctor.FixResult) {
	for _, fix := range fixes {
		if fix.Fixed {
			fmt.Fprintf(w, "%s fixed %s: %s\n", color.GreenString("✓"), fix.Path, fix.Description)
		} else {
			fmt.Fprintf(w, "%s could not fix %s: %s\n", color.RedString("✗"), fix.Path, fix.Description)
		}
	}
	if len(fixes) > 0 {
		fmt.Fprintln(w)
	}

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !doctorVerbose && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
