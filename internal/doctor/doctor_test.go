package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/stats"
)

func TestRunner_AddCheckKeepsOrder(t *testing.T) {
	r := NewRunner()
	assert.Empty(t, r.Checks())

	names := []string{"config-dir", "board-config", "settings"}
	for _, name := range names {
		check := NewMockCheck(t)
		check.EXPECT().Name().Return(name).Maybe()
		r.AddCheck(check)
	}

	require.Len(t, r.Checks(), len(names))
	for i, want := range names {
		assert.Equal(t, want, r.Checks()[i].Name())
	}
}

func TestRunner_RunCountsSeverities(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Severity
		want     Summary
	}{
		{name: "no checks", want: Summary{}},
		{name: "all pass", statuses: []Severity{SeverityPass, SeverityPass}, want: Summary{Passed: 2}},
		{
			name:     "fresh install",
			statuses: []Severity{SeverityInfo, SeverityInfo, SeverityInfo, SeverityInfo},
			want:     Summary{Info: 4},
		},
		{
			name:     "mixed",
			statuses: []Severity{SeverityPass, SeverityInfo, SeverityWarning, SeverityError, SeverityWarning},
			want:     Summary{Passed: 1, Info: 1, Warnings: 2, Errors: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			for _, status := range tt.statuses {
				check := NewMockCheck(t)
				check.EXPECT().Run(mock.Anything).Return(&CheckResult{Status: status})
				r.AddCheck(check)
			}

			report := r.Run(context.Background())
			require.Len(t, report.Results, len(tt.statuses))
			assert.Equal(t, tt.want, report.Summary)
			assert.Equal(t, tt.want.Errors > 0, report.HasErrors())
			assert.Equal(t, tt.want.Warnings > 0, report.HasWarnings())
			assert.False(t, report.Timestamp.IsZero())
		})
	}
}

func TestRunner_RunPassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "board")

	check := NewMockCheck(t)
	check.EXPECT().Run(ctx).Return(&CheckResult{Name: "board-config", Status: SeverityPass})

	r := NewRunner()
	r.AddCheck(check)
	report := r.Run(ctx)
	assert.Equal(t, "board-config", report.Results[0].Name)
}

func TestDoctorReport_ZeroValue(t *testing.T) {
	var report DoctorReport
	assert.False(t, report.HasErrors())
	assert.False(t, report.HasWarnings())
}

// install lays out the files of a minesweeper install under a temp dir.
func install(t *testing.T) Locations {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "MineSweeper")
	return Locations{
		ConfigDir:    dir,
		ConfigFile:   filepath.Join(dir, "config.txt"),
		SettingsFile: filepath.Join(dir, "settings.yaml"),
		StatsFile:    filepath.Join(dir, "stats.db"),
		StatsEnabled: true,
	}
}

func results(report *DoctorReport) map[string]Severity {
	out := make(map[string]Severity, len(report.Results))
	for _, r := range report.Results {
		out[r.Name] = r.Status
	}
	return out
}

func TestNewInstallRunner_CheckOrder(t *testing.T) {
	r := NewInstallRunner(install(t))

	var names []string
	for _, c := range r.Checks() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"config-dir", "board-config", "settings", "stats-db"}, names)
}

func TestNewInstallRunner_BeforeFirstGame(t *testing.T) {
	loc := install(t)

	report := NewInstallRunner(loc).Run(context.Background())

	assert.Equal(t, Summary{Info: 4}, report.Summary)
	// Diagnosing must not create anything.
	assert.NoDirExists(t, loc.ConfigDir)
}

func TestNewInstallRunner_AfterPlaying(t *testing.T) {
	ctx := context.Background()
	loc := install(t)
	require.NoError(t, boardconfig.Save(loc.ConfigFile, boardconfig.Config{Width: 16, Height: 16, Mines: 40}))
	require.NoError(t, os.WriteFile(loc.SettingsFile, []byte("theme: mono\nsafe_first_click: false\n"), 0o600))

	store, err := stats.Open(loc.StatsFile)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, game.Result{Config: boardconfig.Default(), Won: true}))
	require.NoError(t, store.Record(ctx, game.Result{Config: boardconfig.Default()}))
	require.NoError(t, store.Close())

	report := NewInstallRunner(loc).Run(ctx)

	assert.Equal(t, Summary{Passed: 4}, report.Summary, "%+v", results(report))
	for _, r := range report.Results {
		if r.Name == "board-config" {
			assert.Contains(t, r.Message, "medium")
		}
		if r.Name == "stats-db" {
			assert.Equal(t, 2, r.Details["games"])
		}
	}
}

func TestNewInstallRunner_StatsDisabled(t *testing.T) {
	loc := install(t)
	loc.StatsEnabled = false
	require.NoError(t, os.MkdirAll(loc.ConfigDir, 0o700))
	require.NoError(t, os.WriteFile(loc.StatsFile, []byte("not sqlite"), 0o600))

	report := NewInstallRunner(loc).Run(context.Background())

	assert.Equal(t, SeverityInfo, results(report)["stats-db"])
	assert.False(t, report.HasWarnings())
}

func TestNewInstallRunner_FixRepairsBoardOnly(t *testing.T) {
	ctx := context.Background()
	loc := install(t)
	require.NoError(t, os.MkdirAll(loc.ConfigDir, 0o700))
	require.NoError(t, os.WriteFile(loc.ConfigFile, []byte("0 500 9"), 0o600))
	require.NoError(t, os.WriteFile(loc.SettingsFile, []byte("theme: neon\n"), 0o600))

	r := NewInstallRunner(loc)
	before := results(r.Run(ctx))
	assert.Equal(t, SeverityWarning, before["board-config"])
	assert.Equal(t, SeverityError, before["settings"])

	fixes := r.FixAll(ctx)
	require.Len(t, fixes, 1)
	assert.Equal(t, loc.ConfigFile, fixes[0].Path)

	data, err := os.ReadFile(loc.ConfigFile)
	require.NoError(t, err)
	cfg, err := boardconfig.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, game.Normalize(boardconfig.Config{Width: 0, Height: 500, Mines: 9}), cfg)

	after := r.Run(ctx)
	assert.Equal(t, SeverityPass, results(after)["board-config"])
	// A bad theme needs the user; --fix leaves the settings file alone.
	assert.Equal(t, SeverityError, results(after)["settings"])
	assert.True(t, after.HasErrors())
}
