package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/paths"
	"github.com/thoreinstein/minesweeper/internal/settings"
)

// setupEnv points every minesweeper file at a fresh temp dir and returns it.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)
	t.Setenv("MINESWEEPER_DEBUG", "")
	t.Setenv("NO_COLOR", "1")
	return dir
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetCommand(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err = ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// resetCommand restores flag defaults and drops contexts left over from a
// previous execution.
func resetCommand(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	c.SetContext(nil) //nolint:staticcheck // cobra treats nil as "inherit from parent"
	for _, sub := range c.Commands() {
		resetCommand(sub)
	}
}

func writeBoard(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, paths.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, paths.SettingsFileName), []byte(content), 0o600))
}

func readBoard(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, paths.ConfigFileName))
	require.NoError(t, err)
	return string(data)
}

// gameCall records what the play command handed to the game.
type gameCall struct {
	config   boardconfig.Config
	settings settings.Settings
	recorder game.Recorder
	calls    int
}

// stubGame makes the play command run runner instead of the terminal UI.
func stubGame(t *testing.T, runner game.Runner) *gameCall {
	t.Helper()
	got := &gameCall{}
	orig := newGame
	newGame = func(s settings.Settings, rec game.Recorder) game.Factory {
		got.settings = s
		got.recorder = rec
		return func(cfg boardconfig.Config) game.Runner {
			got.config = cfg
			got.calls++
			return runner
		}
	}
	t.Cleanup(func() { newGame = orig })
	return got
}
