package doctor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/stats"
)

func TestConfigDirCheck(t *testing.T) {
	t.Run("missing directory is info", func(t *testing.T) {
		c := NewConfigDirCheck(filepath.Join(t.TempDir(), "absent"))
		assert.Equal(t, SeverityInfo, c.Run(context.Background()).Status)
	})

	t.Run("writable directory passes", func(t *testing.T) {
		dir := t.TempDir()
		res := NewConfigDirCheck(dir).Run(context.Background())
		assert.Equal(t, SeverityPass, res.Status)

		// The probe file is cleaned up.
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("file instead of directory is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		res := NewConfigDirCheck(path).Run(context.Background())
		assert.Equal(t, SeverityError, res.Status)
		assert.NotEmpty(t, res.FixHint)
	})
}

func TestConfigFileCheck(t *testing.T) {
	tests := []struct {
		name        string
		content     *string
		perm        os.FileMode
		wantStatus  Severity
		wantFixable bool
	}{
		{name: "missing file", wantStatus: SeverityInfo},
		{name: "valid board", content: ptr("16 16 40"), perm: 0o600, wantStatus: SeverityPass},
		{name: "empty file", content: ptr(""), perm: 0o600, wantStatus: SeverityWarning, wantFixable: true},
		{name: "garbage", content: ptr("big board"), perm: 0o600, wantStatus: SeverityWarning, wantFixable: true},
		{name: "out of range", content: ptr("0 500 9"), perm: 0o600, wantStatus: SeverityWarning, wantFixable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.txt")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), tt.perm))
			}

			c := NewConfigFileCheck(path)
			res := c.Run(context.Background())

			assert.Equal(t, tt.wantStatus, res.Status, res.Message)
			assert.Equal(t, tt.wantFixable, res.Fixable)
			assert.Equal(t, tt.wantFixable, c.CanFix())
			assert.Equal(t, path, res.Details["path"])

			if tt.content == nil {
				assert.NoFileExists(t, path)
			}
		})
	}
}

func TestConfigFileCheck_LoosePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	path := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("10 10 9"), 0o600))
	require.NoError(t, os.Chmod(path, 0o666))

	c := NewConfigFileCheck(path)
	res := c.Run(context.Background())
	require.Equal(t, SeverityWarning, res.Status)
	require.True(t, c.CanFix())

	fixes := c.Fix(context.Background())
	require.Len(t, fixes, 1)
	assert.True(t, fixes[0].Fixed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.Equal(t, SeverityPass, c.Run(context.Background()).Status)
}

func TestConfigFileCheck_FixRewrites(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "malformed becomes default", content: "nope", want: "10 10 9"},
		{name: "out of range is clamped", content: "0 500 9", want: "2 99 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			c := NewConfigFileCheck(path)
			c.Run(context.Background())

			fixes := c.Fix(context.Background())
			require.Len(t, fixes, 1)
			assert.True(t, fixes[0].Fixed)
			require.NoError(t, fixes[0].Error)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			assert.Equal(t, SeverityPass, c.Run(context.Background()).Status)
			assert.False(t, c.CanFix())
		})
	}
}

func TestSettingsCheck(t *testing.T) {
	tests := []struct {
		name       string
		content    *string
		wantStatus Severity
	}{
		{name: "missing file", wantStatus: SeverityInfo},
		{name: "empty file", content: ptr(""), wantStatus: SeverityPass},
		{name: "valid", content: ptr("theme: mono\nstats: false\n"), wantStatus: SeverityPass},
		{name: "unknown theme", content: ptr("theme: neon\n"), wantStatus: SeverityError},
		{name: "unknown key", content: ptr("colour: red\n"), wantStatus: SeverityError},
		{name: "broken yaml", content: ptr("theme: [mono\n"), wantStatus: SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o600))
			}

			res := NewSettingsCheck(path).Run(context.Background())
			assert.Equal(t, tt.wantStatus, res.Status, res.Message)
		})
	}
}

func TestStatsCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		res := NewStatsCheck(filepath.Join(t.TempDir(), "stats.db"), false).Run(ctx)
		assert.Equal(t, SeverityInfo, res.Status)
	})

	t.Run("missing database is not created", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stats.db")
		res := NewStatsCheck(path, true).Run(ctx)
		assert.Equal(t, SeverityInfo, res.Status)
		assert.NoFileExists(t, path)
	})

	t.Run("counts recorded games", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stats.db")
		store, err := stats.Open(path)
		require.NoError(t, err)
		for range 3 {
			require.NoError(t, store.Record(ctx, game.Result{Config: boardconfig.Default(), Won: true}))
		}
		require.NoError(t, store.Close())

		res := NewStatsCheck(path, true).Run(ctx)
		assert.Equal(t, SeverityPass, res.Status, res.Message)
		assert.Equal(t, 3, res.Details["games"])
	})

	t.Run("corrupt database warns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stats.db")
		require.NoError(t, os.WriteFile(path, []byte("this is not a database, just text padding it out"), 0o600))

		res := NewStatsCheck(path, true).Run(ctx)
		assert.Equal(t, SeverityWarning, res.Status)
	})
}

func TestRunner_FixAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	r := NewRunner()
	r.AddCheck(NewConfigDirCheck(dir))
	r.AddCheck(NewConfigFileCheck(path))

	report := r.Run(context.Background())
	assert.True(t, report.HasWarnings())

	fixes := r.FixAll(context.Background())
	require.Len(t, fixes, 1)
	assert.Equal(t, path, fixes[0].Path)

	report = r.Run(context.Background())
	assert.False(t, report.HasWarnings())
	assert.False(t, report.HasErrors())
}

func TestSeverity_MarshalText(t *testing.T) {
	got, err := SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(got))
}

func ptr(s string) *string { return &s }
