package doctor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/settings"
	"github.com/thoreinstein/minesweeper/internal/stats"
	"github.com/thoreinstein/minesweeper/pkg/fileutil"
)

// loosePermBits are the group/other write bits that should never be set on
// our files.
const loosePermBits os.FileMode = 0o022

// ConfigDirCheck verifies the configuration directory can be written.
type ConfigDirCheck struct {
	dir string
}

var _ Check = (*ConfigDirCheck)(nil)

// NewConfigDirCheck creates a check for dir.
func NewConfigDirCheck(dir string) *ConfigDirCheck {
	return &ConfigDirCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *ConfigDirCheck) Name() string { return "config-dir" }

// Category returns the grouping for this check.
func (c *ConfigDirCheck) Category() string { return "filesystem" }

// Run executes the check.
func (c *ConfigDirCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.dir},
	}

	info, err := os.Stat(c.dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		result.Status = SeverityInfo
		result.Message = "directory does not exist yet; the first game creates it"
		return result
	case err != nil:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat directory: %v", err)
		return result
	case !info.IsDir():
		result.Status = SeverityError
		result.Message = "path exists but is not a directory"
		result.FixHint = "remove or rename " + c.dir
		return result
	}

	probe, err := os.CreateTemp(c.dir, ".minesweeper-doctor-*")
	if err != nil {
		result.Status = SeverityError
		result.Message = "directory is not writable; the board cannot be saved"
		result.FixHint = "check the permissions of " + c.dir
		return result
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	result.Status = SeverityPass
	result.Message = "directory is writable"
	return result
}

// ConfigFileCheck validates the board configuration file. It can rewrite a
// malformed or out-of-range file and tighten loose permissions.
type ConfigFileCheck struct {
	path string

	// set by Run for Fix
	rewrite   *boardconfig.Config
	chmodFile bool
}

var (
	_ Check = (*ConfigFileCheck)(nil)
	_ Fixer = (*ConfigFileCheck)(nil)
)

// NewConfigFileCheck creates a check for the board configuration at path.
func NewConfigFileCheck(path string) *ConfigFileCheck {
	return &ConfigFileCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *ConfigFileCheck) Name() string { return "board-config" }

// Category returns the grouping for this check.
func (c *ConfigFileCheck) Category() string { return "board" }

// Run executes the check. It never creates the file.
func (c *ConfigFileCheck) Run(_ context.Context) *CheckResult {
	c.rewrite = nil
	c.chmodFile = false

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.path},
	}

	info, err := os.Stat(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		result.Status = SeverityInfo
		result.Message = "no saved board yet; the next game starts with " + boardconfig.Default().String()
		return result
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat file: %v", err)
		return result
	}

	data, err := fileutil.ReadFileWithLimit(c.path)
	if err != nil && !errors.Is(err, fileutil.ErrFileTooLarge) {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read file: %v", err)
		result.FixHint = "check the permissions of " + c.path
		return result
	}

	var cfg boardconfig.Config
	if err == nil {
		cfg, err = boardconfig.Parse(data)
	}
	if err != nil {
		def := boardconfig.Default()
		c.rewrite = &def
		result.Status = SeverityWarning
		result.Message = "contents are not three integers; the next game uses " + def.String()
		result.Fixable = true
		result.FixHint = "run 'minesweeper doctor --fix' or 'minesweeper config reset'"
		return result
	}
	result.Details["config"] = cfg.String()

	if norm := game.Normalize(cfg); norm != cfg {
		c.rewrite = &norm
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%s is outside playable limits and will be adjusted to %s", cfg, norm)
		result.Fixable = true
		result.FixHint = "run 'minesweeper doctor --fix'"
		return result
	}

	if runtime.GOOS != "windows" && info.Mode().Perm()&loosePermBits != 0 {
		c.chmodFile = true
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("file is writable by others (%04o)", info.Mode().Perm())
		result.Fixable = true
		result.FixHint = fmt.Sprintf("chmod %04o %s", fileutil.DefaultFilePerm, c.path)
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s (%s)", cfg, game.PresetFor(cfg))
	return result
}

// CanFix reports whether the last Run found something to repair.
func (c *ConfigFileCheck) CanFix() bool {
	return c.rewrite != nil || c.chmodFile
}

// Fix rewrites the file or tightens its permissions.
func (c *ConfigFileCheck) Fix(_ context.Context) []FixResult {
	var results []FixResult

	if c.rewrite != nil {
		res := FixResult{Path: c.path}
		if err := boardconfig.Save(c.path, *c.rewrite); err != nil {
			res.Description = "failed to rewrite board configuration"
			res.Error = err
		} else {
			res.Fixed = true
			res.Description = "rewrote board as " + c.rewrite.String()
		}
		results = append(results, res)
	}

	if c.chmodFile {
		res := FixResult{Path: c.path}
		if err := os.Chmod(c.path, fileutil.DefaultFilePerm); err != nil {
			res.Description = fmt.Sprintf("failed to chmod %04o", fileutil.DefaultFilePerm)
			res.Error = errors.Wrapf(err, "chmod %s", c.path)
		} else {
			res.Fixed = true
			res.Description = fmt.Sprintf("chmod %04o", fileutil.DefaultFilePerm)
		}
		results = append(results, res)
	}

	return results
}

// SettingsCheck validates settings.yaml without touching the global
// settings state.
type SettingsCheck struct {
	path string
}

var _ Check = (*SettingsCheck)(nil)

// NewSettingsCheck creates a check for the settings file at path.
func NewSettingsCheck(path string) *SettingsCheck {
	return &SettingsCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *SettingsCheck) Name() string { return "settings" }

// Category returns the grouping for this check.
func (c *SettingsCheck) Category() string { return "settings" }

// Run executes the check.
func (c *SettingsCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.path},
	}

	data, err := fileutil.ReadFileWithLimit(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		result.Status = SeverityInfo
		result.Message = "no settings file; defaults apply"
		return result
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read file: %v", err)
		return result
	}

	s := settings.Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("invalid YAML: %v", err)
		result.FixHint = "run 'minesweeper config edit --settings'"
		return result
	}

	if errs := settings.Validate(&s); len(errs) > 0 {
		result.Status = SeverityError
		result.Message = errs[0].Error()
		result.Details["errors"] = len(errs)
		result.FixHint = "run 'minesweeper config edit --settings'"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("theme %s, safe first click %t, stats %t", s.Theme, s.SafeFirstClick, s.Stats)
	return result
}

// StatsCheck verifies the stats database opens. A missing database is not
// created.
type StatsCheck struct {
	path    string
	enabled bool
}

var _ Check = (*StatsCheck)(nil)

// NewStatsCheck creates a check for the stats database at path. When
// enabled is false the check only reports that recording is off.
func NewStatsCheck(path string, enabled bool) *StatsCheck {
	return &StatsCheck{path: path, enabled: enabled}
}

// Name returns the unique identifier for this check.
func (c *StatsCheck) Name() string { return "stats-db" }

// Category returns the grouping for this check.
func (c *StatsCheck) Category() string { return "stats" }

// Run executes the check.
func (c *StatsCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.path},
	}

	if !c.enabled {
		result.Status = SeverityInfo
		result.Message = "recording is disabled in settings"
		return result
	}

	if _, err := os.Stat(c.path); errors.Is(err, fs.ErrNotExist) {
		result.Status = SeverityInfo
		result.Message = "no games recorded yet"
		return result
	}

	store, err := stats.Open(c.path)
	if err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("cannot open database; games will not be recorded: %v", err)
		result.FixHint = "delete " + c.path + " to start a fresh history"
		return result
	}
	defer store.Close()

	summaries, err := store.Summaries(ctx)
	if err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("cannot query database: %v", err)
		result.FixHint = "run 'minesweeper stats --reset'"
		return result
	}

	played := 0
	for _, s := range summaries {
		played += s.Played
	}
	result.Details["games"] = played
	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d games recorded", played)
	return result
}
