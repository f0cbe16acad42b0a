package boardconfig

import (
	"context"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/logging"
	"github.com/thoreinstein/minesweeper/internal/paths"
	"github.com/thoreinstein/minesweeper/pkg/fileutil"
)

// Easy difficulty, used whenever the file is new, empty or unreadable as text.
const (
	DefaultWidth  = 10
	DefaultHeight = 10
	DefaultMines  = 9
)

// ErrMalformed is returned by Parse when the content is not three integers.
var ErrMalformed = errors.New("malformed board configuration")

// Config is the persisted board configuration.
type Config struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
	Mines  int `json:"mines" yaml:"mines" toml:"mines"`
}

// Default returns the Easy configuration (10, 10, 9).
func Default() Config {
	return Config{Width: DefaultWidth, Height: DefaultHeight, Mines: DefaultMines}
}

// String renders the configuration as "WxH/M" for logs and messages.
func (c Config) String() string {
	return strconv.Itoa(c.Width) + "x" + strconv.Itoa(c.Height) + "/" + strconv.Itoa(c.Mines)
}

// Parse reads three decimal integers from the start of data, each preceded
// by optional whitespace. A value ends at the first byte that is not a digit,
// so "20 20 50abc" is (20, 20, 50) but "20x 20 50" fails on the second value.
// Anything after the third value is ignored. Values must fit in 32 bits and
// are not range checked.
func Parse(data []byte) (Config, error) {
	var vals [3]int
	rest := data
	for i := range vals {
		v, n, err := scanInt(rest)
		if err != nil {
			return Config{}, errors.Wrapf(ErrMalformed, "value %d: %v", i+1, err)
		}
		vals[i] = v
		rest = rest[n:]
	}

	return Config{Width: vals[0], Height: vals[1], Mines: vals[2]}, nil
}

// scanInt reads one integer from the start of b after skipping whitespace and
// returns it with the number of bytes consumed.
func scanInt(b []byte) (int, int, error) {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	if i == len(b) {
		return 0, 0, errors.New("missing")
	}

	start := i
	if b[i] == '+' || b[i] == '-' {
		i++
	}
	digits := i
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, 0, errors.Newf("%q is not an integer", token(b[start:]))
	}

	v, err := strconv.ParseInt(string(b[start:i]), 10, 32)
	if err != nil {
		return 0, 0, errors.Newf("%q is out of range", b[start:i])
	}
	return int(v), i, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// token returns b up to the next whitespace, for error messages.
func token(b []byte) []byte {
	for i, c := range b {
		if isSpace(c) {
			return b[:i]
		}
	}
	return b
}

// Format renders cfg in the on-disk form "<width> <height> <mines>".
func Format(cfg Config) []byte {
	b := make([]byte, 0, 16)
	b = strconv.AppendInt(b, int64(cfg.Width), 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(cfg.Height), 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(cfg.Mines), 10)
	return b
}

// LoadResult describes how Load arrived at its configuration.
type LoadResult struct {
	// Created is set when the file did not exist and an empty one was made.
	Created bool

	// Malformed is set when the file existed but could not be parsed.
	Malformed bool
}

// Defaulted reports whether Load fell back to Default.
func (r LoadResult) Defaulted() bool {
	return r.Created || r.Malformed
}

// Load reads the configuration at path.
//
// A missing file is a first run: the containing directory and an empty file
// are created and Default is returned. Content that does not parse also
// yields Default. Any other I/O failure is returned.
func Load(path string) (Config, LoadResult, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		if _, err := fileutil.CreateEmpty(path, paths.DefaultDirPerm); err != nil {
			return Config{}, LoadResult{}, errors.Wrap(err, "creating config file")
		}
		return Default(), LoadResult{Created: true}, nil
	case errors.Is(err, fileutil.ErrFileTooLarge):
		return Default(), LoadResult{Malformed: true}, nil
	default:
		return Config{}, LoadResult{}, errors.Wrap(err, "reading config file")
	}

	cfg, err := Parse(data)
	if err != nil {
		return Default(), LoadResult{Malformed: true}, nil
	}
	return cfg, LoadResult{}, nil
}

// Save replaces the file at path with Format(cfg), creating the containing
// directory if needed. The previous contents are not kept.
func Save(path string, cfg Config) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteFile(path, Format(cfg), fileutil.DefaultFilePerm); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

// Store binds Load and Save to one path and logs what happened.
type Store struct {
	path string
}

// NewStore returns a Store for path. An empty path resolves to
// paths.ConfigFile().
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := paths.ConfigFile()
		if err != nil {
			return nil, errors.Wrap(err, "resolving config file")
		}
		path = p
	}
	return &Store{path: path}, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load is Load(s.Path()) with logging.
func (s *Store) Load(ctx context.Context) (Config, error) {
	logger := logging.FromContext(ctx)

	cfg, res, err := Load(s.path)
	if err != nil {
		return Config{}, err
	}

	switch {
	case res.Created:
		logger.Info("created config file", "path", s.path, "config", cfg)
	case res.Malformed:
		logger.Warn("config file unreadable, using defaults", "path", s.path, "config", cfg)
	default:
		logger.Debug("loaded config", "path", s.path, "config", cfg)
	}
	return cfg, nil
}

// Save is Save(s.Path(), cfg) with logging.
func (s *Store) Save(ctx context.Context, cfg Config) error {
	if err := Save(s.path, cfg); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("saved config", "path", s.path, "config", cfg)
	return nil
}
