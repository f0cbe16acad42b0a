// Package stats keeps a history of finished games in SQLite.
package stats

import (
	"context"
	"database/sql"
	_ "embed"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/logging"
	"github.com/thoreinstein/minesweeper/internal/paths"
)

//go:embed schema.sql
var schema string

// Store persists game results in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("stats path is required")
	}
	clean := filepath.Clean(path)
	if err := paths.EnsureDir(filepath.Dir(clean), 0); err != nil {
		return nil, errors.Wrap(err, "creating stats directory")
	}

	dsn := clean + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one finished game. A zero ID is replaced with a new one.
func (s *Store) Record(ctx context.Context, r game.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errors.New("stats store is not open")
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, width, height, mines, won, duration_ms, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(),
		r.Config.Width,
		r.Config.Height,
		r.Config.Mines,
		r.Won,
		r.Duration.Milliseconds(),
		r.FinishedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return errors.Wrap(err, "insert game")
	}

	logging.FromContext(ctx).Debug("recorded game", "id", r.ID, "won", r.Won, "duration", r.Duration)
	return nil
}

// Summary aggregates results for one board configuration.
type Summary struct {
	Config boardconfig.Config
	Played int
	Won    int

	// Best is the fastest win; zero when there are no wins.
	Best time.Duration

	LastPlayed time.Time
}

// WinRate returns Won/Played, or 0 when nothing was played.
func (s Summary) WinRate() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Won) / float64(s.Played)
}

// Summaries returns one Summary per configuration, most played first.
func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("stats store is not open")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT width, height, mines,
		        COUNT(*),
		        COALESCE(SUM(won), 0),
		        COALESCE(MIN(CASE WHEN won = 1 THEN duration_ms END), 0),
		        MAX(finished_at)
		   FROM games
		  GROUP BY width, height, mines
		  ORDER BY COUNT(*) DESC, width, height, mines`)
	if err != nil {
		return nil, errors.Wrap(err, "query summaries")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum          Summary
			bestMS, last int64
		)
		if err := rows.Scan(&sum.Config.Width, &sum.Config.Height, &sum.Config.Mines,
			&sum.Played, &sum.Won, &bestMS, &last); err != nil {
			return nil, errors.Wrap(err, "scan summary")
		}
		sum.Best = time.Duration(bestMS) * time.Millisecond
		sum.LastPlayed = time.UnixMilli(last).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate summaries")
	}
	return out, nil
}

// Reset deletes every recorded game.
func (s *Store) Reset(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("stats store is not open")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return errors.Wrap(err, "delete games")
	}
	return nil
}
