package game

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
)

// Runner is a game session. Run blocks until the player quits and returns
// the board configuration in play at that moment, which is what gets saved.
type Runner interface {
	Run(ctx context.Context) (boardconfig.Config, error)
}

// Factory constructs a Runner for a starting configuration.
type Factory func(cfg boardconfig.Config) Runner

// Result is one finished game.
type Result struct {
	ID         uuid.UUID
	Config     boardconfig.Config
	Won        bool
	Duration   time.Duration
	FinishedAt time.Time
}

// Recorder receives finished games.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// NewResult builds the Result of a board that is no longer Playing.
func NewResult(id uuid.UUID, b *Board, finishedAt time.Time) Result {
	return Result{
		ID:         id,
		Config:     b.Config(),
		Won:        b.State() == Won,
		Duration:   b.Elapsed(),
		FinishedAt: finishedAt,
	}
}
