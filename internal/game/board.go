package game

import (
	"math/rand/v2"
	"time"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
)

// State is the state of a board.
type State int

const (
	// Playing means cells can still be revealed.
	Playing State = iota
	// Won means every safe cell has been revealed.
	Won
	// Lost means a mine was revealed.
	Lost
)

func (s State) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "playing"
	}
}

// Point is a cell coordinate. X is the column, Y the row.
type Point struct {
	X, Y int
}

// Cell is one square of the board.
type Cell struct {
	Mine     bool
	Revealed bool
	Flagged  bool
	Adjacent int // mines in the eight surrounding cells
}

// Board is a minesweeper field. The zero value is not usable; use NewBoard.
//
// Mines are placed on the first reveal so the first cell is never a mine.
// With safe first click enabled its neighbours are kept clear as well,
// which guarantees an opening.
type Board struct {
	width, height, mines int

	cells []Cell
	rng   *rand.Rand
	now   func() time.Time

	safeFirstClick bool
	placed         bool

	revealed int // revealed safe cells
	flags    int
	state    State
	exploded Point

	startedAt time.Time
	endedAt   time.Time
}

// Option configures a Board.
type Option func(*Board)

// WithRand sets the random source used to place mines.
func WithRand(r *rand.Rand) Option {
	return func(b *Board) {
		if r != nil {
			b.rng = r
		}
	}
}

// WithSeed places mines from a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithSafeFirstClick keeps the first revealed cell's neighbours free of mines.
func WithSafeFirstClick(safe bool) Option {
	return func(b *Board) {
		b.safeFirstClick = safe
	}
}

// WithMines places mines at the given points immediately instead of on the
// first reveal. The mine count becomes the number of distinct in-bounds
// points.
func WithMines(points ...Point) Option {
	return func(b *Board) {
		b.mines = 0
		for _, p := range points {
			if b.inBounds(p.X, p.Y) && !b.cell(p.X, p.Y).Mine {
				b.cell(p.X, p.Y).Mine = true
				b.mines++
			}
		}
		b.placed = true
		b.computeAdjacent()
	}
}

// WithClock overrides time.Now for elapsed time tracking.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBoard creates a board for cfg after normalizing it.
func NewBoard(cfg boardconfig.Config, opts ...Option) *Board {
	cfg = Normalize(cfg)
	b := &Board{
		width:          cfg.Width,
		height:         cfg.Height,
		mines:          cfg.Mines,
		cells:          make([]Cell, cfg.Width*cfg.Height),
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:            time.Now,
		safeFirstClick: true,
		exploded:       Point{-1, -1},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the configuration the board was built with.
func (b *Board) Config() boardconfig.Config {
	return boardconfig.Config{Width: b.width, Height: b.height, Mines: b.mines}
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// State returns the current state.
func (b *Board) State() State { return b.state }

// Exploded returns the mine that ended the game, or (-1, -1).
func (b *Board) Exploded() Point { return b.exploded }

// Cell returns a copy of the cell at (x, y). ok is false when out of bounds.
func (b *Board) Cell(x, y int) (c Cell, ok bool) {
	if !b.inBounds(x, y) {
		return Cell{}, false
	}
	return *b.cell(x, y), true
}

// MinesRemaining returns mines minus flags. It goes negative when the player
// over-flags.
func (b *Board) MinesRemaining() int {
	return b.mines - b.flags
}

// Elapsed returns time since the first reveal, frozen once the game ends.
func (b *Board) Elapsed() time.Duration {
	switch {
	case b.startedAt.IsZero():
		return 0
	case !b.endedAt.IsZero():
		return b.endedAt.Sub(b.startedAt)
	default:
		return b.now().Sub(b.startedAt)
	}
}

// Reveal opens the cell at (x, y). Out-of-bounds, flagged and already
// revealed cells are ignored, as is any move after the game ended.
// Revealing a cell with no adjacent mines opens its whole empty region.
func (b *Board) Reveal(x, y int) State {
	if b.state != Playing || !b.inBounds(x, y) {
		return b.state
	}
	c := b.cell(x, y)
	if c.Revealed || c.Flagged {
		return b.state
	}

	if !b.placed {
		b.placeMines(Point{x, y})
	}
	if b.startedAt.IsZero() {
		b.startedAt = b.now()
	}

	if c.Mine {
		b.lose(Point{x, y})
		return b.state
	}

	b.flood(x, y)
	b.checkWin()
	return b.state
}

// ToggleFlag flags or unflags a hidden cell.
func (b *Board) ToggleFlag(x, y int) {
	if b.state != Playing || !b.inBounds(x, y) {
		return
	}
	c := b.cell(x, y)
	if c.Revealed {
		return
	}
	c.Flagged = !c.Flagged
	if c.Flagged {
		b.flags++
	} else {
		b.flags--
	}
}

// Chord reveals every unflagged neighbour of a revealed number whose
// adjacent flag count matches it. It is a no-op otherwise.
func (b *Board) Chord(x, y int) State {
	if b.state != Playing || !b.inBounds(x, y) {
		return b.state
	}
	c := b.cell(x, y)
	if !c.Revealed || c.Adjacent == 0 {
		return b.state
	}

	flagged := 0
	b.neighbours(x, y, func(nx, ny int) {
		if b.cell(nx, ny).Flagged {
			flagged++
		}
	})
	if flagged != c.Adjacent {
		return b.state
	}

	b.neighbours(x, y, func(nx, ny int) {
		b.Reveal(nx, ny)
	})
	return b.state
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) cell(x, y int) *Cell {
	return &b.cells[y*b.width+x]
}

func (b *Board) neighbours(x, y int, fn func(nx, ny int)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if nx, ny := x+dx, y+dy; b.inBounds(nx, ny) {
				fn(nx, ny)
			}
		}
	}
}

// placeMines scatters b.mines mines, never on first and, when possible and
// enabled, never next to it.
func (b *Board) placeMines(first Point) {
	excluded := func(i int) bool {
		x, y := i%b.width, i/b.width
		if x == first.X && y == first.Y {
			return true
		}
		if !b.safeFirstClick {
			return false
		}
		return abs(x-first.X) <= 1 && abs(y-first.Y) <= 1
	}

	candidates := make([]int, 0, len(b.cells))
	for i := range b.cells {
		if !excluded(i) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) < b.mines {
		// Too dense for a safe opening; only the clicked cell stays clear.
		candidates = candidates[:0]
		for i := range b.cells {
			if i != first.Y*b.width+first.X {
				candidates = append(candidates, i)
			}
		}
	}

	b.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, i := range candidates[:b.mines] {
		b.cells[i].Mine = true
	}

	b.placed = true
	b.computeAdjacent()
}

func (b *Board) computeAdjacent() {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			n := 0
			b.neighbours(x, y, func(nx, ny int) {
				if b.cell(nx, ny).Mine {
					n++
				}
			})
			b.cell(x, y).Adjacent = n
		}
	}
}

// flood reveals (x, y) and, through zero cells, the region around it.
func (b *Board) flood(x, y int) {
	stack := []Point{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := b.cell(p.X, p.Y)
		if c.Revealed || c.Flagged || c.Mine {
			continue
		}
		c.Revealed = true
		b.revealed++

		if c.Adjacent == 0 {
			b.neighbours(p.X, p.Y, func(nx, ny int) {
				if !b.cell(nx, ny).Revealed {
					stack = append(stack, Point{nx, ny})
				}
			})
		}
	}
}

func (b *Board) checkWin() {
	if b.revealed != len(b.cells)-b.mines {
		return
	}
	b.state = Won
	b.endedAt = b.now()
	for i := range b.cells {
		if b.cells[i].Mine && !b.cells[i].Flagged {
			b.cells[i].Flagged = true
			b.flags++
		}
	}
}

func (b *Board) lose(at Point) {
	b.state = Lost
	b.endedAt = b.now()
	b.exploded = at
	b.cell(at.X, at.Y).Revealed = true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
