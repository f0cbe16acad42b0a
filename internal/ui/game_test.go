package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/game/mocks"
	"github.com/thoreinstein/minesweeper/internal/logging"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 25)
	t.Cleanup(s.Fini)
	return s
}

func runes(s tcell.SimulationScreen, keys string) {
	for _, r := range keys {
		s.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

func run(t *testing.T, g *Game) boardconfig.Config {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cfg, err := g.Run(ctx)
	require.NoError(t, err)
	return cfg
}

// row returns the text drawn on screen row y.
func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := range w {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

// cornerMine is a 3x3 board with a single mine at the top left.
func cornerMine() Option {
	return WithBoardOptions(game.WithMines(game.Point{X: 0, Y: 0}))
}

func TestGame_QuitReturnsConfig(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
	}{
		{name: "q", key: tcell.KeyRune, r: 'q'},
		{name: "escape", key: tcell.KeyEscape},
		{name: "ctrl-c", key: tcell.KeyCtrlC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScreen(t)
			s.InjectKey(tt.key, tt.r, tcell.ModNone)

			g := New(boardconfig.Config{Width: 20, Height: 20, Mines: 50},
				WithScreen(s), WithTickInterval(0), WithLogger(logging.ForTest(t)))

			assert.Equal(t, boardconfig.Config{Width: 20, Height: 20, Mines: 50}, run(t, g))
		})
	}
}

func TestGame_PresetKeySwitchesConfig(t *testing.T) {
	s := newScreen(t)
	runes(s, "2q")

	g := New(boardconfig.Default(), WithScreen(s), WithTickInterval(0), WithLogger(logging.ForTest(t)))

	assert.Equal(t, boardconfig.Config{Width: 16, Height: 16, Mines: 40}, run(t, g))
}

func TestGame_NormalizesStartingConfig(t *testing.T) {
	s := newScreen(t)
	runes(s, "q")

	g := New(boardconfig.Config{Width: 0, Height: -3, Mines: 0},
		WithScreen(s), WithTickInterval(0), WithLogger(logging.ForTest(t)))

	assert.Equal(t, boardconfig.Config{Width: 2, Height: 2, Mines: 1}, run(t, g))
}

func TestGame_WinIsRecorded(t *testing.T) {
	s := newScreen(t)
	runes(s, "lljj q")

	rec := mocks.NewMockRecorder(t)
	rec.EXPECT().
		Record(mock.Anything, mock.MatchedBy(func(r game.Result) bool {
			return r.Won && r.Config == boardconfig.Config{Width: 3, Height: 3, Mines: 1}
		})).
		Return(nil).
		Once()

	g := New(boardconfig.Config{Width: 3, Height: 3, Mines: 1},
		WithScreen(s), WithTickInterval(0), WithRecorder(rec), cornerMine(),
		WithLogger(logging.ForTest(t)))

	run(t, g)

	assert.Equal(t, game.Won, g.Board().State())
	assert.Contains(t, row(s, 1), "You win!")
}

func TestGame_MouseLeftClickOnMineLoses(t *testing.T) {
	s := newScreen(t)
	s.InjectMouse(originX, originY, tcell.Button1, tcell.ModNone)
	s.InjectMouse(originX, originY, tcell.ButtonNone, tcell.ModNone)
	runes(s, "q")

	rec := mocks.NewMockRecorder(t)
	rec.EXPECT().
		Record(mock.Anything, mock.MatchedBy(func(r game.Result) bool { return !r.Won })).
		Return(errors.New("disk full")).
		Once()

	g := New(boardconfig.Config{Width: 3, Height: 3, Mines: 1},
		WithScreen(s), WithTickInterval(0), WithRecorder(rec), cornerMine(),
		WithLogger(logging.ForTest(t)))

	// A failing recorder does not end the session.
	assert.Equal(t, boardconfig.Config{Width: 3, Height: 3, Mines: 1}, run(t, g))
	assert.Equal(t, game.Lost, g.Board().State())
	assert.Contains(t, row(s, 1), "Boom!")
}

func TestGame_MouseRightClickFlags(t *testing.T) {
	s := newScreen(t)
	s.InjectMouse(originX+cellWidth, originY, tcell.Button2, tcell.ModNone)
	s.InjectMouse(originX+cellWidth, originY, tcell.ButtonNone, tcell.ModNone)
	runes(s, "q")

	g := New(boardconfig.Config{Width: 3, Height: 3, Mines: 1},
		WithScreen(s), WithTickInterval(0), cornerMine(), WithLogger(logging.ForTest(t)))
	run(t, g)

	c, ok := g.Board().Cell(1, 0)
	require.True(t, ok)
	assert.True(t, c.Flagged)
	assert.Equal(t, 0, g.Board().MinesRemaining())
}

func TestGame_HeldButtonActsOnce(t *testing.T) {
	s := newScreen(t)
	// Two presses reported without a release in between are a drag.
	s.InjectMouse(originX, originY+1, tcell.Button2, tcell.ModNone)
	s.InjectMouse(originX, originY+1, tcell.Button2, tcell.ModNone)
	runes(s, "q")

	g := New(boardconfig.Config{Width: 3, Height: 3, Mines: 1},
		WithScreen(s), WithTickInterval(0), cornerMine(), WithLogger(logging.ForTest(t)))
	run(t, g)

	c, _ := g.Board().Cell(0, 1)
	assert.True(t, c.Flagged)
}

func TestGame_FlagUpdatesStatusLine(t *testing.T) {
	s := newScreen(t)
	runes(s, "fq")

	g := New(boardconfig.Config{Width: 5, Height: 5, Mines: 4},
		WithScreen(s), WithTickInterval(0), WithLogger(logging.ForTest(t)))
	run(t, g)

	assert.Contains(t, row(s, 1), "Mines:   3")
	assert.Contains(t, row(s, 0), "custom 5x5/4")
	assert.Equal(t, 'F', []rune(row(s, originY))[originX])
}

func TestGame_CursorStaysOnBoard(t *testing.T) {
	s := newScreen(t)
	runes(s, "hkf")
	s.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	runes(s, "fq")

	g := New(boardconfig.Config{Width: 2, Height: 2, Mines: 1},
		WithScreen(s), WithTickInterval(0), WithLogger(logging.ForTest(t)))
	run(t, g)

	first, _ := g.Board().Cell(0, 0)
	last, _ := g.Board().Cell(1, 0)
	assert.True(t, first.Flagged)
	assert.True(t, last.Flagged)
}

func TestGame_RestartKeepsConfig(t *testing.T) {
	s := newScreen(t)
	s.InjectMouse(originX, originY, tcell.Button1, tcell.ModNone)
	runes(s, "rq")

	g := New(boardconfig.Config{Width: 3, Height: 3, Mines: 1},
		WithScreen(s), WithTickInterval(0), cornerMine(), WithLogger(logging.ForTest(t)))

	assert.Equal(t, boardconfig.Config{Width: 3, Height: 3, Mines: 1}, run(t, g))
	assert.Equal(t, game.Playing, g.Board().State())
}

func TestGame_CancelledContextEndsRun(t *testing.T) {
	s := newScreen(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(boardconfig.Config{Width: 12, Height: 8, Mines: 10},
		WithScreen(s), WithLogger(logging.ForTest(t)))

	cfg, err := g.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, boardconfig.Config{Width: 12, Height: 8, Mines: 10}, cfg)
}

func TestGame_QuitLeavesSharedScreenClean(t *testing.T) {
	s := newScreen(t)
	opts := []Option{WithScreen(s), WithTickInterval(0), WithLogger(logging.ForTest(t))}

	ctx, cancel := context.WithCancel(context.Background())
	runes(s, "q")
	first, err := New(boardconfig.Config{Width: 5, Height: 5, Mines: 3}, opts...).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, boardconfig.Config{Width: 5, Height: 5, Mines: 3}, first)

	// The caller's context ending after a normal quit must not reach the
	// next session on the same screen.
	cancel()
	time.Sleep(50 * time.Millisecond)

	runes(s, "2q")
	second := run(t, New(boardconfig.Config{Width: 5, Height: 5, Mines: 3}, opts...))
	assert.Equal(t, boardconfig.Config{Width: 16, Height: 16, Mines: 40}, second)
}

func TestFactory(t *testing.T) {
	s := newScreen(t)
	runes(s, "3q")

	factory := Factory(WithScreen(s), WithTickInterval(0), WithTheme(ThemeByName("mono")))
	r := factory(boardconfig.Default())

	ctx := logging.NewContext(context.Background(), logging.ForTest(t))
	cfg, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, boardconfig.Config{Width: 30, Height: 16, Mines: 99}, cfg)
}
