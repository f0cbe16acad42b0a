package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/errors"
	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/logging"
)

// DefaultTickInterval is how often the timer on the status line is redrawn.
const DefaultTickInterval = time.Second

// Board layout on screen: title, status, blank line, then the board.
const (
	originX   = 1
	originY   = 3
	cellWidth = 2
)

type tickEvent struct{}

type cancelEvent struct{}

// Game is a terminal minesweeper session. It implements game.Runner.
type Game struct {
	cfg   boardconfig.Config
	board *game.Board
	id    uuid.UUID

	cursor   game.Point
	buttons  tcell.ButtonMask
	recorded bool

	screen    tcell.Screen
	newScreen func() (tcell.Screen, error)
	theme     Theme
	tick      time.Duration
	recorder  game.Recorder
	boardOpts []game.Option
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithScreen runs the game on s instead of the terminal. The caller owns s:
// it must already be initialized and Run does not finalize it.
func WithScreen(s tcell.Screen) Option {
	return func(g *Game) {
		g.screen = s
	}
}

// WithTheme sets the colour theme.
func WithTheme(t Theme) Option {
	return func(g *Game) {
		g.theme = t
	}
}

// WithTickInterval sets the timer redraw interval. Zero disables the timer
// goroutine.
func WithTickInterval(d time.Duration) Option {
	return func(g *Game) {
		g.tick = d
	}
}

// WithRecorder reports every finished game to r.
func WithRecorder(r game.Recorder) Option {
	return func(g *Game) {
		g.recorder = r
	}
}

// WithBoardOptions passes opts to every board the game creates.
func WithBoardOptions(opts ...game.Option) Option {
	return func(g *Game) {
		g.boardOpts = append(g.boardOpts, opts...)
	}
}

// WithClock overrides the wall clock used for results and board timing.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger sets the logger. Without it the logger comes from the context
// passed to Run.
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// New returns a Game that starts with cfg.
func New(cfg boardconfig.Config, opts ...Option) *Game {
	g := &Game{
		cfg:       game.Normalize(cfg),
		newScreen: tcell.NewScreen,
		theme:     classicTheme(),
		tick:      DefaultTickInterval,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Factory returns a game.Factory that builds Games with opts.
func Factory(opts ...Option) game.Factory {
	return func(cfg boardconfig.Config) game.Runner {
		return New(cfg, opts...)
	}
}

// Config returns the configuration of the board in play.
func (g *Game) Config() boardconfig.Config {
	if g.board != nil {
		return g.board.Config()
	}
	return g.cfg
}

// Board returns the board in play, or nil before Run.
func (g *Game) Board() *game.Board {
	return g.board
}

// Run plays until the player quits or ctx is cancelled and returns the
// configuration of the board in play.
func (g *Game) Run(ctx context.Context) (boardconfig.Config, error) {
	if g.logger == nil {
		g.logger = logging.FromContext(ctx)
	}

	screen := g.screen
	if screen == nil {
		s, err := g.newScreen()
		if err != nil {
			return g.cfg, errors.Wrap(err, "failed to open terminal")
		}
		if err := s.Init(); err != nil {
			return g.cfg, errors.Wrap(err, "failed to initialize terminal")
		}
		defer s.Fini()
		screen = s
	}
	screen.EnableMouse()
	screen.HideCursor()

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	defer close(done)

	g.restart(g.cfg)

	if g.tick > 0 {
		go g.runTicker(ctx, screen)
	}
	// Only a cancellation from the caller ends the loop; returning normally
	// must not leave an event behind on a screen the caller owns.
	go func() {
		select {
		case <-parent.Done():
			select {
			case <-done:
			default:
				_ = screen.PostEvent(tcell.NewEventInterrupt(cancelEvent{}))
			}
		case <-done:
		}
	}()

	for {
		g.draw(screen)

		ev := screen.PollEvent()
		if ev == nil {
			break
		}
		if g.handle(ctx, screen, ev) {
			break
		}
	}

	cfg := g.Config()
	g.logger.Debug("game closed", "config", cfg.String())
	return cfg, nil
}

func (g *Game) runTicker(ctx context.Context, screen tcell.Screen) {
	t := time.NewTicker(g.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = screen.PostEvent(tcell.NewEventInterrupt(tickEvent{}))
		}
	}
}

// restart begins a new game with cfg.
func (g *Game) restart(cfg boardconfig.Config) {
	opts := append([]game.Option{game.WithClock(g.now)}, g.boardOpts...)
	g.board = game.NewBoard(cfg, opts...)
	g.cfg = g.board.Config()
	g.id = uuid.New()
	g.recorded = false
	g.cursor = game.Point{
		X: min(g.cursor.X, g.board.Width()-1),
		Y: min(g.cursor.Y, g.board.Height()-1),
	}
	g.logger.Debug("new game", "game_id", g.id.String(), "config", g.cfg.String())
}

// handle applies one event. It reports whether the game should quit.
func (g *Game) handle(ctx context.Context, screen tcell.Screen, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.logger.Log(ctx, logging.LevelTrace, "key", "key", ev.Name())
		return g.handleKey(ctx, ev)
	case *tcell.EventMouse:
		g.handleMouse(ctx, ev)
	case *tcell.EventResize:
		screen.Sync()
	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(cancelEvent); ok {
			return true
		}
	}
	return false
}

func (g *Game) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		g.move(0, -1)
	case tcell.KeyDown:
		g.move(0, 1)
	case tcell.KeyLeft:
		g.move(-1, 0)
	case tcell.KeyRight:
		g.move(1, 0)
	case tcell.KeyEnter:
		g.reveal(ctx, g.cursor)
	case tcell.KeyRune:
		return g.handleRune(ctx, ev.Rune())
	}
	return false
}

func (g *Game) handleRune(ctx context.Context, r rune) bool {
	switch r {
	case 'q', 'Q':
		return true
	case 'h':
		g.move(-1, 0)
	case 'j':
		g.move(0, 1)
	case 'k':
		g.move(0, -1)
	case 'l':
		g.move(1, 0)
	case ' ':
		g.reveal(ctx, g.cursor)
	case 'f', 'F':
		g.board.ToggleFlag(g.cursor.X, g.cursor.Y)
	case 'c', 'C':
		g.board.Chord(g.cursor.X, g.cursor.Y)
		g.finish(ctx)
	case 'r', 'R':
		g.restart(g.cfg)
	case '1', '2', '3':
		presets := game.Presets()
		p := presets[int(r-'1')]
		g.logger.Info("preset selected", "preset", p.Name)
		g.restart(p.Config)
	}
	return false
}

func (g *Game) handleMouse(ctx context.Context, ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons &^ g.buttons
	g.buttons = buttons
	if pressed == tcell.ButtonNone {
		return
	}

	mx, my := ev.Position()
	p := game.Point{X: (mx - originX) / cellWidth, Y: my - originY}
	if mx < originX || my < originY || p.X >= g.board.Width() || p.Y >= g.board.Height() {
		return
	}
	g.cursor = p

	switch {
	case pressed&tcell.Button1 != 0:
		g.reveal(ctx, p)
	case pressed&tcell.Button2 != 0:
		g.board.ToggleFlag(p.X, p.Y)
	case pressed&tcell.Button3 != 0:
		g.board.Chord(p.X, p.Y)
		g.finish(ctx)
	}
}

// reveal opens p, or chords when p is an already revealed number.
func (g *Game) reveal(ctx context.Context, p game.Point) {
	if c, ok := g.board.Cell(p.X, p.Y); ok && c.Revealed && c.Adjacent > 0 {
		g.board.Chord(p.X, p.Y)
	} else {
		g.board.Reveal(p.X, p.Y)
	}
	g.finish(ctx)
}

func (g *Game) move(dx, dy int) {
	g.cursor.X = min(max(g.cursor.X+dx, 0), g.board.Width()-1)
	g.cursor.Y = min(max(g.cursor.Y+dy, 0), g.board.Height()-1)
}

// finish records the game once it is over.
func (g *Game) finish(ctx context.Context) {
	if g.recorded || g.board.State() == game.Playing {
		return
	}
	g.recorded = true

	res := game.NewResult(g.id, g.board, g.now())
	g.logger.Info("game finished",
		"game_id", res.ID.String(),
		"config", res.Config.String(),
		"won", res.Won,
		"duration", res.Duration.Round(time.Millisecond),
	)
	if g.recorder == nil {
		return
	}
	if err := g.recorder.Record(ctx, res); err != nil {
		g.logger.Warn("failed to record game", "game_id", res.ID.String(), "error", err)
	}
}

func (g *Game) draw(screen tcell.Screen) {
	screen.Clear()

	title := fmt.Sprintf("MINESWEEPER  %s %s", game.PresetFor(g.cfg), g.cfg)
	putString(screen, originX, 0, g.theme.Status, title)
	g.drawStatus(screen)

	for y := range g.board.Height() {
		for x := range g.board.Width() {
			glyph := g.board.GlyphAt(x, y)
			style := g.theme.style(glyph)
			if x == g.cursor.X && y == g.cursor.Y {
				style = style.Reverse(true)
			}
			screen.SetContent(originX+x*cellWidth, originY+y, glyphRune(glyph), nil, style)
		}
	}

	help := "arrows/hjkl move  space reveal  f flag  c chord  r restart  1-3 preset  q quit"
	putString(screen, originX, originY+g.board.Height()+1, g.theme.Help, help)

	screen.Show()
}

func (g *Game) drawStatus(screen tcell.Screen) {
	secs := int(g.board.Elapsed() / time.Second)
	status := fmt.Sprintf("Mines: %3d  Time: %3d", g.board.MinesRemaining(), secs)
	x := putString(screen, originX, 1, g.theme.Status, status)

	switch g.board.State() {
	case game.Won:
		putString(screen, x+2, 1, g.theme.Won, "You win! r: new game")
	case game.Lost:
		putString(screen, x+2, 1, g.theme.Lost, "Boom! r: try again")
	}
}

// putString draws s starting at (x, y) and returns the column after it.
func putString(screen tcell.Screen, x, y int, style tcell.Style, s string) int {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
