package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/thoreinstein/minesweeper/internal/game"
	"github.com/thoreinstein/minesweeper/internal/settings"
)

// Theme is the palette used to draw the board.
type Theme struct {
	Hidden   tcell.Style
	Empty    tcell.Style
	Flag     tcell.Style
	Wrong    tcell.Style
	Mine     tcell.Style
	Exploded tcell.Style
	Numbers  [9]tcell.Style // indexed by adjacent mine count
	Status   tcell.Style
	Won      tcell.Style
	Lost     tcell.Style
	Help     tcell.Style
}

// ThemeByName returns the theme for a settings value. Unknown names get
// the classic theme.
func ThemeByName(name string) Theme {
	if name == settings.ThemeMono {
		return monoTheme()
	}
	return classicTheme()
}

func classicTheme() Theme {
	def := tcell.StyleDefault
	t := Theme{
		Hidden:   def.Foreground(tcell.ColorGray),
		Empty:    def,
		Flag:     def.Foreground(tcell.ColorRed).Bold(true),
		Wrong:    def.Foreground(tcell.ColorYellow).Bold(true),
		Mine:     def.Foreground(tcell.ColorWhite).Bold(true),
		Exploded: def.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true),
		Status:   def.Bold(true),
		Won:      def.Foreground(tcell.ColorGreen).Bold(true),
		Lost:     def.Foreground(tcell.ColorRed).Bold(true),
		Help:     def.Foreground(tcell.ColorGray),
	}
	colors := [9]tcell.Color{
		tcell.ColorDefault,
		tcell.ColorBlue,
		tcell.ColorGreen,
		tcell.ColorRed,
		tcell.ColorNavy,
		tcell.ColorMaroon,
		tcell.ColorTeal,
		tcell.ColorPurple,
		tcell.ColorGray,
	}
	for i, c := range colors {
		t.Numbers[i] = def.Foreground(c).Bold(i > 0)
	}
	return t
}

func monoTheme() Theme {
	def := tcell.StyleDefault
	t := Theme{
		Hidden:   def.Dim(true),
		Empty:    def,
		Flag:     def.Bold(true),
		Wrong:    def.Bold(true).Underline(true),
		Mine:     def.Bold(true),
		Exploded: def.Reverse(true),
		Status:   def.Bold(true),
		Won:      def.Bold(true),
		Lost:     def.Bold(true),
		Help:     def.Dim(true),
	}
	for i := range t.Numbers {
		t.Numbers[i] = def
	}
	return t
}

// glyphRune maps a glyph to the character drawn for it.
func glyphRune(g game.Glyph) rune {
	switch {
	case g == game.Hidden:
		return '#'
	case g == game.Empty:
		return '.'
	case g.IsNumber():
		return rune('0' + int(g))
	case g == game.Flag:
		return 'F'
	case g == game.FlagWrong:
		return 'X'
	default:
		return '*'
	}
}

func (t Theme) style(g game.Glyph) tcell.Style {
	switch {
	case g == game.Hidden:
		return t.Hidden
	case g == game.Empty:
		return t.Empty
	case g.IsNumber():
		return t.Numbers[int(g)]
	case g == game.Flag:
		return t.Flag
	case g == game.FlagWrong:
		return t.Wrong
	case g == game.MineExploded:
		return t.Exploded
	default:
		return t.Mine
	}
}
