package game

// Glyph is what a cell looks like to the player.
type Glyph int

const (
	Hidden Glyph = iota - 1
	Empty
	Number1
	Number2
	Number3
	Number4
	Number5
	Number6
	Number7
	Number8
	Flag
	FlagWrong    // flag on a safe cell, shown after a loss
	Mine         // unflagged mine, shown after a loss
	MineExploded // the mine that ended the game
)

// IsNumber reports whether g is Number1..Number8.
func (g Glyph) IsNumber() bool {
	return g >= Number1 && g <= Number8
}

// GlyphAt returns how the cell at (x, y) should be drawn. Out-of-bounds
// cells are Hidden.
func (b *Board) GlyphAt(x, y int) Glyph {
	if !b.inBounds(x, y) {
		return Hidden
	}
	c := b.cell(x, y)

	if b.state == Lost {
		switch {
		case b.exploded.X == x && b.exploded.Y == y:
			return MineExploded
		case c.Mine && !c.Flagged:
			return Mine
		case !c.Mine && c.Flagged:
			return FlagWrong
		}
	}

	switch {
	case c.Flagged:
		return Flag
	case !c.Revealed:
		return Hidden
	default:
		return Glyph(c.Adjacent)
	}
}
