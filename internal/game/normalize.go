package game

import "github.com/thoreinstein/minesweeper/internal/boardconfig"

// Dimension limits for a playable board.
const (
	MinDimension = 2
	MaxDimension = 99
)

// Normalize clamps cfg into a playable configuration: both dimensions in
// [MinDimension, MaxDimension] and between 1 and width*height-1 mines.
// The loader passes whatever the file holds; this is where it becomes legal.
func Normalize(cfg boardconfig.Config) boardconfig.Config {
	cfg.Width = clamp(cfg.Width, MinDimension, MaxDimension)
	cfg.Height = clamp(cfg.Height, MinDimension, MaxDimension)
	cfg.Mines = clamp(cfg.Mines, 1, cfg.Width*cfg.Height-1)
	return cfg
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
