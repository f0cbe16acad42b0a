package game

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thoreinstein/minesweeper/internal/boardconfig"
	"github.com/thoreinstein/minesweeper/internal/errors"
)

// Preset is a named board configuration.
type Preset struct {
	Name   string
	Config boardconfig.Config
}

// Title is the display form of the preset name, e.g. "Medium".
func (p Preset) Title() string {
	return cases.Title(language.English).String(p.Name)
}

var presets = []Preset{
	{Name: "easy", Config: boardconfig.Default()},
	{Name: "medium", Config: boardconfig.Config{Width: 16, Height: 16, Mines: 40}},
	{Name: "hard", Config: boardconfig.Config{Width: 30, Height: 16, Mines: 99}},
}

// Presets returns the built-in difficulties, easiest first.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by case-insensitive name.
func LookupPreset(name string) (Preset, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == n {
			return p, nil
		}
	}
	return Preset{}, errors.Wrapf(errors.ErrUnknownPreset, "%q (valid: %s)", name, strings.Join(PresetNames(), ", "))
}

// PresetNames returns the preset names in order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

// PresetFor returns the name of the preset equal to cfg, or "custom".
func PresetFor(cfg boardconfig.Config) string {
	for _, p := range presets {
		if p.Config == cfg {
			return p.Name
		}
	}
	return "custom"
}
