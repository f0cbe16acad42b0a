// Package settings handles minesweeper's preference file.
//
// The board configuration (config.txt) records what was played last and is
// rewritten on every exit. Preferences live next to it in settings.yaml and
// only change when the user asks:
//
//	safe_first_click: true
//	theme: classic   # or mono
//	seed: 0          # non-zero fixes mine placement
//	stats: true
//
// Every key can be overridden with a MINESWEEPER_ environment variable, for
// example MINESWEEPER_THEME=mono.
//
//	settings.Init()
//	s, err := settings.Load("")
package settings
