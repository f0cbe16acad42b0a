// Package paths resolves the per-user locations minesweeper reads and writes.
//
// On Windows the board configuration lives at
// %USERPROFILE%\AppData\Local\MineSweeper\config.txt. Other systems follow
// the XDG Base Directory layout through github.com/adrg/xdg:
//
//	| File          | Linux                                 |
//	|---------------|---------------------------------------|
//	| config.txt    | ~/.config/MineSweeper/config.txt      |
//	| settings.yaml | ~/.config/MineSweeper/settings.yaml   |
//	| stats.db      | ~/.local/share/MineSweeper/stats.db   |
//
// Setting MINESWEEPER_CONFIG_DIR moves all three into one directory, which is
// what the tests do.
package paths
