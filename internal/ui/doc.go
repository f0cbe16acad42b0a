// Package ui is the terminal front-end: a tcell screen that draws the board,
// maps keys and mouse clicks onto board moves and implements game.Runner.
package ui
