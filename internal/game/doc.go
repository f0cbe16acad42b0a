// Package game holds the minesweeper board model and the contract between
// the command line and whatever front-end runs a session.
//
// A session is constructed from a board configuration and run to
// completion:
//
//	var newGame game.Factory = ui.Factory(opts...)
//	final, err := newGame(cfg).Run(ctx)
//
// Board implements the rules: lazy mine placement with a safe first click,
// flood-fill reveal, flags, chording and win/loss detection.
package game
