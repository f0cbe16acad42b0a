// Package logging provides structured logging for the minesweeper CLI using slog.
//
// While a game is running the terminal belongs to the board, so the default
// level is Warn and anything more verbose is meant for --log-file, which
// always receives JSON.
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//		File:   f,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Packages that receive a context retrieve the logger with [FromContext].
// Tests use [ForTest] so output only appears for failing tests.
package logging
