// Package errors provides error handling conventions for the minesweeper CLI.
//
// It re-exports the construction and inspection helpers of
// github.com/cockroachdb/errors, defines sentinel errors for common failure
// conditions, and provides an ExitError type that carries a process exit code.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, settings, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, terminal)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion:
//
//	err := errors.NewUserError(errors.ErrUnknownPreset, "Run: minesweeper preset")
//	os.Exit(errors.ExitCode(err))
package errors
