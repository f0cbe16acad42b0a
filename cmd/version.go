// Package cmd holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/thoreinstein/minesweeper/cmd.Version=1.2.0"
package cmd

import "fmt"

// Build-time variables set via ldflags.
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)

// BuildInfo renders the version line printed by `minesweeper version`.
func BuildInfo() string {
	return fmt.Sprintf("minesweeper %s (commit %s, built %s)", Version, Commit, Date)
}
