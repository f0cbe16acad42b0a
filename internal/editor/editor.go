// Package editor launches the user's preferred text editor on a file.
package editor

import (
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/thoreinstein/minesweeper/internal/errors"
)

// Open launches the user's editor on path and waits for it to exit.
// The location is printed to w first so it is visible if the editor fails.
func Open(w io.Writer, path string) error {
	name, args := command(detectEditor())
	args = append(args, path)

	_, _ = io.WriteString(w, "Location: "+path+"\n")

	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", name)
	}
	return nil
}

// command splits an editor setting such as "code --wait" into the binary and
// its leading arguments.
func command(editor string) (string, []string) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return editor, nil
	}
	return fields[0], fields[1:]
}

// detectEditor returns the editor to run.
// Fallback chain: $EDITOR, $VISUAL, then notepad on Windows or nano, vi elsewhere.
func detectEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	if runtime.GOOS == "windows" {
		return "notepad"
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
