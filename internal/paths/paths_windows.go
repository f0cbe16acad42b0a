//go:build windows

package paths

import (
	"os"
	"path/filepath"
)

// platformConfigDir expands %USERPROFILE%\AppData\Local\MineSweeper. The
// profile variable is used rather than %LOCALAPPDATA% so roaming profiles
// that redirect LOCALAPPDATA still find the file where earlier releases put it.
func platformConfigDir() (string, error) {
	profile := os.Getenv("USERPROFILE")
	if profile == "" {
		home, err := ResolveHome()
		if err != nil {
			return "", err
		}
		profile = home
	}
	return filepath.Join(profile, "AppData", "Local", AppDir), nil
}

func platformDataDir() (string, error) {
	return platformConfigDir()
}
