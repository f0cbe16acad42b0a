//go:build !windows

package paths

import "path/filepath"

func platformConfigDir() (string, error) {
	return filepath.Join(ConfigHome(), AppDir), nil
}

func platformDataDir() (string, error) {
	return filepath.Join(DataHome(), AppDir), nil
}
