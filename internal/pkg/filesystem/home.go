package filesystem

import (
	"os"
	"path/filepath"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppPath joins elem under ~/.notecalc.
func AppPath(elem ...string) string {
	parts := append([]string{UserHomeDir(), ".notecalc"}, elem...)
	return filepath.Join(parts...)
}
