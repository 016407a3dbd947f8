// Package utils provides shared helper functions.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir ensures a directory exists, creating it if necessary.
func EnsureDir(path string) (string, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}

// GetDataPath returns the voxbot data directory (~/.voxbot).
func GetDataPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".voxbot")
}

// GetLogsPath returns the default log directory.
func GetLogsPath() string {
	return filepath.Join(GetDataPath(), "logs")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[1:])
	}
	return p
}

// TruncateString truncates a string to maxLen, adding suffix if truncated.
func TruncateString(s string, maxLen int, suffix string) string {
	if len(s) <= maxLen {
		return s
	}
	if suffix == "" {
		suffix = "..."
	}
	cutoff := maxLen - len(suffix)
	if cutoff < 0 {
		cutoff = 0
	}
	return s[:cutoff] + suffix
}

// NormalizeUtterance trims surrounding whitespace and lower-cases s.
func NormalizeUtterance(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
