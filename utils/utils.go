package utils

import (
	"fmt"
	"strings"
)

// TrimQuotes strips one pair of matching single or double quotes wrapping a
// path. Dropping a file onto the program on Windows passes the path quoted.
func TrimQuotes(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 {
		if (path[0] == '"' && path[len(path)-1] == '"') ||
			(path[0] == '\'' && path[len(path)-1] == '\'') {
			return path[1 : len(path)-1]
		}
	}
	return path
}

// FileExtension returns the file extension (including the dot) from a filename.
// If the filename starts with a dot and has no other dot, it returns an empty string (e.g., ".hiddenfile" -> "").
// If there is no extension, it returns an empty string.
func FileExtension(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 && i < len(filename)-1 {
		return filename[i:]
	}
	return ""
}

// FormatBytes converts bytes to human readable string
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
