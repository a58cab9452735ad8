package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// ReadTextFile loads a file for the editor, rejecting directories and
// unreadable paths with messages fit for the status line.
func ReadTextFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file does not exist: %s", path)
		}
		return "", fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return string(data), nil
}

func FormatDuration(duration time.Duration) string {
	if duration < time.Second {
		return fmt.Sprintf("%d ms", duration.Milliseconds())
	}

	if duration < time.Minute {
		return fmt.Sprintf("%.1f sec", duration.Seconds())
	}

	if duration < time.Hour {
		return fmt.Sprintf("%.1f min", duration.Minutes())
	}

	return fmt.Sprintf("%.1f hrs", duration.Hours())
}

func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.1f %s", float64(size)/float64(div), units[exp])
}

func FormatNumber(num int) string {
	if num < 1000 {
		return strconv.Itoa(num)
	}

	if num < 1000000 {
		return fmt.Sprintf("%.1fK", float64(num)/1000.0)
	}

	return fmt.Sprintf("%.1fM", float64(num)/1000000.0)
}

func SanitizeFilename(filename string) string {
	filename = strings.TrimSpace(filename)
	filename = invalidNameChars.ReplaceAllString(filename, "_")

	if len(filename) > 255 {
		ext := filepath.Ext(filename)
		filename = filename[:255-len(ext)] + ext
	}

	if filename == "" {
		filename = "unnamed"
	}

	return filename
}

// CleanFilename strips surrounding whitespace and quotes before
// sanitizing the name portion, which covers paths pasted from a
// shell. Directory components pass through untouched; blank input
// stays blank so callers can fall back to a default name.
func CleanFilename(filename string) string {
	cleaned := strings.TrimSpace(filename)
	cleaned = strings.Trim(cleaned, "\"'")
	if cleaned == "" {
		return ""
	}
	dir, base := filepath.Split(cleaned)
	return dir + SanitizeFilename(base)
}

func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}

	if maxLength <= 3 {
		return s[:maxLength]
	}

	return s[:maxLength-3] + "..."
}
