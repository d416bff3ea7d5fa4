package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/memorymusicllc/pow3r/schema"
)

// Color variables for console output, one per legacy phase.
var (
	GreenColor  = color.New(color.FgGreen, color.Bold)  // stable / built
	OrangeColor = color.New(color.FgYellow)             // active development
	RedColor    = color.New(color.FgRed, color.Bold)    // blocked or broken
	GrayColor   = color.New(color.FgHiBlack)            // dormant / archived
	CyanColor   = color.New(color.FgCyan)               // informational
	BoldColor   = color.New(color.FgHiWhite, color.Bold)
)

// GetPlainStateLabel returns the plain text label for a lifecycle state.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainStateLabel(state schema.NodeState) string {
	return string(state)
}

// GetColorStateLabel returns a colored text label for console output (table).
// The color follows the state's legacy phase projection.
func GetColorStateLabel(state schema.NodeState) string {
	text := GetPlainStateLabel(state)
	switch schema.ConvertNewToLegacy(state) {
	case schema.PhaseGreen:
		return GreenColor.Sprint(text)
	case schema.PhaseOrange:
		return OrangeColor.Sprint(text)
	case schema.PhaseRed:
		return RedColor.Sprint(text)
	default: // gray
		return GrayColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "vendor/", "node_modules/", "*.min.js".
func ShouldIgnore(path string, excludes []string) bool {
	base := filepath.Base(path)
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		// If the pattern contains glob characters, try filepath.Match.
		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *.min.js)
			if ok, err := filepath.Match(pat, base); err == nil && ok {
				return true
			}
			continue
		}

		// Handle prefix, suffix, or exact-name matches
		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) || base == ex {
				return true
			}
		case base == ex:
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for scan cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pow3r_cache.db"
	}
	return filepath.Join(homeDir, ".pow3r_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for scan history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pow3r_history.db"
	}
	return filepath.Join(homeDir, ".pow3r_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and
// at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
