package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Define the regular expression to capture "N [units]".
var lookbackDurationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)

// ParseLookbackDuration converts strings like "3 months" or "720h" into a single time.Duration.
// It first tries Go's built-in time.ParseDuration for standard formats, then falls back
// to custom parsing for human-readable formats.
func ParseLookbackDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Try Go's built-in duration parsing first (e.g., "720h", "168h", "30m")
	if duration, err := time.ParseDuration(s); err == nil {
		if duration == 0 {
			return 0, errors.New("zero duration is not useful")
		}
		return duration, nil
	}

	// Fall back to custom parsing for human-readable formats (e.g., "30 days", "2 weeks")
	s = strings.ToLower(s)
	matches := lookbackDurationRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	var totalDuration time.Duration

	switch unit {
	case "year":
		// Approximation: 1 year ≈ 365 days
		totalDuration = time.Duration(value) * 365 * 24 * time.Hour
	case "month":
		// Approximation: 1 month ≈ 30 days
		totalDuration = time.Duration(value) * 30 * 24 * time.Hour
	case "week":
		totalDuration = time.Duration(value) * 7 * 24 * time.Hour
	case "day":
		totalDuration = time.Duration(value) * 24 * time.Hour
	case "hour":
		totalDuration = time.Duration(value) * time.Hour
	case "minute":
		totalDuration = time.Duration(value) * time.Minute
	default:
		// Should be caught by the regex
		return 0, errors.New("unsupported time unit")
	}

	if totalDuration == 0 {
		return 0, errors.New("zero duration is not useful")
	}

	return totalDuration, nil
}

// DaysBetween computes the whole number of days from start to end.
func DaysBetween(start, end time.Time) int {
	if start.IsZero() || end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / (24 * time.Hour))
}
