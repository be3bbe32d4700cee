package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MARK: ParseDuration
// Parses an integer+unit duration string (units: s, ms, m).
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty duration")
	}

	for _, unit := range []string{"ms", "s", "m"} {
		if strings.HasSuffix(raw, unit) {
			numPart := strings.TrimSuffix(raw, unit)
			n, err := strconv.ParseInt(numPart, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("parsing duration %q: %w", raw, err)
			}
			switch unit {
			case "ms":
				return time.Duration(n) * time.Millisecond, nil
			case "s":
				return time.Duration(n) * time.Second, nil
			case "m":
				return time.Duration(n) * time.Minute, nil
			}
		}
	}

	return 0, fmt.Errorf("parsing duration %q: unrecognized unit (want s, ms, or m)", raw)
}

// MARK: ParseSize
// Parses an integer+unit byte-size string (units: B, KB, MB).
func ParseSize(raw string) (int64, error) {
	raw = strings.TrimSpace(strings.ToUpper(raw))
	if raw == "" {
		return 0, fmt.Errorf("empty size")
	}

	unit := ""
	numPart := raw
	for _, candidate := range []string{"KB", "MB", "B"} {
		if strings.HasSuffix(raw, candidate) {
			unit = candidate
			numPart = strings.TrimSuffix(raw, candidate)
			break
		}
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing size %q: %w", raw, err)
	}

	switch unit {
	case "KB":
		return n * 1024, nil
	case "MB":
		return n * 1024 * 1024, nil
	default:
		return n, nil
	}
}
