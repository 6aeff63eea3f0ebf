package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-pkgz/lgr"
)

// NormalizeCaptureTimes validates and normalizes schedule trigger times to "HH:MM:SS".
// Accepts partial entries like "6" or "6:30", zero-filling missing minutes and seconds.
// Exact duplicates are logged and dropped, malformed entries fail the whole list.
// The result is unique and chronologically sorted.
func NormalizeCaptureTimes(times []string) ([]string, error) {
	seen := make(map[string]struct{}, len(times))
	res := make([]string, 0, len(times))

	for _, raw := range times {
		norm, err := normalizeTime(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid capture time %q: %w", raw, err)
		}
		if _, ok := seen[norm]; ok {
			lgr.Printf("[WARN] duplicate capture time ignored: %s", norm)
			continue
		}
		seen[norm] = struct{}{}
		res = append(res, norm)
	}

	sort.Strings(res) // HH:MM:SS sorts chronologically as text
	return res, nil
}

// normalizeTime converts "H", "H:M" or "H:M:S" to zero-padded "HH:MM:SS"
func normalizeTime(raw string) (string, error) {
	fields := strings.Split(strings.TrimSpace(raw), ":")
	if len(fields) > 3 {
		return "", fmt.Errorf("expected HH[:MM[:SS]]")
	}

	vals := [3]int{}
	for i, f := range fields {
		if f == "" {
			return "", fmt.Errorf("empty time component")
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return "", fmt.Errorf("non-numeric time component %q", f)
		}
		vals[i] = v
	}

	if vals[0] < 0 || vals[0] > 23 {
		return "", fmt.Errorf("hour out of range: %d", vals[0])
	}
	if vals[1] < 0 || vals[1] > 59 {
		return "", fmt.Errorf("minute out of range: %d", vals[1])
	}
	if vals[2] < 0 || vals[2] > 59 {
		return "", fmt.Errorf("second out of range: %d", vals[2])
	}

	return fmt.Sprintf("%02d:%02d:%02d", vals[0], vals[1], vals[2]), nil
}
