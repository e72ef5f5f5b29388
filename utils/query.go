package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func ParseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		return v
	}
	return def
}

// ParseTimeParam accepts RFC3339 or a bare YYYY-MM-DD (midnight UTC).
// An empty string yields nil.
func ParseTimeParam(s string) (*time.Time, error) {
	t, _, err := parseTime(s)
	return t, err
}

// ParseEndTimeParam parses an exclusive upper bound. A bare date means the end
// of that day, so "to=2025-03-07" still includes the 7th.
func ParseEndTimeParam(s string) (*time.Time, error) {
	t, dateOnly, err := parseTime(s)
	if err != nil || t == nil || !dateOnly {
		return t, err
	}
	end := t.AddDate(0, 0, 1)
	return &end, nil
}

func parseTime(s string) (*time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, false, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		return &t, true, nil
	}
	return nil, false, fmt.Errorf("invalid time %q: want RFC3339 or YYYY-MM-DD", s)
}
