package util

import (
	"strconv"
	"time"
)

// KST is the exchange-local timezone used for daily bar calendar dates.
var KST = time.FixedZone("KST", 9*60*60)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// DateKST formats t as a calendar date in the exchange-local timezone.
func DateKST(t time.Time) string {
	return t.In(KST).Format("2006-01-02")
}

// ParseDateKST parses a yyyy-MM-dd date string as midnight KST.
func ParseDateKST(s string) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", s, KST)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
