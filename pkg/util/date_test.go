package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestDateKSTCrossesMidnight(t *testing.T) {
    // 16:00 UTC is already the next calendar day in KST (UTC+9).
    got := DateKST(time.Date(2024, 10, 10, 16, 0, 0, 0, time.UTC))
    if got != "2024-10-11" {
        t.Fatalf("unexpected date %s", got)
    }
}

func TestParseDateKST(t *testing.T) {
    got, ok := ParseDateKST("2024-10-11")
    if !ok {
        t.Fatalf("expected ok")
    }
    if DateKST(got) != "2024-10-11" {
        t.Fatalf("round trip mismatch: %v", got)
    }
    if got.UTC().Hour() != 15 {
        t.Fatalf("midnight KST should be 15:00 UTC the prior day, got %v", got.UTC())
    }
}

func TestParseDateKSTInvalid(t *testing.T) {
    if _, ok := ParseDateKST("not-a-date"); ok {
        t.Fatalf("expected failure")
    }
}