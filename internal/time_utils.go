package internal

import (
	"fmt"
	"time"
)

const (
	// DisplayTimeFormat is the standard time format used across the application
	DisplayTimeFormat = "2006-01-02 15:04:05 MST"
	// LogTimeFormat is the short time format used in log lines
	LogTimeFormat = "15:04:05"
)

// FormatLocal formats t in the local time zone. The zero time renders as "".
func FormatLocal(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DisplayTimeFormat)
}

// FormatRemaining renders the time left until t as "1h5m left" or "expired".
func FormatRemaining(t time.Time, now time.Time) string {
	if !t.After(now) {
		return "expired"
	}
	diff := t.Sub(now)
	h := int(diff.Hours())
	m := int(diff.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm left", h, m)
	}
	return fmt.Sprintf("%dm left", m)
}
