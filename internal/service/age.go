package service

import (
	"fmt"
	"time"
)

// DataAge buckets now-ts into a human-relative label. A zero ts yields "".
func DataAge(now, ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	d := now.Sub(ts)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%d days ago", int(d/(24*time.Hour)))
	}
}
