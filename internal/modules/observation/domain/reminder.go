package domain

import "time"

// IsStale reports whether engagement was last assessed more than threshold ago.
func IsStale(now, lastPing time.Time, threshold time.Duration) bool {
	return now.Sub(lastPing) > threshold
}
