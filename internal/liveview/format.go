package liveview

import (
	"fmt"
	"time"

	"github.com/livescope/livescope/internal/safe"
)

// prettyDuration renders a nanosecond count in the largest unit that keeps
// the value readable, matching the time columns of the view.
func prettyDuration(ns uint64) string {
	d := safe.DurationFromNanos(ns)
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%d ns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.3f us", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.3f ms", float64(d.Nanoseconds())/1e6)
	case d < time.Minute:
		return fmt.Sprintf("%.3f s", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.3f min", d.Minutes())
	default:
		return fmt.Sprintf("%.3f h", d.Hours())
	}
}

// formatAddress renders a function address in hexadecimal.
func formatAddress(address uint64) string {
	return fmt.Sprintf("0x%x", address)
}

// formatCount renders a call count as a plain integer.
func formatCount(count uint64) string {
	return fmt.Sprintf("%d", count)
}
