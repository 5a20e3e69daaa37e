package raptor

import "fmt"

/** FormatClock renders a Tau (seconds since midnight) as HH:MM:SS; hours keep counting past 24 if the feed runs past midnight, and Inf renders as "unreachable". */
func FormatClock(secs Tau) string {
	if secs >= Inf {
		return "unreachable"
	}
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
