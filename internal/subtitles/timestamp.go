package subtitles

import (
	"fmt"
	"math"
)

// FormatTimestamp renders seconds as HH:MM:SS<sep>mmm. Milliseconds are
// rounded to the nearest value; negative input renders as zero.
func FormatTimestamp(seconds float64, sep byte) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}

func srtTimestamp(seconds float64) string { return FormatTimestamp(seconds, ',') }

func vttTimestamp(seconds float64) string { return FormatTimestamp(seconds, '.') }
