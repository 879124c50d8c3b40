// Package progress decides when a conversion deserves a progress
// indicator and estimates how long it will run. The engine reports no
// incremental progress, so anything shown to the user is derived from
// input size alone.
package progress

import (
	"fmt"
	"math"
)

// IndicatorThreshold is the input size above which a progress
// indicator is shown (1 MiB).
const IndicatorThreshold = 1 << 20

// Throughput assumptions behind the estimate: ~100 bytes per message,
// ~100k messages converted per second.
const (
	bytesPerMessage   = 100
	messagesPerSecond = 100_000
)

// NeedsIndicator reports whether size warrants a progress indicator.
// False at exactly the threshold.
func NeedsIndicator(size int64) bool {
	return size > IndicatorThreshold
}

// Estimate renders a human estimate of the conversion duration for an
// input of the given size.
func Estimate(size int64) string {
	messages := float64(size) / bytesPerMessage
	seconds := messages / messagesPerSecond
	switch {
	case seconds < 1:
		return "less than a second"
	case seconds < 60:
		return fmt.Sprintf("about %s", plural(int(math.Ceil(seconds)), "second"))
	default:
		return fmt.Sprintf("about %s", plural(int(math.Ceil(seconds/60)), "minute"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
