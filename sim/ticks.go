package sim

import "math"

// TicksPerSecond fixes the resolution of the virtual clock. One tick is one
// millisecond, which keeps sub-second stage times (labeling, storage checks)
// exact without putting floats in the event queue.
const TicksPerSecond = 1000

// Seconds converts a duration in seconds to ticks, rounding to nearest.
func Seconds(s float64) int64 {
	return int64(math.Round(s * TicksPerSecond))
}

// SecondsF converts seconds to ticks as a float, for distribution
// parameters that are not stored in the event queue.
func SecondsF(s float64) float64 {
	return s * TicksPerSecond
}

// ToSeconds converts a tick count back to seconds for reporting.
func ToSeconds(t int64) float64 {
	return float64(t) / TicksPerSecond
}
