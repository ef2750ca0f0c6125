// Package load burns CPU for a requested wall-clock duration to model
// contention. It never sleeps: the calling goroutine stays runnable for the
// whole window.
package load

import (
	"math"
	"time"
)

// chunk is the number of arithmetic steps between clock reads. It bounds the
// overshoot past the deadline to well under a microsecond.
const chunk = 64

// MaxDurationMs is the longest duration a time.Duration can hold, in
// milliseconds. Longer requests are clamped to it.
const MaxDurationMs = float64(math.MaxInt64 / int64(time.Millisecond))

// Simulate spins for roughly durationMs milliseconds and returns the number
// of work iterations performed. Zero, negative and non-finite durations
// return immediately.
func Simulate(durationMs float64) uint64 {
	if !(durationMs > 0) || math.IsInf(durationMs, 0) {
		return 0
	}
	deadline := time.Now().Add(duration(durationMs))

	var (
		iters uint64
		x     = uint64(0x9e3779b97f4a7c15)
		acc   float64
	)
	for time.Now().Before(deadline) {
		for i := 0; i < chunk; i++ {
			x ^= x << 13
			x ^= x >> 7
			x ^= x << 17
			u := float64(x>>11) / (1 << 53)
			acc += math.Sqrt(u) * u
		}
		iters += chunk
	}
	if acc < 0 {
		// unreachable; keeps acc live
		iters++
	}
	return iters
}

func duration(ms float64) time.Duration {
	if ms >= MaxDurationMs {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms * float64(time.Millisecond))
}
