package load_test

import (
	"math"
	"testing"
	"time"

	"kyberbench/internal/load"

	"github.com/stretchr/testify/require"
)

func TestSimulateZeroReturnsImmediately(t *testing.T) {
	for _, d := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		start := time.Now()
		iters := load.Simulate(d)
		require.Less(t, time.Since(start), time.Millisecond)
		require.Zero(t, iters)
	}
}

func TestSimulateDuration(t *testing.T) {
	tests := []struct {
		name string
		ms   float64
	}{
		{name: "short", ms: 2},
		{name: "medium", ms: 15},
		{name: "fractional", ms: 7.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			iters := load.Simulate(tt.ms)
			elapsed := float64(time.Since(start)) / float64(time.Millisecond)

			require.Positive(t, iters)
			require.GreaterOrEqual(t, elapsed, tt.ms)
			// generous upper bound: one scheduler quantum plus a loaded CI box
			require.Less(t, elapsed, tt.ms*1.5+20)
		})
	}
}
