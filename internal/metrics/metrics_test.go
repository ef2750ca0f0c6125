package metrics_test

import (
	"sync"
	"testing"

	"kyberbench/internal/metrics"

	"github.com/stretchr/testify/require"
)

func TestSummaries(t *testing.T) {
	c := metrics.NewCollector()
	for i := 1; i <= 100; i++ {
		c.Track("encrypt_time_ms", float64(i))
	}
	c.Track("decrypt_time_ms", 2)

	sums := c.Summaries()
	require.Len(t, sums, 2)
	require.Equal(t, "decrypt_time_ms", sums[0].Name)

	enc := sums[1]
	require.Equal(t, 100, enc.Count)
	require.InDelta(t, 50.5, enc.Mean, 1e-9)
	require.Equal(t, 1.0, enc.Min)
	require.Equal(t, 100.0, enc.Max)
	require.Equal(t, 99.0, enc.Spread)
	require.Equal(t, 95.0, enc.P95)
}

func TestComputeConcurrent(t *testing.T) {
	c := metrics.NewCollector()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Track("x", 1)
				c.Inc("trials")
			}
		}()
	}
	wg.Wait()

	m := c.Compute()
	require.Equal(t, 800.0, m["trials"])
	require.Equal(t, 1.0, m["x_mean"])
	require.Equal(t, 0.0, m["x_spread"])
	require.Contains(t, m, "trials_per_sec")
}

func TestComputeWithoutTrials(t *testing.T) {
	c := metrics.NewCollector()
	c.Track("encrypt_time_ms", 2)
	c.Track("encrypt_time_ms", 4)

	m := c.Compute()
	require.Equal(t, 3.0, m["encrypt_time_ms_mean"])
	require.Equal(t, 2.0, m["encrypt_time_ms_spread"])
	require.NotContains(t, m, "trials_per_sec")
}
