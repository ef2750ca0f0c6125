package metrics

import (
	"sort"
	"sync"
	"time"
)

// Collector accumulates named latency series. Safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	series    map[string][]float64
	counters  map[string]int
	startTime time.Time
}

func NewCollector() *Collector {
	return &Collector{
		series:    make(map[string][]float64),
		counters:  make(map[string]int),
		startTime: time.Now(),
	}
}

// Track records one observation for the named series.
func (c *Collector) Track(name string, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series[name] = append(c.series[name], v)
}

func (c *Collector) Inc(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

// Summary describes one series.
type Summary struct {
	Name   string
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	P95    float64
	Spread float64
}

// Summaries returns one Summary per series, sorted by name.
func (c *Collector) Summaries() []Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Summary, 0, len(c.series))
	for name, vals := range c.series {
		if len(vals) == 0 {
			continue
		}
		sorted := append([]float64{}, vals...)
		sort.Float64s(sorted)

		sum := 0.0
		for _, v := range sorted {
			sum += v
		}
		s := Summary{
			Name:  name,
			Count: len(sorted),
			Mean:  sum / float64(len(sorted)),
			Min:   sorted[0],
			Max:   sorted[len(sorted)-1],
		}
		s.Spread = s.Max - s.Min
		s.P95 = sorted[int(0.95*float64(len(sorted)-1))]
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Compute flattens summaries, counters and throughput into one map. The
// trials_per_sec key is present only once a "trials" counter exists.
func (c *Collector) Compute() map[string]float64 {
	m := make(map[string]float64)
	for _, s := range c.Summaries() {
		m[s.Name+"_mean"] = s.Mean
		m[s.Name+"_min"] = s.Min
		m[s.Name+"_max"] = s.Max
		m[s.Name+"_p95"] = s.P95
		m[s.Name+"_spread"] = s.Spread
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for name, n := range c.counters {
		m[name] = float64(n)
	}
	if n, elapsed := c.counters["trials"], time.Since(c.startTime).Seconds(); n > 0 && elapsed > 0 {
		m["trials_per_sec"] = float64(n) / elapsed
	}
	return m
}
