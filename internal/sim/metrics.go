// File: internal/sim/metrics.go
package sim

// Counts is one aggregate snapshot of the population, taken after each tick.
type Counts struct {
	Infected    int
	Susceptible int
	Resistant   int
	Dead        int
}

// TotalCases is the number of agents that have ever been infected: everyone
// currently infected plus everyone who died or became resistant.
func (c Counts) TotalCases() int {
	return c.Dead + c.Resistant + c.Infected
}

// Population is the total number of agents across all states.
func (c Counts) Population() int {
	return c.Infected + c.Susceptible + c.Resistant + c.Dead
}

// Collector is an append-only time series of per-tick counts. Entry 0 is the
// post-initialization baseline; each Step appends exactly one more entry.
// Entries are never mutated after append.
type Collector struct {
	series []Counts
}

// NewCollector creates an empty collector.
func NewCollector() *Collector { return &Collector{} }

// Append records one snapshot.
func (c *Collector) Append(counts Counts) {
	c.series = append(c.series, counts)
}

// Len returns the number of recorded snapshots, including the baseline.
func (c *Collector) Len() int { return len(c.series) }

// At returns the snapshot for the given tick (0 = baseline).
func (c *Collector) At(tick int) Counts { return c.series[tick] }

// Series returns a copy of the full time series, safe to hand to renderers.
func (c *Collector) Series() []Counts {
	out := make([]Counts, len(c.series))
	copy(out, c.series)
	return out
}
