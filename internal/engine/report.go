// The per-step simulation report returned to callers: before/after
// populations, grants, warnings, and extinction events.
package engine

// Outcome records what happened to one genus during a step.
type Outcome struct {
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Before  int     `json:"before"`
	After   int     `json:"after"`
	Demand  float64 `json:"demand"`
	Granted float64 `json:"granted"`
	Preyed  float64 `json:"preyed"`  // prey units taken from this genus by predators
	Extinct bool    `json:"extinct"` // went extinct this step
	Skipped bool    `json:"skipped"` // held constant due to invalid attributes
}

// Report summarizes one committed (or attempted) simulation step.
type Report struct {
	Generation  int       `json:"generation"`
	PoolBefore  float64   `json:"pool_before"`
	PoolAfter   float64   `json:"pool_after"`
	Outcomes    []Outcome `json:"outcomes"` // stable name order
	Warnings    []string  `json:"warnings"`
	Extinctions []string  `json:"extinctions"`
}

// Outcome returns the outcome for the named genus, if present.
func (r *Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// TotalPopulation sums the post-step populations.
func (r *Report) TotalPopulation() int {
	total := 0
	for _, o := range r.Outcomes {
		total += o.After
	}
	return total
}
