// Population dynamics: growth, starvation, and logistic damping.
// Next-generation numbers are pure functions of a pre-step snapshot so
// results never depend on update order.
package engine

import (
	"math"

	"github.com/talgya/ecosim/internal/species"
)

// DefaultStarvationThreshold is the sufficiency ratio below which a
// genus loses population instead of growing.
const DefaultStarvationThreshold = 0.5

// Model computes next-generation populations from granted resources.
type Model struct {
	// StarvationThreshold is the sufficiency ratio r below which the
	// starvation branch applies. Must be in (0,1).
	StarvationThreshold float64
}

// NewModel returns a Model with the given starvation threshold, falling
// back to the default when the value is out of range.
func NewModel(threshold float64) Model {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultStarvationThreshold
	}
	return Model{StarvationThreshold: threshold}
}

// NextPopulation computes the genus's next-generation population given
// the resources it was granted this generation.
//
// The sufficiency ratio r = granted/demand (clamped to [0,1]) drives the
// branch: below the starvation threshold the population shrinks to the
// fed fraction; at or above it, growth is growth_rate × r, damped
// logistically when a carrying capacity is set. Extinction is terminal:
// a zero population stays zero no matter what is granted.
func (m Model) NextPopulation(g species.Genus, granted float64) (int, error) {
	if err := g.Validate(); err != nil {
		return g.Population, &InvalidAttributeError{Genus: g.Name, Reason: err.Error()}
	}
	if g.Population == 0 {
		return 0, nil
	}

	r := m.Sufficiency(g, granted)

	if r < m.StarvationThreshold {
		// Starvation: the unfed fraction is lost, growth suppressed.
		return int(math.Floor(float64(g.Population) * r)), nil
	}

	growth := g.GrowthRate * r
	var next float64
	if g.CarryingCapacity > 0 {
		damping := 1 - float64(g.Population)/float64(g.CarryingCapacity)
		next = float64(g.Population) * (1 + growth*damping)
	} else {
		next = float64(g.Population) * (1 + growth)
	}

	pop := int(math.Floor(next))
	if pop < 0 {
		pop = 0
	}
	return pop, nil
}

// Sufficiency returns the clamped ratio of granted resources to demand.
func (m Model) Sufficiency(g species.Genus, granted float64) float64 {
	demand := g.Demand()
	if demand <= 0 {
		return 1
	}
	r := granted / demand
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
