// The shared resource pool is the one piece of state every pool-fed
// genus competes over. Consumed once per step during allocation,
// replenished once at commit.
package engine

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Pool tracks the resource units available to the ecosystem in the
// current generation.
type Pool struct {
	capacity      float64
	maxCapacity   float64
	replenishment float64

	// Optional seasonal drift of the replenishment rate, deterministic
	// from the seed. Amplitude 0 leaves replenishment flat.
	noise     opensimplex.Noise
	amplitude float64
	period    float64
}

// NewPool creates a pool with the given starting capacity, ceiling, and
// per-generation replenishment rate. Negative inputs are clamped to 0;
// a zero ceiling means the starting capacity is also the ceiling.
func NewPool(initial, maxCapacity, replenishment float64) *Pool {
	if initial < 0 {
		initial = 0
	}
	if maxCapacity <= 0 {
		maxCapacity = initial
	}
	if initial > maxCapacity {
		initial = maxCapacity
	}
	if replenishment < 0 {
		replenishment = 0
	}
	return &Pool{
		capacity:      initial,
		maxCapacity:   maxCapacity,
		replenishment: replenishment,
	}
}

// EnableSeasonalVariation makes replenishment drift smoothly between
// lean and rich generations. The drift is opensimplex noise evaluated at
// generation/period, so identical seeds replay identical seasons.
func (p *Pool) EnableSeasonalVariation(seed int64, amplitude, period float64) {
	if amplitude <= 0 || period <= 0 {
		return
	}
	if amplitude > 1 {
		amplitude = 1
	}
	p.noise = opensimplex.NewNormalized(seed)
	p.amplitude = amplitude
	p.period = period
}

// Available returns the resource units the pool can grant this generation.
func (p *Pool) Available() float64 {
	return p.capacity
}

// MaxCapacity returns the pool's ceiling.
func (p *Pool) MaxCapacity() float64 {
	return p.maxCapacity
}

// Replenishment returns the per-generation regeneration rate.
func (p *Pool) Replenishment() float64 {
	return p.replenishment
}

// Consume removes amount units from the pool. It fails with
// InsufficientResourceError when amount exceeds the available capacity;
// the caller is expected to never let that happen.
func (p *Pool) Consume(amount float64) error {
	if amount < 0 {
		amount = 0
	}
	// Small tolerance so a grant total equal to capacity up to float
	// rounding still succeeds.
	if amount > p.capacity+1e-9 {
		return &InsufficientResourceError{Requested: amount, Available: p.capacity}
	}
	p.capacity -= amount
	if p.capacity < 0 {
		p.capacity = 0
	}
	return nil
}

// Replenish advances the pool by one generation of regeneration, capped
// at the maximum capacity. The generation number drives the seasonal
// drift when variation is enabled.
func (p *Pool) Replenish(generation int) {
	rate := p.replenishment
	if p.noise != nil {
		// Normalized noise is in [0,1]; recenter to [-1,1] and scale.
		drift := 2*p.noise.Eval2(float64(generation)/p.period, 0) - 1
		rate *= 1 + p.amplitude*drift
		if rate < 0 {
			rate = 0
		}
	}
	p.capacity += rate
	if p.capacity > p.maxCapacity {
		p.capacity = p.maxCapacity
	}
}

// Adjust applies a manual resource edit from the menu. The delta may be
// negative but cannot take the pool below zero, and the result stays
// under the ceiling.
func (p *Pool) Adjust(delta float64) error {
	if delta < 0 {
		return p.Consume(-delta)
	}
	p.capacity += delta
	if p.capacity > p.maxCapacity {
		p.capacity = p.maxCapacity
	}
	return nil
}

// PoolState is the persisted snapshot of a pool's adjustable
// parameters. Round-tripping it through RestoreState preserves edits
// made after the pool was first configured.
type PoolState struct {
	Capacity      float64
	MaxCapacity   float64
	Replenishment float64
}

// State returns the snapshot persisted across sessions.
func (p *Pool) State() PoolState {
	return PoolState{
		Capacity:      p.capacity,
		MaxCapacity:   p.maxCapacity,
		Replenishment: p.replenishment,
	}
}

// RestoreState applies a saved snapshot when resuming an ecosystem. A
// non-positive ceiling keeps the configured one; a negative
// replenishment is clamped to zero.
func (p *Pool) RestoreState(s PoolState) {
	if s.MaxCapacity > 0 {
		p.maxCapacity = s.MaxCapacity
	}
	if s.Replenishment < 0 {
		s.Replenishment = 0
	}
	p.replenishment = s.Replenishment
	p.Restore(s.Capacity)
}

// Restore sets the capacity directly when resuming a saved ecosystem,
// clamped to [0, maxCapacity].
func (p *Pool) Restore(capacity float64) {
	if capacity < 0 {
		capacity = 0
	}
	if capacity > p.maxCapacity {
		capacity = p.maxCapacity
	}
	p.capacity = capacity
}

// SetReplenishment updates the regeneration rate. Negative rates are
// rejected.
func (p *Pool) SetReplenishment(rate float64) error {
	if rate < 0 {
		return fmt.Errorf("replenishment rate %g cannot be negative", rate)
	}
	p.replenishment = rate
	return nil
}

// Clone returns an independent copy sharing the same noise source.
// The simulator stages a step on a clone so an aborted step has no
// observable effect on the real pool.
func (p *Pool) Clone() *Pool {
	cp := *p
	return &cp
}

// restoreFrom copies the staged state back without changing the pointer
// callers hold.
func (p *Pool) restoreFrom(other *Pool) {
	*p = *other
}
