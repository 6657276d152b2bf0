// Package engine advances the ecosystem one generation at a time:
// collect a snapshot, apportion the resource pool, compute every genus's
// next population from that snapshot, then commit atomically.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/ecosim/internal/species"
)

// Store is the slice of the ecosystem store the simulator needs: a
// stable snapshot of the living genus records and an all-or-nothing
// population commit.
type Store interface {
	// ListActive returns the records with population > 0, ordered by name.
	ListActive() []species.Genus
	// Commit replaces the stored population for each named genus. It
	// fails without writing anything when any name is unknown.
	Commit(populations map[string]int) error
}

// State is the simulator's position inside a step.
type State uint8

const (
	StateIdle State = iota
	StateCollecting
	StateAllocating
	StateUpdating
	StateCommitted
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateAllocating:
		return "allocating"
	case StateUpdating:
		return "updating"
	case StateCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// Simulator runs generations against one store and one pool. It is
// single-threaded and step-wise: each Step fully completes before the
// next may start, and it holds no record state between steps.
type Simulator struct {
	store Store
	pool  *Pool
	model Model

	generation int
	state      State
}

// NewSimulator wires a simulator to its store and pool.
func NewSimulator(store Store, pool *Pool, model Model) *Simulator {
	return &Simulator{store: store, pool: pool, model: model}
}

// Generation returns the number of committed generations.
func (s *Simulator) Generation() int {
	return s.generation
}

// SetGeneration restores the generation counter when resuming a saved
// ecosystem.
func (s *Simulator) SetGeneration(n int) {
	if n < 0 {
		n = 0
	}
	s.generation = n
}

// State returns the simulator's current state.
func (s *Simulator) State() State {
	return s.state
}

// Step advances the ecosystem by one generation and returns the report.
//
// A step either fully commits or fails with the pre-step state
// untouched: the pool is staged on a copy until commit, and the store is
// only written in the final transition. Cancelling the context aborts
// the step with no observable effect as long as it happens before
// commit.
func (s *Simulator) Step(ctx context.Context) (*Report, error) {
	defer func() { s.state = StateIdle }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ── Collecting ───────────────────────────────────────────────────
	s.state = StateCollecting
	snapshot := s.store.ListActive()

	report := &Report{
		Generation: s.generation + 1,
		PoolBefore: s.pool.Available(),
	}

	byName := make(map[string]species.Genus, len(snapshot))
	skipped := make(map[string]bool)
	valid := make([]species.Genus, 0, len(snapshot))
	for _, g := range snapshot {
		byName[g.Name] = g
		if err := g.Validate(); err != nil {
			attrErr := &InvalidAttributeError{Genus: g.Name, Reason: err.Error()}
			report.Warnings = append(report.Warnings, attrErr.Error())
			skipped[g.Name] = true
			slog.Warn("genus skipped this generation", "genus", g.Name, "reason", err)
			continue
		}
		valid = append(valid, g)
	}

	// ── Allocating ───────────────────────────────────────────────────
	// Staged against a pool copy so an aborted step leaves no trace.
	s.state = StateAllocating
	work := s.pool.Clone()

	var poolDemands []Demand
	predators := make(map[string][]species.Genus) // prey name → hunters
	for _, g := range valid {
		if g.Role == species.RoleCarnivore && g.Prey != "" {
			predators[g.Prey] = append(predators[g.Prey], g)
			continue
		}
		poolDemands = append(poolDemands, Demand{Name: g.Name, Units: g.Demand()})
	}

	grants := Apportion(poolDemands, work.Available())
	consumed := 0.0
	for _, amount := range grants {
		consumed += amount
	}
	if err := work.Consume(consumed); err != nil {
		return nil, fmt.Errorf("allocation overdrew the pool: %w", err)
	}

	// Predators draw from their prey's snapshot population instead of
	// the pool; the same fair-share split applies when several hunters
	// compete over one prey.
	preyTaken := make(map[string]float64)
	for preyName, hunters := range predators {
		capacity := 0.0
		if prey, ok := byName[preyName]; ok && !skipped[preyName] {
			capacity = float64(prey.Population)
		}
		hd := make([]Demand, 0, len(hunters))
		for _, h := range hunters {
			hd = append(hd, Demand{Name: h.Name, Units: h.Demand()})
		}
		for name, amount := range Apportion(hd, capacity) {
			grants[name] = amount
			preyTaken[preyName] += amount
		}
	}

	// ── Updating ─────────────────────────────────────────────────────
	// Every next population is computed from the pre-step snapshot.
	s.state = StateUpdating
	next := make(map[string]int, len(snapshot))
	for _, g := range snapshot {
		if skipped[g.Name] {
			next[g.Name] = g.Population
			continue
		}
		pop, err := s.model.NextPopulation(g, grants[g.Name])
		if err != nil {
			// Validation already ran; treat a late failure like a skip.
			report.Warnings = append(report.Warnings, err.Error())
			skipped[g.Name] = true
			next[g.Name] = g.Population
			continue
		}
		next[g.Name] = pop
	}

	// Second pass: predator-prey coupling. Consumed prey units come off
	// the prey's post-update population, never the snapshot it was
	// computed from.
	for preyName, taken := range preyTaken {
		if _, ok := next[preyName]; !ok {
			continue
		}
		next[preyName] -= int(math.Floor(taken))
		if next[preyName] < 0 {
			next[preyName] = 0
		}
	}

	for _, g := range snapshot {
		after := next[g.Name]
		if after == 0 && g.Population > 0 {
			report.Extinctions = append(report.Extinctions, g.Name)
		}
		report.Outcomes = append(report.Outcomes, Outcome{
			Name:    g.Name,
			Role:    g.Role.String(),
			Before:  g.Population,
			After:   after,
			Demand:  g.Demand(),
			Granted: grants[g.Name],
			Preyed:  preyTaken[g.Name],
			Extinct: after == 0 && g.Population > 0,
			Skipped: skipped[g.Name],
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ── Committed ────────────────────────────────────────────────────
	s.state = StateCommitted
	if err := s.store.Commit(next); err != nil {
		return nil, fmt.Errorf("commit generation %d: %w", report.Generation, err)
	}
	work.Replenish(report.Generation)
	s.pool.restoreFrom(work)
	s.generation++
	report.PoolAfter = s.pool.Available()

	slog.Info("generation committed",
		"generation", report.Generation,
		"genus", len(report.Outcomes),
		"population", report.TotalPopulation(),
		"pool_before", fmt.Sprintf("%.1f", report.PoolBefore),
		"pool_after", fmt.Sprintf("%.1f", report.PoolAfter),
		"extinctions", len(report.Extinctions),
		"warnings", len(report.Warnings),
	)

	return report, nil
}
