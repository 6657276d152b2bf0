// Package eco assembles one ecosystem instance: the genus store, the
// resource pool, the generation simulator, and the run history. There is
// no process-wide instance; callers create one and pass it around.
package eco

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/ecosim/internal/config"
	"github.com/talgya/ecosim/internal/engine"
	"github.com/talgya/ecosim/internal/species"
	"github.com/talgya/ecosim/internal/store"
	"github.com/talgya/ecosim/internal/telemetry"
)

// ErrCollapsed reports that a run stopped early because no genus with a
// living population remains.
var ErrCollapsed = errors.New("ecosystem collapsed: no living genus remains")

// Ecosystem is one live ecosystem instance. Its configuration is fixed
// at creation.
type Ecosystem struct {
	ID      uuid.UUID
	Store   *store.Memory
	Pool    *engine.Pool
	Sim     *engine.Simulator
	History *telemetry.History

	model engine.Model
}

// New creates an ecosystem from its configuration.
func New(cfg *config.Config) *Ecosystem {
	pool := engine.NewPool(
		cfg.Ecosystem.InitialResources,
		cfg.Ecosystem.MaxResourceCapacity,
		cfg.Ecosystem.ReplenishmentRate,
	)
	if cfg.Ecosystem.SeasonalAmplitude > 0 {
		pool.EnableSeasonalVariation(
			cfg.Ecosystem.Seed,
			cfg.Ecosystem.SeasonalAmplitude,
			cfg.Ecosystem.SeasonalPeriod,
		)
	}

	st := store.NewMemory()
	model := engine.NewModel(cfg.Simulation.StarvationThreshold)

	e := &Ecosystem{
		ID:      uuid.New(),
		Store:   st,
		Pool:    pool,
		Sim:     engine.NewSimulator(st, pool, model),
		History: telemetry.NewHistory(),
		model:   model,
	}
	slog.Info("ecosystem created",
		"id", e.ID,
		"resources", cfg.Ecosystem.InitialResources,
		"max_capacity", cfg.Ecosystem.MaxResourceCapacity,
		"replenishment", cfg.Ecosystem.ReplenishmentRate,
	)
	return e
}

// Restore rebuilds an ecosystem instance from saved state. The pool
// resumes with its saved capacity, ceiling, and replenishment rate so
// in-session edits survive a restart; model parameters come from the
// configuration as usual.
func Restore(cfg *config.Config, id uuid.UUID, genus []species.Genus, pool engine.PoolState, generation int) (*Ecosystem, error) {
	e := New(cfg)
	e.ID = id
	e.Pool.RestoreState(pool)
	e.Sim.SetGeneration(generation)
	for _, g := range genus {
		if err := e.Store.Add(g); err != nil {
			return nil, fmt.Errorf("restore genus %q: %w", g.Name, err)
		}
	}
	slog.Info("ecosystem restored",
		"id", id,
		"genus", len(genus),
		"generation", generation,
		"pool", pool.Capacity,
	)
	return e, nil
}

// Clone returns a deep copy for safe-mode simulation: steps run on the
// copy leave the original ecosystem untouched. The clone keeps the same
// ID with a fresh history.
func (e *Ecosystem) Clone() *Ecosystem {
	st := e.Store.Clone()
	pool := e.Pool.Clone()
	sim := engine.NewSimulator(st, pool, e.model)
	sim.SetGeneration(e.Sim.Generation())
	return &Ecosystem{
		ID:      e.ID,
		Store:   st,
		Pool:    pool,
		Sim:     sim,
		History: telemetry.NewHistory(),
		model:   e.model,
	}
}

// Collapsed reports whether every genus has gone extinct.
func (e *Ecosystem) Collapsed() bool {
	return len(e.Store.ListActive()) == 0
}

// Step advances the ecosystem one generation and records the report.
func (e *Ecosystem) Step(ctx context.Context) (*engine.Report, error) {
	report, err := e.Sim.Step(ctx)
	if err != nil {
		return nil, err
	}
	e.History.Add(report)
	return report, nil
}

// Run advances up to n generations, invoking onStep after each commit.
// It stops early with ErrCollapsed once no living genus remains, in
// which case the generations already committed stand.
func (e *Ecosystem) Run(ctx context.Context, n int, onStep func(*engine.Report)) error {
	for i := 0; i < n; i++ {
		report, err := e.Step(ctx)
		if err != nil {
			return err
		}
		if onStep != nil {
			onStep(report)
		}
		if e.Collapsed() {
			slog.Warn("ecosystem collapsed", "generation", report.Generation)
			return ErrCollapsed
		}
	}
	return nil
}
