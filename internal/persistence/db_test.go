package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ecosim/internal/config"
	"github.com/talgya/ecosim/internal/eco"
	"github.com/talgya/ecosim/internal/species"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ecosim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoadState_RoundTrip(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	db := openTestDB(t)

	e := eco.New(cfg)
	require.NoError(t, e.Store.Add(species.Genus{
		Name: "Zebra", Role: species.RoleHerbivore,
		Population: 100, GrowthRate: 0.1, ResourceNeed: 1,
	}))
	require.NoError(t, e.Store.Add(species.Genus{
		Name: "Lion", Role: species.RoleCarnivore,
		Population: 20, GrowthRate: 0.4, ResourceNeed: 0.5, Prey: "Zebra",
	}))

	// Edits made through the session, not the config.
	require.NoError(t, e.Pool.SetReplenishment(25))
	_, err = e.Step(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.SaveState(e))
	require.True(t, db.HasState())

	loaded, err := db.LoadState(cfg)
	require.NoError(t, err)

	assert.Equal(t, e.ID, loaded.ID)
	assert.Equal(t, e.Sim.Generation(), loaded.Sim.Generation())

	// The edited replenishment rate survives the round trip instead of
	// reverting to the configured default.
	assert.Equal(t, 25.0, loaded.Pool.Replenishment())
	assert.Equal(t, e.Pool.Available(), loaded.Pool.Available())
	assert.Equal(t, e.Pool.MaxCapacity(), loaded.Pool.MaxCapacity())

	zebra, ok := loaded.Store.Get("Zebra")
	require.True(t, ok)
	want, _ := e.Store.Get("Zebra")
	assert.Equal(t, want.Population, zebra.Population)

	lion, ok := loaded.Store.Get("Lion")
	require.True(t, ok)
	assert.Equal(t, "Zebra", lion.Prey)
}

func TestLoadState_EmptyDatabaseFallsBackToConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	db := openTestDB(t)

	assert.False(t, db.HasState())

	loaded, err := db.LoadState(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Ecosystem.InitialResources, loaded.Pool.Available())
	assert.Equal(t, cfg.Ecosystem.ReplenishmentRate, loaded.Pool.Replenishment())
	assert.Equal(t, 0, loaded.Store.Len())
}
