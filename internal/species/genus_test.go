package species

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"producer", RoleProducer, true},
		{"Herbivore", RoleHerbivore, true},
		{"  CARNIVORE ", RoleCarnivore, true},
		{"omnivore", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestGenus_Validate(t *testing.T) {
	valid := Genus{
		Name: "Zebra", Role: RoleHerbivore,
		Population: 50, GrowthRate: 0.5, ResourceNeed: 1.5,
	}
	require.NoError(t, valid.Validate())

	// Population 0 is a valid (extinct) state.
	extinct := valid
	extinct.Population = 0
	require.NoError(t, extinct.Validate())
	assert.True(t, extinct.Extinct())

	tests := []struct {
		name   string
		mutate func(*Genus)
	}{
		{"empty name", func(g *Genus) { g.Name = "  " }},
		{"negative population", func(g *Genus) { g.Population = -1 }},
		{"zero growth", func(g *Genus) { g.GrowthRate = 0 }},
		{"zero need", func(g *Genus) { g.ResourceNeed = 0 }},
		{"negative capacity", func(g *Genus) { g.CarryingCapacity = -1 }},
		{"herbivore with prey", func(g *Genus) { g.Prey = "Grass" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			assert.Error(t, g.Validate())
		})
	}
}

func TestGenus_Demand(t *testing.T) {
	g := Genus{Population: 100, ResourceNeed: 1.5}
	assert.Equal(t, 150.0, g.Demand())
}

func TestStarterRoster_AllValid(t *testing.T) {
	roster := StarterRoster()
	require.NotEmpty(t, roster)

	names := make(map[string]bool)
	for _, g := range roster {
		require.NoError(t, g.Validate(), "starter genus %s", g.Name)
		assert.False(t, names[g.Name], "duplicate starter name %s", g.Name)
		names[g.Name] = true
	}

	// Every carnivore's prey is part of the roster.
	for _, g := range roster {
		if g.Role == RoleCarnivore && g.Prey != "" {
			assert.True(t, names[g.Prey], "%s preys on missing genus %s", g.Name, g.Prey)
		}
	}
}
