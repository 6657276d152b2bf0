package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApportion_NoScarcity(t *testing.T) {
	grants := Apportion([]Demand{
		{Name: "Grass", Units: 100},
		{Name: "Zebra", Units: 75},
	}, 200)

	assert.Equal(t, 100.0, grants["Grass"])
	assert.Equal(t, 75.0, grants["Zebra"])
}

func TestApportion_ProportionalFairShare(t *testing.T) {
	// Demands 60 and 40 against capacity 50 split exactly 30/20.
	grants := Apportion([]Demand{
		{Name: "Elk", Units: 60},
		{Name: "Hare", Units: 40},
	}, 50)

	assert.Equal(t, 30.0, grants["Elk"])
	assert.Equal(t, 20.0, grants["Hare"])
}

func TestApportion_Conservation(t *testing.T) {
	tests := []struct {
		name     string
		demands  []Demand
		capacity float64
	}{
		{"scarce even split", []Demand{{"A", 100}, {"B", 100}}, 150},
		{"scarce uneven", []Demand{{"A", 7}, {"B", 13}, {"C", 31}}, 17},
		{"fractional demands", []Demand{{"A", 2.5}, {"B", 7.5}, {"C", 12.25}}, 11},
		{"tiny capacity", []Demand{{"A", 100}, {"B", 200}}, 1},
		{"zero capacity", []Demand{{"A", 10}}, 0},
		{"no demand", []Demand{{"A", 0}, {"B", 0}}, 50},
		{"abundant", []Demand{{"A", 5}, {"B", 5}}, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grants := Apportion(tt.demands, tt.capacity)

			total := 0.0
			for _, d := range tt.demands {
				grant := grants[d.Name]
				assert.GreaterOrEqual(t, grant, 0.0)
				assert.LessOrEqual(t, grant, d.Units, "grant for %s exceeds demand", d.Name)
				total += grant
			}
			assert.LessOrEqual(t, total, tt.capacity+1e-9, "grant total exceeds capacity")
		})
	}
}

func TestApportion_RemainderTieBreakIsLexical(t *testing.T) {
	// Two identical demands over an odd capacity: the extra whole unit
	// must always land on the lexically smaller name.
	demands := []Demand{
		{Name: "Wolf", Units: 10},
		{Name: "Bear", Units: 10},
	}

	first := Apportion(demands, 15)
	require.Equal(t, 8.0, first["Bear"])
	require.Equal(t, 7.0, first["Wolf"])

	// Reproducible across runs and input orderings.
	for i := 0; i < 10; i++ {
		again := Apportion([]Demand{demands[1], demands[0]}, 15)
		assert.Equal(t, first, again)
	}
}

func TestApportion_SkipsZeroDemand(t *testing.T) {
	grants := Apportion([]Demand{
		{Name: "A", Units: 0},
		{Name: "B", Units: 30},
	}, 20)

	assert.Equal(t, 0.0, grants["A"])
	assert.Equal(t, 20.0, grants["B"])
}
