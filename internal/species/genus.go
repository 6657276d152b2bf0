// Package species defines the genus record, the single entity the
// ecosystem tracks: one aggregate population per species, not individuals.
package species

import (
	"fmt"
	"strings"
)

// Role is the trophic role of a genus. It decides where the genus draws
// its resources from each generation: producers and herbivores consume
// the shared resource pool, carnivores consume their prey's population.
type Role uint8

const (
	RoleProducer Role = iota
	RoleHerbivore
	RoleCarnivore
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleProducer:
		return "producer"
	case RoleHerbivore:
		return "herbivore"
	case RoleCarnivore:
		return "carnivore"
	default:
		return "unknown"
	}
}

// ParseRole converts a role name into a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "producer":
		return RoleProducer, nil
	case "herbivore":
		return RoleHerbivore, nil
	case "carnivore":
		return RoleCarnivore, nil
	}
	return 0, fmt.Errorf("unknown trophic role %q", s)
}

// Genus is one species population record. The name is the identity key.
// Population 0 marks the genus extinct; the record is kept until it is
// explicitly removed.
type Genus struct {
	Name             string  `db:"name" yaml:"name"`
	Role             Role    `db:"role" yaml:"role"`
	Population       int     `db:"population" yaml:"population"`
	GrowthRate       float64 `db:"growth_rate" yaml:"growth_rate"`
	ResourceNeed     float64 `db:"resource_need" yaml:"resource_need"`
	CarryingCapacity int     `db:"carrying_capacity" yaml:"carrying_capacity"` // 0 = no logistic ceiling
	Prey             string  `db:"prey" yaml:"prey"`                           // carnivores only: name of the hunted genus
}

// Demand is the resource demand of the genus for one generation.
// For carnivores the unit is prey-population units.
func (g Genus) Demand() float64 {
	return float64(g.Population) * g.ResourceNeed
}

// Extinct reports whether the population has reached zero.
func (g Genus) Extinct() bool {
	return g.Population == 0
}

// Validate checks the static attributes a simulation step depends on.
func (g Genus) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("genus name must be non-empty")
	}
	if g.Population < 0 {
		return fmt.Errorf("population %d is negative", g.Population)
	}
	if g.GrowthRate <= 0 {
		return fmt.Errorf("growth rate %g must be > 0", g.GrowthRate)
	}
	if g.ResourceNeed <= 0 {
		return fmt.Errorf("resource need %g must be > 0", g.ResourceNeed)
	}
	if g.CarryingCapacity < 0 {
		return fmt.Errorf("carrying capacity %d is negative", g.CarryingCapacity)
	}
	if g.Role != RoleCarnivore && g.Prey != "" {
		return fmt.Errorf("%s genus cannot have prey", g.Role)
	}
	return nil
}

// StarterRoster returns the predefined genus set offered when a new
// ecosystem is created, for users who do not want to type in a food web
// by hand.
func StarterRoster() []Genus {
	return []Genus{
		{Name: "Grass", Role: RoleProducer, Population: 500, GrowthRate: 0.8, ResourceNeed: 0.2, CarryingCapacity: 2000},
		{Name: "Zebra", Role: RoleHerbivore, Population: 50, GrowthRate: 0.5, ResourceNeed: 1.5, CarryingCapacity: 300},
		{Name: "Giraffe", Role: RoleHerbivore, Population: 20, GrowthRate: 0.3, ResourceNeed: 2.5, CarryingCapacity: 120},
		{Name: "Elephant", Role: RoleHerbivore, Population: 15, GrowthRate: 0.2, ResourceNeed: 4.0, CarryingCapacity: 80},
		{Name: "Lion", Role: RoleCarnivore, Population: 30, GrowthRate: 0.4, ResourceNeed: 0.5, Prey: "Zebra"},
		{Name: "Wolf", Role: RoleCarnivore, Population: 25, GrowthRate: 0.45, ResourceNeed: 0.4, Prey: "Giraffe"},
	}
}
