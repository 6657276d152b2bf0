// Fair-share resource allocation. When demand outstrips capacity, every
// genus gets its proportional share; whole-unit rounding leftovers go to
// the largest fractional remainders so the split is reproducible.
package engine

import (
	"math"
	"sort"
)

// Demand is one genus's resource claim for the generation.
type Demand struct {
	Name  string
	Units float64
}

// Apportion distributes capacity across the given demands.
//
// If total demand fits within capacity, every genus receives its full
// demand. Otherwise shares are scaled proportionally and floored to
// whole units, and the leftover whole units are handed out one at a
// time by descending fractional remainder, ties broken by name. No
// genus ever receives more than its own demand and the grant total
// never exceeds capacity.
func Apportion(demands []Demand, capacity float64) map[string]float64 {
	grants := make(map[string]float64, len(demands))

	total := 0.0
	for _, d := range demands {
		grants[d.Name] = 0
		if d.Units > 0 {
			total += d.Units
		}
	}
	if total == 0 || capacity <= 0 {
		return grants
	}

	// No scarcity: everyone is fully fed.
	if total <= capacity {
		for _, d := range demands {
			if d.Units > 0 {
				grants[d.Name] = d.Units
			}
		}
		return grants
	}

	type share struct {
		name   string
		demand float64
		frac   float64
	}
	shares := make([]share, 0, len(demands))

	granted := 0.0
	for _, d := range demands {
		if d.Units <= 0 {
			continue
		}
		exact := d.Units * capacity / total
		base := math.Floor(exact)
		grants[d.Name] = base
		granted += base
		shares = append(shares, share{name: d.Name, demand: d.Units, frac: exact - base})
	}

	// Hand out the rounding remainder deterministically.
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].frac != shares[j].frac {
			return shares[i].frac > shares[j].frac
		}
		return shares[i].name < shares[j].name
	})

	leftover := int(capacity - granted)
	for _, s := range shares {
		if leftover <= 0 {
			break
		}
		if grants[s.name]+1 > s.demand {
			continue
		}
		grants[s.name]++
		leftover--
	}

	return grants
}
