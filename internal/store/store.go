// Package store holds the in-memory genus collection. It owns every
// record exclusively; the simulator only sees value snapshots and writes
// back through Commit.
package store

import (
	"fmt"
	"sort"

	"github.com/talgya/ecosim/internal/species"
)

// UnknownGenusError reports a commit or lookup against a genus name that
// is not in the store.
type UnknownGenusError struct {
	Name string
}

func (e *UnknownGenusError) Error() string {
	return fmt.Sprintf("unknown genus %q", e.Name)
}

// DuplicateGenusError reports an Add for a name already present.
type DuplicateGenusError struct {
	Name string
}

func (e *DuplicateGenusError) Error() string {
	return fmt.Sprintf("genus %q already exists", e.Name)
}

// Memory is the in-memory ecosystem store.
type Memory struct {
	records map[string]species.Genus
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]species.Genus)}
}

// Add inserts a new genus record.
func (m *Memory) Add(g species.Genus) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if _, ok := m.records[g.Name]; ok {
		return &DuplicateGenusError{Name: g.Name}
	}
	m.records[g.Name] = g
	return nil
}

// Get returns the named record.
func (m *Memory) Get(name string) (species.Genus, bool) {
	g, ok := m.records[name]
	return g, ok
}

// Update replaces the named record's attributes.
func (m *Memory) Update(g species.Genus) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if _, ok := m.records[g.Name]; !ok {
		return &UnknownGenusError{Name: g.Name}
	}
	m.records[g.Name] = g
	return nil
}

// Remove deletes the named record. Extinct records persist until removed
// here.
func (m *Memory) Remove(name string) error {
	if _, ok := m.records[name]; !ok {
		return &UnknownGenusError{Name: name}
	}
	delete(m.records, name)
	return nil
}

// Len returns the number of records, extinct ones included.
func (m *Memory) Len() int {
	return len(m.records)
}

// List returns all records ordered by name.
func (m *Memory) List() []species.Genus {
	out := make([]species.Genus, 0, len(m.records))
	for _, g := range m.records {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListActive returns the records with population > 0 ordered by name.
func (m *Memory) ListActive() []species.Genus {
	out := make([]species.Genus, 0, len(m.records))
	for _, g := range m.records {
		if g.Population > 0 {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Commit replaces the stored population for every named genus. The whole
// commit is validated first: if any name is unknown nothing is written.
func (m *Memory) Commit(populations map[string]int) error {
	for name := range populations {
		if _, ok := m.records[name]; !ok {
			return &UnknownGenusError{Name: name}
		}
	}
	for name, pop := range populations {
		if pop < 0 {
			pop = 0
		}
		g := m.records[name]
		g.Population = pop
		m.records[name] = g
	}
	return nil
}

// Clone returns a deep copy for safe-mode simulation runs.
func (m *Memory) Clone() *Memory {
	cp := NewMemory()
	for name, g := range m.records {
		cp.records[name] = g
	}
	return cp
}
