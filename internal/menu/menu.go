// Package menu implements the interactive shell over one ecosystem
// instance. It is a thin caller of the store CRUD and the simulator; no
// simulation logic lives here.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/ecosim/internal/config"
	"github.com/talgya/ecosim/internal/eco"
	"github.com/talgya/ecosim/internal/engine"
	"github.com/talgya/ecosim/internal/persistence"
	"github.com/talgya/ecosim/internal/species"
)

// Menu drives the interactive session.
type Menu struct {
	in     *bufio.Scanner
	out    io.Writer
	cfg    *config.Config
	eco    *eco.Ecosystem
	db     *persistence.DB // nil disables persistence
	pretty bool
}

// New creates a menu reading from in and writing to out. The banner and
// table decorations are skipped when out is not a terminal.
func New(cfg *config.Config, in io.Reader, out io.Writer, db *persistence.DB) *Menu {
	pretty := false
	if f, ok := out.(*os.File); ok {
		pretty = isatty.IsTerminal(f.Fd())
	}
	return &Menu{
		in:     bufio.NewScanner(in),
		out:    out,
		cfg:    cfg,
		db:     db,
		pretty: pretty,
	}
}

// SetEcosystem installs a preloaded ecosystem (restored from disk).
func (m *Menu) SetEcosystem(e *eco.Ecosystem) {
	m.eco = e
}

// Run loops over the main menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	if m.pretty {
		fmt.Fprintln(m.out, "=========================")
		fmt.Fprintln(m.out, "       ECOSIM")
		fmt.Fprintln(m.out, "=========================")
	}

	for {
		fmt.Fprint(m.out, `
1.  Create new Ecosystem
2.  Print Ecosystem Information
3.  Add New Genus
4.  Search Genus
5.  Update Genus
6.  Remove Genus
7.  Show All Genus
8.  Update Resources
9.  Simulate Generations
10. Exit
`)
		choice, ok := m.readInt("Please choose an option (1-10): ", 1, 10)
		if !ok {
			return nil
		}

		switch choice {
		case 1:
			m.createEcosystem()
		case 2:
			m.printInfo()
		case 3:
			m.addGenus()
		case 4:
			m.searchGenus()
		case 5:
			m.updateGenus()
		case 6:
			m.removeGenus()
		case 7:
			m.showAll()
		case 8:
			m.updateResources()
		case 9:
			m.simulate(ctx)
		case 10:
			return m.exit()
		}
	}
}

func (m *Menu) exit() error {
	if m.eco != nil && m.db != nil {
		if err := m.db.SaveState(m.eco); err != nil {
			slog.Error("save on exit failed", "error", err)
			return err
		}
		fmt.Fprintln(m.out, "Ecosystem saved. Goodbye.")
		return nil
	}
	fmt.Fprintln(m.out, "Goodbye.")
	return nil
}

// requireEcosystem prints the standard nudge when no ecosystem exists.
func (m *Menu) requireEcosystem() bool {
	if m.eco == nil {
		fmt.Fprintln(m.out, "No ecosystem exists yet! Create one first.")
		return false
	}
	return true
}

func (m *Menu) createEcosystem() {
	resources, ok := m.readFloat("Starting resources for the ecosystem: ", 0, -1)
	if !ok {
		return
	}
	replenish, ok := m.readFloat("Replenishment per generation: ", 0, -1)
	if !ok {
		return
	}

	cfg := *m.cfg
	cfg.Ecosystem.InitialResources = resources
	if resources > cfg.Ecosystem.MaxResourceCapacity {
		cfg.Ecosystem.MaxResourceCapacity = resources
	}
	cfg.Ecosystem.ReplenishmentRate = replenish
	m.eco = eco.New(&cfg)

	if m.confirm("Seed with the starter roster? [Y/n]: ") {
		for _, g := range species.StarterRoster() {
			if err := m.eco.Store.Add(g); err != nil {
				fmt.Fprintf(m.out, "could not add %s: %v\n", g.Name, err)
			}
		}
	}

	fmt.Fprintf(m.out, "\nNew ecosystem created with %s resources (id %s).\n",
		humanize.Commaf(resources), m.eco.ID)
}

func (m *Menu) printInfo() {
	if !m.requireEcosystem() {
		return
	}
	names := make([]string, 0, m.eco.Store.Len())
	for _, g := range m.eco.Store.List() {
		names = append(names, g.Name)
	}
	fmt.Fprintf(m.out, "Resources: %s / %s (replenishment %s)\n",
		humanize.Commaf(m.eco.Pool.Available()),
		humanize.Commaf(m.eco.Pool.MaxCapacity()),
		humanize.Commaf(m.eco.Pool.Replenishment()),
	)
	fmt.Fprintf(m.out, "Generation: %d\n", m.eco.Sim.Generation())
	if len(names) == 0 {
		fmt.Fprintln(m.out, "No genus lives in the ecosystem yet.")
		return
	}
	fmt.Fprintf(m.out, "Genus: %s\n", strings.Join(names, ", "))
}

func (m *Menu) addGenus() {
	if !m.requireEcosystem() {
		return
	}
	for {
		name, ok := m.readLine("Genus name (or 'exit' to return): ")
		if !ok || name == "" || strings.EqualFold(name, "exit") {
			return
		}
		if _, exists := m.eco.Store.Get(name); exists {
			fmt.Fprintf(m.out, "%s already exists in the ecosystem.\n", name)
			continue
		}

		roleStr, ok := m.readLine("Trophic role (producer/herbivore/carnivore): ")
		if !ok {
			return
		}
		role, err := species.ParseRole(roleStr)
		if err != nil {
			fmt.Fprintln(m.out, err)
			continue
		}

		pop, ok := m.readInt(fmt.Sprintf("%s's population: ", name), 1, -1)
		if !ok {
			return
		}
		growth, ok := m.readFloat(fmt.Sprintf("%s's growth rate (> 0): ", name), 1e-9, -1)
		if !ok {
			return
		}
		need, ok := m.readFloat(fmt.Sprintf("%s's resource need per individual: ", name), 1e-9, -1)
		if !ok {
			return
		}
		capacity, ok := m.readInt(fmt.Sprintf("%s's carrying capacity (0 = none): ", name), 0, -1)
		if !ok {
			return
		}

		g := species.Genus{
			Name:             name,
			Role:             role,
			Population:       pop,
			GrowthRate:       growth,
			ResourceNeed:     need,
			CarryingCapacity: capacity,
		}
		if role == species.RoleCarnivore {
			prey, ok := m.readLine(fmt.Sprintf("%s's prey genus (empty = feeds from the pool): ", name))
			if !ok {
				return
			}
			g.Prey = prey
		}

		if err := m.eco.Store.Add(g); err != nil {
			fmt.Fprintln(m.out, err)
			continue
		}
		fmt.Fprintf(m.out, "%s added to the ecosystem.\n", name)
	}
}

func (m *Menu) searchGenus() {
	if !m.requireEcosystem() {
		return
	}
	for {
		name, ok := m.readLine("Genus name to search (or 'exit'): ")
		if !ok || strings.EqualFold(name, "exit") {
			return
		}
		g, found := m.eco.Store.Get(name)
		if !found {
			fmt.Fprintf(m.out, "Sorry, %s doesn't currently live in the ecosystem.\n", name)
			continue
		}
		m.printGenus(g)
	}
}

func (m *Menu) printGenus(g species.Genus) {
	fmt.Fprintf(m.out, "Name: %s\nRole: %s\nPopulation: %s\nGrowth rate: %g\nResource need: %g\n",
		g.Name, g.Role, humanize.Comma(int64(g.Population)), g.GrowthRate, g.ResourceNeed)
	if g.CarryingCapacity > 0 {
		fmt.Fprintf(m.out, "Carrying capacity: %s\n", humanize.Comma(int64(g.CarryingCapacity)))
	}
	if g.Prey != "" {
		fmt.Fprintf(m.out, "Prey: %s\n", g.Prey)
	}
	if g.Extinct() {
		fmt.Fprintln(m.out, "Status: extinct")
	}
}

// pickGenus shows a numbered list and returns the chosen record.
func (m *Menu) pickGenus(verb string) (species.Genus, bool) {
	records := m.eco.Store.List()
	if len(records) == 0 {
		fmt.Fprintln(m.out, "No genus lives in the ecosystem yet.")
		return species.Genus{}, false
	}
	for i, g := range records {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, g.Name)
	}
	fmt.Fprintf(m.out, "%d. Exit\n", len(records)+1)

	idx, ok := m.readInt(fmt.Sprintf("Number of the genus to %s: ", verb), 1, len(records)+1)
	if !ok || idx == len(records)+1 {
		return species.Genus{}, false
	}
	return records[idx-1], true
}

func (m *Menu) updateGenus() {
	if !m.requireEcosystem() {
		return
	}
	g, ok := m.pickGenus("update")
	if !ok {
		return
	}

	pop, ok := m.readInt(fmt.Sprintf("%s's new population: ", g.Name), 0, -1)
	if !ok {
		return
	}
	growth, ok := m.readFloat(fmt.Sprintf("%s's new growth rate (> 0): ", g.Name), 1e-9, -1)
	if !ok {
		return
	}
	need, ok := m.readFloat(fmt.Sprintf("%s's new resource need: ", g.Name), 1e-9, -1)
	if !ok {
		return
	}

	g.Population = pop
	g.GrowthRate = growth
	g.ResourceNeed = need
	if err := m.eco.Store.Update(g); err != nil {
		fmt.Fprintln(m.out, err)
		return
	}
	fmt.Fprintln(m.out, "Updated genus information:")
	m.printGenus(g)
}

func (m *Menu) removeGenus() {
	if !m.requireEcosystem() {
		return
	}
	g, ok := m.pickGenus("remove")
	if !ok {
		return
	}
	if err := m.eco.Store.Remove(g.Name); err != nil {
		fmt.Fprintln(m.out, err)
		return
	}
	fmt.Fprintf(m.out, "%s removed from the ecosystem.\n", g.Name)
}

func (m *Menu) showAll() {
	if !m.requireEcosystem() {
		return
	}
	records := m.eco.Store.List()
	if len(records) == 0 {
		fmt.Fprintln(m.out, "No genus lives in the ecosystem yet.")
		return
	}

	w := tabwriter.NewWriter(m.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tROLE\tPOPULATION\tGROWTH\tNEED\tCAPACITY\tPREY")
	for _, g := range records {
		capacity := "-"
		if g.CarryingCapacity > 0 {
			capacity = humanize.Comma(int64(g.CarryingCapacity))
		}
		prey := g.Prey
		if prey == "" {
			prey = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%s\t%s\n",
			g.Name, g.Role, humanize.Comma(int64(g.Population)),
			g.GrowthRate, g.ResourceNeed, capacity, prey)
	}
	w.Flush()
}

func (m *Menu) updateResources() {
	if !m.requireEcosystem() {
		return
	}
	fmt.Fprintln(m.out, "1. Add resources")
	fmt.Fprintln(m.out, "2. Remove resources")
	fmt.Fprintln(m.out, "3. Update replenishment rate")
	choice, ok := m.readInt("Choose one (1-3): ", 1, 3)
	if !ok {
		return
	}

	if choice == 3 {
		rate, ok := m.readFloat("New replenishment rate: ", 0, -1)
		if !ok {
			return
		}
		if err := m.eco.Pool.SetReplenishment(rate); err != nil {
			fmt.Fprintln(m.out, err)
			return
		}
		fmt.Fprintf(m.out, "Replenishment rate updated to %s.\n", humanize.Commaf(rate))
		return
	}

	amount, ok := m.readFloat("Amount: ", 0, -1)
	if !ok {
		return
	}
	if choice == 2 {
		amount = -amount
	}
	if err := m.eco.Pool.Adjust(amount); err != nil {
		fmt.Fprintln(m.out, "Resources cannot become negative.")
		return
	}
	fmt.Fprintf(m.out, "Resources updated to %s.\n", humanize.Commaf(m.eco.Pool.Available()))
}

func (m *Menu) simulate(ctx context.Context) {
	if !m.requireEcosystem() {
		return
	}

	fmt.Fprintln(m.out, "Simulation mode:")
	fmt.Fprintln(m.out, "1. Permanent (affects the real ecosystem)")
	fmt.Fprintln(m.out, "2. Safe test (works on a copy)")
	mode, ok := m.readInt("Choose mode (1 or 2): ", 1, 2)
	if !ok {
		return
	}

	target := m.eco
	if mode == 2 {
		target = m.eco.Clone()
		fmt.Fprintln(m.out, "Running on a copy; the real ecosystem stays unchanged.")
	}

	generations, ok := m.readInt("How many generations? ", 1, -1)
	if !ok {
		return
	}
	interactive := m.confirm("Confirm each generation? [Y/n]: ")

	for i := 0; i < generations; i++ {
		if interactive {
			if !m.confirm(fmt.Sprintf("Generation %d of %d. Proceed? [Y/n]: ", i+1, generations)) {
				fmt.Fprintf(m.out, "Stopped after %d generations.\n", i)
				break
			}
		}

		report, err := target.Step(ctx)
		if err != nil {
			fmt.Fprintf(m.out, "Simulation failed: %v\n", err)
			return
		}
		m.printReport(report)

		if m.db != nil && mode == 1 {
			if err := m.db.AppendReport(report); err != nil {
				slog.Error("history append failed", "error", err)
			}
		}

		if target.Collapsed() {
			fmt.Fprintf(m.out, "\nThe ecosystem collapsed after %d generations.\n", report.Generation)
			break
		}
	}

	if mode == 2 {
		fmt.Fprintln(m.out, "\nSafe run finished; changes were discarded.")
	}
}

func (m *Menu) printReport(r *engine.Report) {
	fmt.Fprintf(m.out, "\n--- Generation %d ---\n", r.Generation)
	w := tabwriter.NewWriter(m.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GENUS\tBEFORE\tAFTER\tGRANTED/DEMAND")
	for _, o := range r.Outcomes {
		note := ""
		if o.Extinct {
			note = "  (extinct)"
		}
		if o.Skipped {
			note = "  (skipped)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f/%.1f%s\n",
			o.Name, humanize.Comma(int64(o.Before)), humanize.Comma(int64(o.After)),
			o.Granted, o.Demand, note)
	}
	w.Flush()
	fmt.Fprintf(m.out, "Pool: %s -> %s\n",
		humanize.Commaf(r.PoolBefore), humanize.Commaf(r.PoolAfter))
	for _, warning := range r.Warnings {
		fmt.Fprintf(m.out, "warning: %s\n", warning)
	}
}

// ── input helpers ─────────────────────────────────────────────────────

func (m *Menu) readLine(prompt string) (string, bool) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// readInt prompts until it gets an integer in [lo, hi]; hi < lo means no
// upper bound. The second return is false when input ended.
func (m *Menu) readInt(prompt string, lo, hi int) (int, bool) {
	for {
		line, ok := m.readLine(prompt)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid input, please enter an integer.")
			continue
		}
		if n < lo || (hi >= lo && n > hi) {
			fmt.Fprintln(m.out, "Choice out of range.")
			continue
		}
		return n, true
	}
}

func (m *Menu) readFloat(prompt string, lo, hi float64) (float64, bool) {
	for {
		line, ok := m.readLine(prompt)
		if !ok {
			return 0, false
		}
		f, err := strconv.ParseFloat(line, 64)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid input, please enter a number.")
			continue
		}
		if f < lo || (hi >= lo && f > hi) {
			fmt.Fprintln(m.out, "Value out of range.")
			continue
		}
		return f, true
	}
}

// confirm reads a yes/no answer; empty input counts as yes.
func (m *Menu) confirm(prompt string) bool {
	line, ok := m.readLine(prompt)
	if !ok {
		return false
	}
	line = strings.ToLower(line)
	return line == "" || line == "y" || line == "yes"
}
