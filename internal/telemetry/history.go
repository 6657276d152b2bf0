// Package telemetry collects per-generation reports across a run and
// turns them into summary statistics and CSV exports.
package telemetry

import (
	"io"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/talgya/ecosim/internal/engine"
)

// Row is one genus in one generation, flattened for CSV output.
type Row struct {
	Generation int     `csv:"generation"`
	Genus      string  `csv:"genus"`
	Role       string  `csv:"role"`
	Before     int     `csv:"before"`
	After      int     `csv:"after"`
	Demand     float64 `csv:"demand"`
	Granted    float64 `csv:"granted"`
	Preyed     float64 `csv:"preyed"`
	PoolAfter  float64 `csv:"pool_after"`
	Extinct    bool    `csv:"extinct"`
	Skipped    bool    `csv:"skipped"`
}

// Summary aggregates one genus's trajectory over a run.
type Summary struct {
	Genus          string
	Generations    int
	MeanPopulation float64
	StdDev         float64
	Min            int
	Max            int
	Final          int
	ExtinctAt      int // generation of extinction, 0 if still alive
}

// History accumulates the reports of a simulation run.
type History struct {
	reports []*engine.Report
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Add appends a committed report.
func (h *History) Add(r *engine.Report) {
	h.reports = append(h.reports, r)
}

// Len returns the number of recorded generations.
func (h *History) Len() int {
	return len(h.reports)
}

// Reports returns the recorded reports in generation order.
func (h *History) Reports() []*engine.Report {
	return h.reports
}

// Last returns the most recent report, or nil.
func (h *History) Last() *engine.Report {
	if len(h.reports) == 0 {
		return nil
	}
	return h.reports[len(h.reports)-1]
}

// Rows flattens the history into per-genus CSV rows.
func (h *History) Rows() []Row {
	var rows []Row
	for _, r := range h.reports {
		for _, o := range r.Outcomes {
			rows = append(rows, Row{
				Generation: r.Generation,
				Genus:      o.Name,
				Role:       o.Role,
				Before:     o.Before,
				After:      o.After,
				Demand:     o.Demand,
				Granted:    o.Granted,
				Preyed:     o.Preyed,
				PoolAfter:  r.PoolAfter,
				Extinct:    o.Extinct,
				Skipped:    o.Skipped,
			})
		}
	}
	return rows
}

// WriteCSV writes the flattened history to w.
func (h *History) WriteCSV(w io.Writer) error {
	rows := h.Rows()
	return gocsv.Marshal(&rows, w)
}

// Summarize computes trajectory statistics for the named genus. The
// second return is false when the genus never appeared in the run.
func (h *History) Summarize(name string) (Summary, bool) {
	var trajectory []float64
	s := Summary{Genus: name}

	for _, r := range h.reports {
		o, ok := r.Outcome(name)
		if !ok {
			continue
		}
		trajectory = append(trajectory, float64(o.After))
		s.Final = o.After
		if o.Extinct && s.ExtinctAt == 0 {
			s.ExtinctAt = r.Generation
		}
	}
	if len(trajectory) == 0 {
		return Summary{}, false
	}

	s.Generations = len(trajectory)
	s.MeanPopulation = stat.Mean(trajectory, nil)
	if len(trajectory) > 1 {
		s.StdDev = stat.StdDev(trajectory, nil)
	}
	s.Min = int(trajectory[0])
	s.Max = int(trajectory[0])
	for _, v := range trajectory {
		if int(v) < s.Min {
			s.Min = int(v)
		}
		if int(v) > s.Max {
			s.Max = int(v)
		}
	}
	return s, true
}
