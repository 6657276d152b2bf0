package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/ecosim/internal/eco"
	"github.com/talgya/ecosim/internal/engine"
	"github.com/talgya/ecosim/internal/persistence"
	"github.com/talgya/ecosim/internal/species"
)

func newSimulateCommand(opts *rootOptions) *cobra.Command {
	var (
		generations int
		starter     bool
		noPersist   bool
		csvPath     string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run N generations headless and print the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			var db *persistence.DB
			if !noPersist {
				path := opts.cfg.Database.Path
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return err
				}
				var err error
				db, err = persistence.Open(path)
				if err != nil {
					return err
				}
				defer db.Close()
			}

			var e *eco.Ecosystem
			if db != nil && db.HasState() {
				var err error
				e, err = db.LoadState(opts.cfg)
				if err != nil {
					return err
				}
			} else {
				e = eco.New(opts.cfg)
				if starter {
					for _, g := range species.StarterRoster() {
						if err := e.Store.Add(g); err != nil {
							return err
						}
					}
				}
			}

			if len(e.Store.ListActive()) == 0 {
				return errors.New("the ecosystem has no living genus; seed it with --starter or the interactive menu")
			}

			err := e.Run(ctx, generations, func(r *engine.Report) {
				if db != nil {
					if appendErr := db.AppendReport(r); appendErr != nil {
						fmt.Fprintf(os.Stderr, "history append failed: %v\n", appendErr)
					}
				}
			})
			collapsed := errors.Is(err, eco.ErrCollapsed)
			if err != nil && !collapsed {
				return err
			}

			for _, g := range e.Store.List() {
				summary, ok := e.History.Summarize(g.Name)
				if !ok {
					continue
				}
				status := fmt.Sprintf("final %d", summary.Final)
				if summary.ExtinctAt > 0 {
					status = fmt.Sprintf("extinct at generation %d", summary.ExtinctAt)
				}
				fmt.Printf("%-12s mean %.1f ± %.1f  min %d  max %d  %s\n",
					g.Name, summary.MeanPopulation, summary.StdDev,
					summary.Min, summary.Max, status)
			}
			if collapsed {
				// The last report carries the true generation number,
				// which counts across resumed sessions.
				if last := e.History.Last(); last != nil {
					fmt.Printf("ecosystem collapsed at generation %d\n", last.Generation)
				}
			}

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := e.History.WriteCSV(f); err != nil {
					return fmt.Errorf("writing %s: %w", csvPath, err)
				}
				fmt.Printf("history written to %s\n", csvPath)
			}

			if db != nil {
				return db.SaveState(e)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&generations, "generations", "n", 10, "number of generations to simulate")
	cmd.Flags().BoolVar(&starter, "starter", false, "seed a fresh ecosystem with the starter roster")
	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "run without the SQLite database")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the run history to a CSV file")
	return cmd
}
