package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/talgya/ecosim/internal/persistence"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the recorded generation history as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := persistence.Open(opts.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := db.HistoryRows()
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no generation history recorded in %s", opts.cfg.Database.Path)
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return gocsv.Marshal(&rows, out)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}
