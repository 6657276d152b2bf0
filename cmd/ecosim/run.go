package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/ecosim/internal/menu"
	"github.com/talgya/ecosim/internal/persistence"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	var noPersist bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive ecosystem menu",
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

			m := menu.New(opts.cfg, os.Stdin, os.Stdout, db)

			// Resume a saved ecosystem if one exists.
			if db != nil && db.HasState() {
				e, err := db.LoadState(opts.cfg)
				if err != nil {
					slog.Error("could not load saved ecosystem, starting fresh", "error", err)
				} else {
					m.SetEcosystem(e)
				}
			}

			return m.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "run without the SQLite database")
	return cmd
}
