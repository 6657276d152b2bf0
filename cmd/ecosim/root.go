package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/ecosim/internal/config"
)

// rootOptions holds the global flags shared by all commands.
type rootOptions struct {
	ConfigPath string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ecosim",
		Short: "Closed-ecosystem generation simulator",
		Long: "ecosim models a closed ecosystem of genus populations and advances it\n" +
			"through discrete generations of births, deaths, and resource allocation.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			}))
			slog.SetDefault(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newSimulateCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))

	return cmd
}
