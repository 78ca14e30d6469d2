package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/izvod-dev/izvod/internal/config"
	"github.com/izvod-dev/izvod/internal/export"
	"github.com/izvod-dev/izvod/internal/importer"
	"github.com/izvod-dev/izvod/internal/ingest"
)

func newScanCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one ingest pass over the inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			p, log, err := processorFor(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			summary, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d, failed %d (run %s)\n",
				summary.Parsed(), summary.Failed(), summary.RunID)
			for _, r := range summary.Results {
				if r.Err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s/%s: %v\n", r.Bank.Code, r.Name(), r.Err)
				}
			}
			return nil
		},
	}
}

func newWatchCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run ingest passes periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			p, log, err := processorFor(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return p.Watch(ctx, cfg.Scan.Interval)
		},
	}
}

func processorFor(cfg *config.Config) (*ingest.Processor, *zap.Logger, error) {
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	registry := importer.DefaultRegistry()
	p := ingest.NewProcessor(registry, registry.Banks(), ingest.Options{
		Input:      cfg.Paths.Input,
		Processed:  cfg.Paths.Processed,
		Output:     cfg.Paths.Output,
		LogDir:     cfg.Paths.Log,
		Workers:    cfg.Scan.Workers,
		Export:     cfg.Export.Auto,
		Encoding:   export.Encoding(cfg.Export.Encoding),
		Extensions: cfg.Extensions,
	}, log)
	return p, log, nil
}
