package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/izvod-dev/izvod/internal/buildinfo"
	"github.com/izvod-dev/izvod/internal/config"
	"github.com/izvod-dev/izvod/internal/logger"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "izvod",
		Short:   "Montenegrin bank statement extraction",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", config.FileName, "path to izvod.yaml")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newBanksCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newScanCommand(flags))
	rootCmd.AddCommand(newWatchCommand(flags))

	return rootCmd
}

// loadConfig reads the configuration file, the .env file next to it and the
// IZVOD_* environment, in that order of precedence from lowest to highest.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	path, err := filepath.Abs(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	if err := config.LoadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}
