package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/izvod-dev/izvod/internal/config"
	"github.com/izvod-dev/izvod/internal/model"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create an izvod.yaml and the inbox directory tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing izvod.yaml")

	return cmd
}

func runInit(out io.Writer, dir string, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()

	// Create directory structure: one inbox folder per bank.
	dirs := []string{cfg.Paths.Processed, cfg.Paths.Output, cfg.Paths.Log}
	for _, b := range model.Banks() {
		dirs = append(dirs, filepath.Join(cfg.Paths.Input, b.Code))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write izvod.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .env.example.
	env := "# Overrides for izvod.yaml; copy to .env\n" +
		"# IZVOD_INPUT_DIR=inbox\n" +
		"# IZVOD_SCAN_INTERVAL=60s\n" +
		"# IZVOD_LOG_LEVEL=info\n" +
		"# IZVOD_EXPORT_AUTO=false\n"
	if err := os.WriteFile(filepath.Join(dir, ".env.example"), []byte(env), 0o644); err != nil {
		return fmt.Errorf("writing .env.example: %w", err)
	}

	fmt.Fprintf(out, "Initialized izvod inbox at %s\n", dir)
	return nil
}
