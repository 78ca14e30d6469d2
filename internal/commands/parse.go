package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/izvod-dev/izvod/internal/importer"
	"github.com/izvod-dev/izvod/internal/output"
)

func newParseCommand() *cobra.Command {
	var bank string
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse one statement document",
		Long: "Parse one statement document and print it as JSON or CSV.\n" +
			"Without --bank the code is taken from the parent directory name, as in inbox/530/izvod.pdf.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if bank == "" {
				bank = filepath.Base(filepath.Dir(path))
			}
			registry := importer.DefaultRegistry()
			if registry.Get(bank) == nil {
				return fmt.Errorf("bank %q: %w (see 'izvod banks')", bank, importer.ErrUnsupportedBank)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}
			stmt, err := registry.Parse(bank, data)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				defer f.Close()
				w = f
			}
			return output.Write(w, stmt, output.Format(format))
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank code, e.g. 530")
	cmd.Flags().StringVar(&format, "format", string(output.FormatJSON), "output format (json, csv)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")

	return cmd
}
