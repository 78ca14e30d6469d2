package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/izvod-dev/izvod/internal/export"
	"github.com/izvod-dev/izvod/internal/model"
	"github.com/izvod-dev/izvod/internal/output"
)

func newExportCommand() *cobra.Command {
	var outPath string
	var encoding string

	cmd := &cobra.Command{
		Use:   "export JSON...",
		Short: "Render parsed statements as a 1C client-bank exchange file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statements := make([]model.Statement, 0, len(args))
			for _, path := range args {
				stmt, err := readStatement(path)
				if err != nil {
					return err
				}
				statements = append(statements, stmt)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating export: %w", err)
			}
			opts := export.Options{Created: time.Now(), Encoding: export.Encoding(encoding)}
			if err := export.Write1C(f, statements, opts); err != nil {
				f.Close()
				os.Remove(outPath)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing export: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d statement(s) to %s\n", len(statements), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().StringVar(&encoding, "encoding", string(export.EncodingUTF8), "file encoding (UTF-8, Windows)")

	return cmd
}

func readStatement(path string) (model.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Statement{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	stmt, err := output.ReadJSON(f)
	if err != nil {
		return model.Statement{}, fmt.Errorf("%s: %w", path, err)
	}
	return stmt, nil
}
