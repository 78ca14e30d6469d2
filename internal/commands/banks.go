package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/izvod-dev/izvod/internal/importer"
)

func newBanksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported banks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tBANK\tFORMAT\tEXTENSIONS")
			for _, b := range importer.DefaultRegistry().Banks() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Code, b.Name, b.Kind, strings.Join(b.Extensions(), " "))
			}
			return tw.Flush()
		},
	}
}
