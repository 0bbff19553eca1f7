package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/settle"
)

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the available settlement algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, a := range settle.Algorithms {
				name := a.DisplayName()
				if a == settle.MinCashFlow {
					name += " (default)"
				}
				fmt.Fprintf(w, "%s\t%s\n", a, name)
			}
			return w.Flush()
		},
	}
}
