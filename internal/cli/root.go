// Package cli implements the settle command: offline settlement
// computation from a TOML scenario file.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/pkg/logging"
)

// Execute runs the settle command with os.Args and returns the exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "settle",
		Short: "Compute minimal settlements for shared expenses",
		Long: `settle reads a group's expenses, completed payments and friendships from a
TOML scenario file and prints the smallest set of payments that settles
everyone up, as JSON.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), level))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(newComputeCmd())
	rootCmd.AddCommand(newAlgorithmsCmd())
	return rootCmd
}
