package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/engine"
	"github.com/mmynk/settleup/internal/service"
	"github.com/mmynk/settleup/internal/settle"
)

type computeOptions struct {
	algorithm   string
	currency    string
	explain     bool
	friendships bool
	compact     bool
}

func newComputeCmd() *cobra.Command {
	var opts computeOptions

	cmd := &cobra.Command{
		Use:   "compute SCENARIO.toml",
		Short: "Compute settlements for a scenario file",
		Long: `Compute the settlements that clear every balance in a scenario file and
print them, with the visualization data, as JSON. Flags override the
scenario's own algorithm and currency.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "Settlement algorithm (minCashFlow, greedy, friendPreference)")
	cmd.Flags().StringVarP(&opts.currency, "currency", "c", "", "Settlement currency, e.g. USD")
	cmd.Flags().BoolVarP(&opts.explain, "explain", "e", false, "Include the breakdown and explanation")
	cmd.Flags().BoolVar(&opts.friendships, "friendships", false, "Include friendship links in the network graphs")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "Print JSON on a single line")
	return cmd
}

func runCompute(cmd *cobra.Command, path string, opts computeOptions) error {
	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}
	req, err := sc.Request()
	if err != nil {
		return err
	}
	if opts.algorithm != "" {
		req.Algorithm = opts.algorithm
	}
	if opts.currency != "" {
		req.Currency = opts.currency
	}
	req.IncludeExplanation = opts.explain
	req.IncludeFriendships = opts.friendships

	slog.Debug("Computing scenario",
		"path", path,
		"algorithm", req.Algorithm,
		"expenses_count", len(req.Expenses),
		"has_debt_graph", req.DebtGraph != nil,
	)

	// The store is unused: ComputeSettlements is self-contained.
	svc := service.NewSettlementService(nil, engine.New(engine.Options{}), settle.MinCashFlow)
	resp, err := svc.ComputeSettlements(cmd.Context(), connect.NewRequest(req))
	if err != nil {
		var connectErr *connect.Error
		if errors.As(err, &connectErr) {
			return fmt.Errorf("%s: %s", path, connectErr.Message())
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !opts.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp.Msg)
}
