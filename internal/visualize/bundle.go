package visualize

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Summary gives headline numbers for a settlement set.
type Summary struct {
	TotalAmount      decimal.Decimal
	Currency         string
	TransactionCount int
	UserCount        int

	// ReductionRate is the percentage of original debts saved by the
	// settlements; 0 when there is no reduction.
	ReductionRate int
}

// Bundle combines every view of a settlement computation.
type Bundle struct {
	// Original is the network of raw debts before optimization.
	Original NetworkGraph

	NetworkGraph  NetworkGraph
	SankeyDiagram SankeyDiagram
	Summary       Summary
}

// BuildBundle derives the views for settlements computed from original.
func BuildBundle(original models.DebtGraph, settlements []models.Settlement, currency string) Bundle {
	transfers := models.SettlementTransfers(settlements)
	network := BuildNetworkGraph(transfers)

	total := decimal.Zero
	for _, s := range settlements {
		total = total.Add(s.Amount)
	}

	rate := 0
	if n := len(original.Debts); n > len(settlements) {
		rate = models.ReductionPercentage(n, len(settlements))
	}

	return Bundle{
		Original:      BuildNetworkGraph(original.Transfers()),
		NetworkGraph:  network,
		SankeyDiagram: BuildSankeyDiagram(transfers),
		Summary: Summary{
			TotalAmount:      total,
			Currency:         currency,
			TransactionCount: len(settlements),
			UserCount:        len(network.Nodes),
			ReductionRate:    rate,
		},
	}
}
