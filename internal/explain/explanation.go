package explain

import (
	"fmt"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/settle"
)

// Explanation is the human-readable account of a settlement computation.
type Explanation struct {
	Summary               string
	AlgorithmExplanation  string
	StepByStepExplanation []string
	TransactionSummary    []string
}

// Explain renders a breakdown as text for the algorithm that produced it.
func Explain(alg settle.Algorithm, b Breakdown) Explanation {
	ex := Explanation{
		Summary:              summarize(b),
		AlgorithmExplanation: describeAlgorithm(alg),
	}
	for _, step := range b.CalculationSteps {
		ex.StepByStepExplanation = append(ex.StepByStepExplanation,
			fmt.Sprintf("Step %d (%s): %s", step.Number, step.Title, step.Description))
	}
	for _, s := range b.FinalSettlements {
		ex.TransactionSummary = append(ex.TransactionSummary, s.String())
	}
	return ex
}

func summarize(b Breakdown) string {
	if b.Stats.OptimizedTransactionCount == 0 {
		return "Everyone is settled up. No payments are needed."
	}
	users := 0
	for _, ub := range b.UserBalances {
		if !ub.Amount.IsZero() {
			users++
		}
	}
	s := fmt.Sprintf("%d payments settle the balances of %d users", b.Stats.OptimizedTransactionCount, users)
	if b.Stats.OriginalTransactionCount > 0 {
		s += fmt.Sprintf(", replacing %d original debts (%d%% fewer transactions)",
			b.Stats.OriginalTransactionCount, b.Stats.ReductionPercentage)
	}
	return s + "."
}

func describeAlgorithm(alg settle.Algorithm) string {
	switch alg {
	case settle.MinCashFlow:
		return "Minimum Cash Flow: after every payment the largest remaining debtor pays the largest remaining creditor " +
			"as much as possible. Each payment clears at least one person, so n people need at most n-1 payments."
	case settle.Greedy:
		return "Greedy: creditors and debtors are each sorted from largest to smallest balance, then matched in order. " +
			"Each payment clears at least one person, so n people need at most n-1 payments."
	case settle.FriendPreference:
		return "Friend Preference: debtors first pay creditors they are friends with, strongest friendships first. " +
			"Whatever remains is matched greedily from largest to smallest balance."
	}
	return fmt.Sprintf("%s: %s", alg.DisplayName(), models.ErrUnknownAlgorithm)
}
