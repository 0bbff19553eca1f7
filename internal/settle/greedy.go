package settle

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// greedy sorts creditors and debtors once, then walks both lists matching
// the largest remaining entries until either side is exhausted.
type greedy struct{}

func (greedy) Algorithm() Algorithm { return Greedy }

func (greedy) Calculate(balances models.BalanceSheet, _ []models.FriendRelation) ([]models.Settlement, error) {
	if err := checkBalanced(balances); err != nil {
		return nil, err
	}
	creditors, debtors := partition(balances)
	return matchSorted(creditors, debtors, balances.Currency), nil
}

// matchSorted pairs two lists already sorted by ranksBefore. Each payment is
// min(creditor, debtor) and fully settles at least one of them, so the
// number of payments is at most len(creditors)+len(debtors)−1.
// The slices are modified in place.
func matchSorted(creditors, debtors []party, currency string) []models.Settlement {
	var settlements []models.Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].Amount, creditors[j].Amount)
		if amount.IsPositive() {
			settlements = append(settlements, newSettlement(debtors[i].ID, creditors[j].ID, amount, currency))
		}

		debtors[i].Amount = debtors[i].Amount.Sub(amount)
		creditors[j].Amount = creditors[j].Amount.Sub(amount)

		if !debtors[i].Amount.IsPositive() {
			i++
		}
		if !creditors[j].Amount.IsPositive() {
			j++
		}
	}
	return settlements
}
