package settle

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// friendPreference settles debtor/creditor pairs who are friends first, in
// descending friendship strength, then resolves the remainder greedily.
type friendPreference struct{}

func (friendPreference) Algorithm() Algorithm { return FriendPreference }

type friendPair struct {
	debtor   int
	creditor int
	strength decimal.Decimal
}

func (friendPreference) Calculate(balances models.BalanceSheet, relations []models.FriendRelation) ([]models.Settlement, error) {
	if err := checkBalanced(balances); err != nil {
		return nil, err
	}
	creditors, debtors := partition(balances)
	friends := models.IndexFriendships(relations)

	var pairs []friendPair
	for di, d := range debtors {
		for ci, c := range creditors {
			if s := friends.Strength(d.ID, c.ID); s.IsPositive() {
				pairs = append(pairs, friendPair{debtor: di, creditor: ci, strength: s})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if c := a.strength.Cmp(b.strength); c != 0 {
			return c > 0
		}
		if debtors[a.debtor].ID != debtors[b.debtor].ID {
			return debtors[a.debtor].ID < debtors[b.debtor].ID
		}
		return creditors[a.creditor].ID < creditors[b.creditor].ID
	})

	var settlements []models.Settlement
	for _, p := range pairs {
		d, c := &debtors[p.debtor], &creditors[p.creditor]
		amount := decimal.Min(d.Amount, c.Amount)
		if !amount.IsPositive() {
			continue
		}
		settlements = append(settlements, newSettlement(d.ID, c.ID, amount, balances.Currency))
		d.Amount = d.Amount.Sub(amount)
		c.Amount = c.Amount.Sub(amount)
	}

	settlements = append(settlements, matchSorted(remaining(creditors), remaining(debtors), balances.Currency)...)
	return settlements, nil
}

// remaining returns the parties with a positive amount left, re-sorted.
func remaining(ps []party) []party {
	var out []party
	for _, p := range ps {
		if p.Amount.IsPositive() {
			out = append(out, p)
		}
	}
	sortParties(out)
	return out
}
