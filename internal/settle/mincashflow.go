package settle

import (
	"container/heap"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// minCashFlow repeatedly settles the current largest debtor against the
// current largest creditor. Partially settled parties go back into their
// heap, so the next match always uses the largest remaining amounts.
type minCashFlow struct{}

func (minCashFlow) Algorithm() Algorithm { return MinCashFlow }

func (minCashFlow) Calculate(balances models.BalanceSheet, _ []models.FriendRelation) ([]models.Settlement, error) {
	if err := checkBalanced(balances); err != nil {
		return nil, err
	}
	creditors, debtors := partition(balances)

	ch := partyHeap(creditors)
	dh := partyHeap(debtors)
	heap.Init(&ch)
	heap.Init(&dh)

	var settlements []models.Settlement
	for ch.Len() > 0 && dh.Len() > 0 {
		creditor := heap.Pop(&ch).(party)
		debtor := heap.Pop(&dh).(party)

		amount := decimal.Min(creditor.Amount, debtor.Amount)
		settlements = append(settlements, newSettlement(debtor.ID, creditor.ID, amount, balances.Currency))

		if rest := creditor.Amount.Sub(amount); rest.IsPositive() {
			heap.Push(&ch, party{ID: creditor.ID, Amount: rest})
		}
		if rest := debtor.Amount.Sub(amount); rest.IsPositive() {
			heap.Push(&dh, party{ID: debtor.ID, Amount: rest})
		}
	}
	return settlements, nil
}

// partyHeap is a max-heap ordered by ranksBefore.
type partyHeap []party

func (h partyHeap) Len() int           { return len(h) }
func (h partyHeap) Less(i, j int) bool { return ranksBefore(h[i], h[j]) }
func (h partyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *partyHeap) Push(x any) { *h = append(*h, x.(party)) }

func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}
