// Package explain turns a settlement computation into a structured breakdown
// and a plain-language explanation.
package explain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Step is one stage of the calculation narrative.
type Step struct {
	Number      int
	Title       string
	Description string
	Details     []string
}

// Stats compares the raw debts with the optimized settlements.
type Stats struct {
	OriginalTransactionCount  int
	OptimizedTransactionCount int
	ReductionPercentage       int
}

// Breakdown is the structured account of how settlements were derived.
type Breakdown struct {
	InputDebts       []models.DebtEdge
	UserBalances     []models.UserBalance
	CalculationSteps []Step
	FinalSettlements []models.Settlement
	Stats            Stats
}

// BuildBreakdown explains settlements computed from debts. User balances are
// folded directly from the debt list, independent of the settlements.
func BuildBreakdown(debts []models.DebtEdge, settlements []models.Settlement) Breakdown {
	currency := ""
	if len(debts) > 0 {
		currency = debts[0].Currency
	} else if len(settlements) > 0 {
		currency = settlements[0].Currency
	}

	transfers := make([]models.Transfer, len(debts))
	for i, e := range debts {
		transfers[i] = e.Transfer()
	}
	sheet := models.BalanceSheet{Currency: currency, Amounts: models.NetAmounts(transfers)}
	balances := sheet.List()

	return Breakdown{
		InputDebts:   append([]models.DebtEdge(nil), debts...),
		UserBalances: balances,
		CalculationSteps: []Step{
			debtStep(debts, len(balances)),
			balanceStep(balances),
			classifyStep(balances),
			settlementStep(settlements),
		},
		FinalSettlements: append([]models.Settlement(nil), settlements...),
		Stats: Stats{
			OriginalTransactionCount:  len(debts),
			OptimizedTransactionCount: len(settlements),
			ReductionPercentage:       models.ReductionPercentage(len(debts), len(settlements)),
		},
	}
}

func debtStep(debts []models.DebtEdge, users int) Step {
	step := Step{
		Number:      1,
		Title:       "Input debts",
		Description: fmt.Sprintf("Collected %d debts between %d users.", len(debts), users),
	}
	for _, e := range debts {
		step.Details = append(step.Details, fmt.Sprintf("%s owes %s %s", e.From, e.To, money(e.Amount, e.Currency)))
	}
	return step
}

func balanceStep(balances []models.UserBalance) Step {
	step := Step{
		Number:      2,
		Title:       "Net balances",
		Description: "Each debt is subtracted from the debtor and added to the creditor.",
	}
	for _, b := range balances {
		sign := ""
		if b.Amount.IsPositive() {
			sign = "+"
		}
		step.Details = append(step.Details, fmt.Sprintf("%s: %s%s", b.UserID, sign, money(b.Amount, b.Currency)))
	}
	return step
}

func classifyStep(balances []models.UserBalance) Step {
	var creditors, debtors []models.UserBalance
	for _, b := range balances {
		switch {
		case b.Amount.IsPositive():
			creditors = append(creditors, b)
		case b.Amount.IsNegative():
			debtors = append(debtors, models.UserBalance{UserID: b.UserID, Currency: b.Currency, Amount: b.Amount.Neg()})
		}
	}
	byAmount := func(list []models.UserBalance) {
		sort.SliceStable(list, func(i, j int) bool {
			if c := list[i].Amount.Cmp(list[j].Amount); c != 0 {
				return c > 0
			}
			return list[i].UserID < list[j].UserID
		})
	}
	byAmount(creditors)
	byAmount(debtors)

	step := Step{
		Number:      3,
		Title:       "Creditors and debtors",
		Description: fmt.Sprintf("%d users are owed money and %d users owe money.", len(creditors), len(debtors)),
	}
	for _, c := range creditors {
		step.Details = append(step.Details, fmt.Sprintf("creditor %s is owed %s", c.UserID, money(c.Amount, c.Currency)))
	}
	for _, d := range debtors {
		step.Details = append(step.Details, fmt.Sprintf("debtor %s owes %s", d.UserID, money(d.Amount, d.Currency)))
	}
	return step
}

func settlementStep(settlements []models.Settlement) Step {
	step := Step{
		Number:      4,
		Title:       "Optimized settlements",
		Description: fmt.Sprintf("%d payments settle every balance.", len(settlements)),
	}
	for _, s := range settlements {
		step.Details = append(step.Details, s.String())
	}
	return step
}

func money(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return amount.StringFixed(models.DefaultPrecision)
	}
	return amount.StringFixed(models.Precision(currency)) + " " + currency
}
