package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DebtEdge is one directed obligation: From owes To the Amount.
type DebtEdge struct {
	From     string
	To       string
	Amount   decimal.Decimal
	Currency string

	// OriginalAmount and OriginalCurrency are set by currency normalization
	// when the edge was converted from another currency.
	OriginalAmount   *decimal.Decimal
	OriginalCurrency string
}

// Validate checks that the edge is a positive obligation between two
// different users, in a valid currency and at that currency's precision.
func (e DebtEdge) Validate() error {
	if e.From == e.To {
		return fmt.Errorf("%w: debt of %s to themselves", ErrSelfSettlement, e.From)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: debt %s -> %s is %s", ErrNonPositiveAmount, e.From, e.To, e.Amount)
	}
	if err := ValidateCurrency(e.Currency); err != nil {
		return err
	}
	if err := ValidatePrecision(e.Amount, e.Currency); err != nil {
		return fmt.Errorf("debt %s -> %s: %w", e.From, e.To, err)
	}
	return nil
}

// Transfer returns the edge as a directed money flow.
func (e DebtEdge) Transfer() Transfer {
	return Transfer{From: e.From, To: e.To, Amount: e.Amount, Currency: e.Currency}
}

// DebtGraph is the raw, un-optimized set of obligations for a group.
type DebtGraph struct {
	// Users lists every user involved, in order of first appearance.
	Users []string

	// Debts lists the obligations in the order they were derived.
	Debts []DebtEdge
}

// Validate checks every debt and fills in Users from the debts when the
// caller left it empty.
func (g *DebtGraph) Validate() error {
	for i, d := range g.Debts {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("debt %d: %w", i, err)
		}
	}
	if len(g.Users) == 0 {
		seen := make(map[string]bool)
		for _, d := range g.Debts {
			for _, id := range []string{d.From, d.To} {
				if !seen[id] {
					seen[id] = true
					g.Users = append(g.Users, id)
				}
			}
		}
	}
	return nil
}

// Currencies returns the distinct currencies of the graph's debts in order
// of first appearance.
func (g DebtGraph) Currencies() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range g.Debts {
		if !seen[d.Currency] {
			seen[d.Currency] = true
			out = append(out, d.Currency)
		}
	}
	return out
}

// Transfers returns the debts as directed money flows.
func (g DebtGraph) Transfers() []Transfer {
	out := make([]Transfer, len(g.Debts))
	for i, d := range g.Debts {
		out[i] = d.Transfer()
	}
	return out
}

// BalanceSheet folds the graph into net balances: each edge debits From and
// credits To. Returns ErrMixedCurrencies if the debts are not all in one
// currency; normalize first in that case.
func (g DebtGraph) BalanceSheet() (BalanceSheet, error) {
	currencies := g.Currencies()
	if len(currencies) > 1 {
		return BalanceSheet{}, ErrMixedCurrencies
	}
	sheet := BalanceSheet{Amounts: NetAmounts(g.Transfers())}
	if len(currencies) == 1 {
		sheet.Currency = currencies[0]
	}
	for _, u := range g.Users {
		if _, ok := sheet.Amounts[u]; !ok {
			sheet.Amounts[u] = decimal.Zero
		}
	}
	return sheet, nil
}

// Transfer is a directed money flow, the common shape of debts and
// settlements used by the derived views.
type Transfer struct {
	From     string
	To       string
	Amount   decimal.Decimal
	Currency string
}

// SettlementTransfers converts settlements into transfers.
func SettlementTransfers(settlements []Settlement) []Transfer {
	out := make([]Transfer, len(settlements))
	for i, s := range settlements {
		out[i] = s.Transfer()
	}
	return out
}

// NetAmounts returns, per user, the amount received minus the amount paid
// across the transfers. Currency is ignored.
func NetAmounts(transfers []Transfer) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal)
	for _, t := range transfers {
		net[t.From] = net[t.From].Sub(t.Amount)
		net[t.To] = net[t.To].Add(t.Amount)
	}
	return net
}
