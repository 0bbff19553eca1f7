package currency

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// TargetCurrency picks the settlement currency for a graph: preferred when
// set, otherwise the currency used by the most debts. Ties go to the
// alphabetically first code. Returns fallback for an empty graph.
func TargetCurrency(graph models.DebtGraph, preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	counts := make(map[string]int)
	for _, debt := range graph.Debts {
		counts[debt.Currency]++
	}
	best, bestCount := "", 0
	for cur, n := range counts {
		if n > bestCount || (n == bestCount && cur < best) {
			best, bestCount = cur, n
		}
	}
	if best == "" {
		return fallback
	}
	return best
}

// Normalized is a debt graph converted into a single currency.
type Normalized struct {
	// Graph holds the converted debts. Converted edges keep their
	// original amount and currency.
	Graph models.DebtGraph

	// Currency is the target currency of every debt in Graph.
	Currency string

	rates Rates

	// origins maps each debtor to the single currency their original debts
	// were incurred in; empty when they were mixed.
	origins map[string]string
}

// Normalize converts every debt in graph into target using rates.
// It fails with *MissingExchangeRateError when any involved pair has no rate.
func Normalize(graph models.DebtGraph, rates Rates, target string) (*Normalized, error) {
	if err := models.ValidateCurrency(target); err != nil {
		return nil, err
	}
	for _, cur := range graph.Currencies() {
		if _, err := rates.Rate(cur, target); err != nil {
			return nil, err
		}
	}

	out := &Normalized{
		Graph:    models.DebtGraph{Users: append([]string(nil), graph.Users...)},
		Currency: target,
		rates:    rates,
		origins:  make(map[string]string),
	}
	mixed := make(map[string]bool)

	for _, debt := range graph.Debts {
		if cur, ok := out.origins[debt.From]; !ok && !mixed[debt.From] {
			out.origins[debt.From] = debt.Currency
		} else if ok && cur != debt.Currency {
			delete(out.origins, debt.From)
			mixed[debt.From] = true
		}

		if debt.Currency == target {
			out.Graph.Debts = append(out.Graph.Debts, debt)
			continue
		}

		converted, err := rates.Convert(debt.Amount, debt.Currency, target)
		if err != nil {
			return nil, err
		}
		if converted.IsZero() {
			continue
		}
		original := debt.Amount
		out.Graph.Debts = append(out.Graph.Debts, models.DebtEdge{
			From:             debt.From,
			To:               debt.To,
			Amount:           converted,
			Currency:         target,
			OriginalAmount:   &original,
			OriginalCurrency: debt.Currency,
		})
	}

	return out, nil
}

// BalanceSheet returns the net balances of the converted graph. Because
// every converted edge debits and credits the same rounded amount, the
// sheet still sums to zero.
func (n *Normalized) BalanceSheet() models.BalanceSheet {
	sheet := models.NewBalanceSheet(n.Currency)
	for id, amt := range models.NetAmounts(n.Graph.Transfers()) {
		sheet.Amounts[id] = amt
	}
	for _, u := range n.Graph.Users {
		if _, ok := sheet.Amounts[u]; !ok {
			sheet.Amounts[u] = decimal.Zero
		}
	}
	return sheet
}

// Annotate returns a copy of settlements in which every payment whose payer
// incurred all their debts in one foreign currency carries the amount in that
// currency alongside the rate used.
func (n *Normalized) Annotate(settlements []models.Settlement) []models.Settlement {
	out := make([]models.Settlement, len(settlements))
	copy(out, settlements)
	for i, s := range out {
		origin, ok := n.origins[s.PayerID]
		if !ok || origin == n.Currency {
			continue
		}
		rate, err := n.rates.Rate(origin, n.Currency)
		if err != nil || !rate.IsPositive() {
			continue
		}
		original := s.Amount.Div(rate).Round(models.Precision(origin))
		out[i].OriginalAmount = &original
		out[i].OriginalCurrency = origin
		out[i].ExchangeRate = &rate
	}
	return out
}
