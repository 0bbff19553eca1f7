package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Ledger is the result of folding a group's expenses and settlements.
type Ledger struct {
	// Graph holds every raw obligation, for display of the original debts.
	Graph models.DebtGraph

	// Balances holds one balance sheet per currency present in the input.
	Balances map[string]models.BalanceSheet
}

// Currencies returns the currencies of the ledger in order of first appearance.
func (l *Ledger) Currencies() []string {
	return l.Graph.Currencies()
}

// CalculateGroupBalances folds expenses and completed settlements into a
// debt graph and per-currency net balances.
//
// Algorithm:
//   - For each expense: every participant other than the payer owes the payer
//     their share; the payer is credited amount − own share
//   - For each settlement: the payer is credited and the receiver debited by
//     the amount, recorded as an edge from receiver to payer
//   - Every debit has a matching credit, so each sheet sums to zero
func CalculateGroupBalances(expenses []models.Expense, settlements []models.Settlement) (*Ledger, error) {
	ledger := &Ledger{Balances: make(map[string]models.BalanceSheet)}
	seen := make(map[string]bool)
	addUser := func(id string) {
		if !seen[id] {
			seen[id] = true
			ledger.Graph.Users = append(ledger.Graph.Users, id)
		}
	}
	sheetFor := func(currency string) models.BalanceSheet {
		sheet, ok := ledger.Balances[currency]
		if !ok {
			sheet = models.NewBalanceSheet(currency)
			ledger.Balances[currency] = sheet
		}
		return sheet
	}

	for _, exp := range expenses {
		if exp.PayerID == "" {
			return nil, fmt.Errorf("expense %s: %w", exp.ID, models.ErrMissingPayer)
		}

		shares, err := CalculateSplit(exp.Amount, exp.Currency, exp.Splits)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", exp.ID, err)
		}

		addUser(exp.PayerID)
		sheet := sheetFor(exp.Currency)
		sheet.Add(exp.PayerID, exp.Amount)

		for _, share := range shares {
			addUser(share.UserID)
			sheet.Add(share.UserID, share.Amount.Neg())

			if share.UserID == exp.PayerID || share.Amount.IsZero() {
				continue
			}
			ledger.Graph.Debts = append(ledger.Graph.Debts, models.DebtEdge{
				From:     share.UserID,
				To:       exp.PayerID,
				Amount:   share.Amount,
				Currency: exp.Currency,
			})
		}
	}

	for _, s := range settlements {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("settlement %s: %w", s.ID, err)
		}

		addUser(s.PayerID)
		addUser(s.ReceiverID)
		sheet := sheetFor(s.Currency)
		sheet.Add(s.PayerID, s.Amount)
		sheet.Add(s.ReceiverID, s.Amount.Neg())

		ledger.Graph.Debts = append(ledger.Graph.Debts, models.DebtEdge{
			From:     s.ReceiverID,
			To:       s.PayerID,
			Amount:   s.Amount,
			Currency: s.Currency,
		})
	}

	for currency, sheet := range ledger.Balances {
		for _, u := range ledger.Graph.Users {
			if _, ok := sheet.Amounts[u]; !ok {
				sheet.Amounts[u] = decimal.Zero
			}
		}
		if total := sheet.Total(); !total.IsZero() {
			return nil, fmt.Errorf("balances in %s sum to %s", currency, total)
		}
	}

	return ledger, nil
}
