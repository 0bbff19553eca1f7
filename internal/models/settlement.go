package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Settlement is a payment from one user to another that reduces outstanding
// balances. The engine emits recommended settlements; storage records
// completed ones.
type Settlement struct {
	// ID is the storage identifier (UUID format). Empty for recommendations.
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// PayerID is the user who pays (debtor settling up).
	PayerID string

	// ReceiverID is the user who receives the payment (creditor).
	ReceiverID string

	// Amount is the payment amount in Currency.
	Amount decimal.Decimal

	// Currency is the currency of Amount.
	Currency string

	// OriginalAmount, OriginalCurrency and ExchangeRate are set when Amount
	// was converted from the currency the payer's debts were incurred in.
	OriginalAmount   *decimal.Decimal
	OriginalCurrency string
	ExchangeRate     *decimal.Decimal

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// Note is an optional description for the settlement.
	Note string
}

// Validate checks the settlement can be applied to balances.
func (s Settlement) Validate() error {
	if s.PayerID == s.ReceiverID {
		return fmt.Errorf("%w: %s", ErrSelfSettlement, s.PayerID)
	}
	if !s.Amount.IsPositive() {
		return fmt.Errorf("%w: settlement %s -> %s is %s", ErrNonPositiveAmount, s.PayerID, s.ReceiverID, s.Amount)
	}
	if err := ValidateCurrency(s.Currency); err != nil {
		return err
	}
	if err := ValidatePrecision(s.Amount, s.Currency); err != nil {
		return fmt.Errorf("settlement %s -> %s: %w", s.PayerID, s.ReceiverID, err)
	}
	return nil
}

// Transfer returns the settlement as a directed money flow.
func (s Settlement) Transfer() Transfer {
	return Transfer{From: s.PayerID, To: s.ReceiverID, Amount: s.Amount, Currency: s.Currency}
}

// String renders the settlement as a sentence, e.g. "bob pays 30.00 USD to alice".
func (s Settlement) String() string {
	return fmt.Sprintf("%s pays %s %s to %s", s.PayerID, s.Amount.StringFixed(Precision(s.Currency)), s.Currency, s.ReceiverID)
}
