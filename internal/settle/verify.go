package settle

import (
	"errors"
	"fmt"

	"github.com/mmynk/settleup/internal/models"
)

// ErrInvariantViolation marks a strategy result that does not settle its
// input. It indicates a defect, not bad input.
var ErrInvariantViolation = errors.New("settlement invariant violated")

// InvariantViolationError describes how a strategy's output failed
// verification.
type InvariantViolationError struct {
	Algorithm Algorithm
	Reason    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariantViolation, e.Algorithm, e.Reason)
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

// Verify checks that settlements settle balances:
//   - every amount is positive and payer differs from receiver
//   - every settlement is in the sheet's currency
//   - applying them leaves every balance within models.Epsilon of zero
//   - there are at most n−1 of them for n non-zero balances
func Verify(a Algorithm, balances models.BalanceSheet, settlements []models.Settlement) error {
	violation := func(format string, args ...any) error {
		return &InvariantViolationError{Algorithm: a, Reason: fmt.Sprintf(format, args...)}
	}

	residual := balances.Clone()
	for i, s := range settlements {
		if !s.Amount.IsPositive() {
			return violation("settlement %d has non-positive amount %s", i, s.Amount)
		}
		if s.PayerID == s.ReceiverID {
			return violation("settlement %d pays %s to themselves", i, s.PayerID)
		}
		if balances.Currency != "" && s.Currency != balances.Currency {
			return violation("settlement %d is in %s, want %s", i, s.Currency, balances.Currency)
		}
		residual.Add(s.PayerID, s.Amount)
		residual.Add(s.ReceiverID, s.Amount.Neg())
	}

	for _, id := range residual.Users() {
		if amt := residual.Get(id); !amt.Abs().LessThanOrEqual(models.Epsilon) {
			return violation("%s has residual balance %s", id, amt)
		}
	}

	n := balances.NonZero()
	limit := n - 1
	if limit < 0 {
		limit = 0
	}
	if len(settlements) > limit {
		return violation("%d settlements for %d non-zero balances", len(settlements), n)
	}
	return nil
}
