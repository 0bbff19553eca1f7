package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitType is the rule used to divide an expense among its participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly; Split.Value is ignored.
	SplitEqual SplitType = "equal"
	// SplitPercentage assigns Value percent of the amount; values sum to 100.
	SplitPercentage SplitType = "percentage"
	// SplitFixed assigns the literal Value; values sum to the amount.
	SplitFixed SplitType = "fixed"
	// SplitShare assigns amount × Value / Σ values.
	SplitShare SplitType = "share"
)

// ParseSplitType converts a wire string into a SplitType.
func ParseSplitType(s string) (SplitType, error) {
	switch t := SplitType(s); t {
	case SplitEqual, SplitPercentage, SplitFixed, SplitShare:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown split type %q", ErrValidation, s)
}

// Split is one participant's entry in an expense.
// All splits of one expense must share the same Type.
type Split struct {
	// UserID identifies the participant.
	UserID string

	// Type is the split rule.
	Type SplitType

	// Value is interpreted according to Type: a percentage, a fixed amount,
	// or a share weight. Unused for SplitEqual.
	Value decimal.Decimal
}

// Share is one participant's calculated portion of an expense.
// This is the output of the split calculation.
type Share struct {
	UserID string
	Amount decimal.Decimal
}

// Expense is a purchase paid by one user and shared by the participants
// listed in Splits. The payer may or may not be a participant.
type Expense struct {
	// ID is the storage identifier (UUID format). Empty for ad-hoc input.
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the user who paid the full amount.
	PayerID string

	// Amount is the total paid. Must be positive.
	Amount decimal.Decimal

	// Currency is a 3-letter uppercase currency code.
	Currency string

	// Description is a free-form label (e.g., "Dinner", "Groceries").
	Description string

	// Splits lists every participant with their split rule.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// SplitType returns the common split type of the expense, or an empty string
// if it has no splits.
func (e Expense) SplitType() SplitType {
	if len(e.Splits) == 0 {
		return ""
	}
	return e.Splits[0].Type
}

// Participants returns the user IDs in split order.
func (e Expense) Participants() []string {
	ids := make([]string, len(e.Splits))
	for i, s := range e.Splits {
		ids[i] = s.UserID
	}
	return ids
}
