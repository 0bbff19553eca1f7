package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

var hundred = decimal.NewFromInt(100)

// SplitValidationError reports splits that cannot be reconciled with the
// expense amount.
type SplitValidationError struct {
	Type   models.SplitType
	Reason string
}

func (e *SplitValidationError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("invalid split: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s split: %s", e.Type, e.Reason)
}

// Unwrap lets callers match the error with errors.Is(err, models.ErrValidation).
func (e *SplitValidationError) Unwrap() error { return models.ErrValidation }

func splitError(t models.SplitType, format string, args ...any) error {
	return &SplitValidationError{Type: t, Reason: fmt.Sprintf(format, args...)}
}

// CalculateSplit computes each participant's share of amount according to
// the split rules. Shares are rounded to the currency's minor unit and then
// corrected with DistributeRemainder, so they always sum to amount exactly.
// The result preserves the order of splits.
func CalculateSplit(amount decimal.Decimal, currency string, splits []models.Split) ([]models.Share, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount %s", models.ErrNonPositiveAmount, amount)
	}
	if err := models.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	precision := models.Precision(currency)
	if !amount.Equal(amount.Round(precision)) {
		return nil, splitError("", "amount %s has more than %d decimal places for %s", amount, precision, currency)
	}
	if len(splits) == 0 {
		return nil, splitError("", "must have at least one participant")
	}

	splitType := splits[0].Type
	seen := make(map[string]bool, len(splits))
	for _, s := range splits {
		if s.Type != splitType {
			return nil, splitError("", "mixed split types %q and %q", splitType, s.Type)
		}
		if s.UserID == "" {
			return nil, splitError(splitType, "participant without user id")
		}
		if seen[s.UserID] {
			return nil, splitError(splitType, "participant %s listed twice", s.UserID)
		}
		seen[s.UserID] = true
		if splitType != models.SplitEqual && s.Value.IsNegative() {
			return nil, splitError(splitType, "negative value %s for %s", s.Value, s.UserID)
		}
	}

	var (
		raw []decimal.Decimal
		err error
	)
	switch splitType {
	case models.SplitEqual:
		raw = equalShares(amount, len(splits), precision)
	case models.SplitPercentage:
		raw, err = percentageShares(amount, splits, precision)
	case models.SplitFixed:
		raw, err = fixedShares(amount, splits, precision)
	case models.SplitShare:
		raw, err = weightedShares(amount, splits, precision)
	default:
		err = splitError(splitType, "unknown split type")
	}
	if err != nil {
		return nil, err
	}

	remainder := amount.Sub(sum(raw))
	corrected := DistributeRemainder(raw, remainder, precision)

	shares := make([]models.Share, len(splits))
	for i, s := range splits {
		shares[i] = models.Share{UserID: s.UserID, Amount: corrected[i]}
	}
	return shares, nil
}

func equalShares(amount decimal.Decimal, n int, precision int32) []decimal.Decimal {
	each := amount.DivRound(decimal.NewFromInt(int64(n)), precision)
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = each
	}
	return out
}

func percentageShares(amount decimal.Decimal, splits []models.Split, precision int32) ([]decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.Value)
	}
	if !models.WithinEpsilon(total, hundred) {
		return nil, splitError(models.SplitPercentage, "percentages sum to %s, want 100", total)
	}
	out := make([]decimal.Decimal, len(splits))
	for i, s := range splits {
		out[i] = amount.Mul(s.Value).DivRound(hundred, precision)
	}
	return out, nil
}

func fixedShares(amount decimal.Decimal, splits []models.Split, precision int32) ([]decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.Value)
	}
	if !models.WithinEpsilon(total, amount) {
		return nil, splitError(models.SplitFixed, "amounts sum to %s, want %s", total, amount)
	}
	out := make([]decimal.Decimal, len(splits))
	for i, s := range splits {
		out[i] = s.Value.Round(precision)
	}
	return out, nil
}

func weightedShares(amount decimal.Decimal, splits []models.Split, precision int32) ([]decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.Value)
	}
	if !total.IsPositive() {
		return nil, splitError(models.SplitShare, "total shares must be positive")
	}
	out := make([]decimal.Decimal, len(splits))
	for i, s := range splits {
		out[i] = amount.Mul(s.Value).DivRound(total, precision)
	}
	return out, nil
}

// DistributeRemainder spreads remainder over shares one minor unit at a time
// so that the result sums to Σshares + remainder. The remainder is first
// rounded to precision. Positive remainders go to the smallest shares first,
// negative ones to the largest, cycling through the list; equal shares keep
// their input order. The input slice is not modified.
func DistributeRemainder(shares []decimal.Decimal, remainder decimal.Decimal, precision int32) []decimal.Decimal {
	out := make([]decimal.Decimal, len(shares))
	copy(out, shares)

	remainder = remainder.Round(precision)
	if remainder.IsZero() || len(shares) == 0 {
		return out
	}

	unit := decimal.New(1, -precision)
	ascending := remainder.IsPositive()
	if !ascending {
		unit = unit.Neg()
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if ascending {
			return shares[order[a]].LessThan(shares[order[b]])
		}
		return shares[order[a]].GreaterThan(shares[order[b]])
	})

	applied := decimal.Zero
	for i := 0; !applied.Equal(remainder); i++ {
		idx := order[i%len(order)]
		out[idx] = out[idx].Add(unit)
		applied = applied.Add(unit)
	}
	return out
}

func sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
