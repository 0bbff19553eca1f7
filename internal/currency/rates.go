// Package currency converts multi-currency debt graphs into a single
// settlement currency.
package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// MissingExchangeRateError is returned when no rate, direct or inverse, is
// known for a currency pair that has to be converted.
type MissingExchangeRateError struct {
	From string
	To   string
}

func (e *MissingExchangeRateError) Error() string {
	return fmt.Sprintf("missing exchange rate for %s", PairKey(e.From, e.To))
}

// Unwrap lets callers match the error with errors.Is(err, models.ErrValidation).
func (e *MissingExchangeRateError) Unwrap() error { return models.ErrValidation }

// Rates maps "FROM_TO" currency pairs to the amount of TO bought by one unit
// of FROM.
type Rates map[string]decimal.Decimal

// PairKey builds the "FROM_TO" key for a currency pair.
func PairKey(from, to string) string {
	return from + "_" + to
}

// ParseRates validates raw "CUR1_CUR2" → rate strings.
func ParseRates(raw map[string]string) (Rates, error) {
	rates := make(Rates, len(raw))
	for key, value := range raw {
		from, to, ok := strings.Cut(key, "_")
		if !ok {
			return nil, fmt.Errorf("%w: exchange rate key %q must look like USD_EUR", models.ErrValidation, key)
		}
		if err := models.ValidateCurrency(from); err != nil {
			return nil, err
		}
		if err := models.ValidateCurrency(to); err != nil {
			return nil, err
		}
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: exchange rate %s=%q: %v", models.ErrValidation, key, value, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("%w: exchange rate %s", models.ErrNonPositiveAmount, key)
		}
		rates[key] = rate
	}
	return rates, nil
}

// Rate returns the conversion rate from one currency to another. A pair
// supplied only in the opposite direction is inverted.
func (r Rates) Rate(from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := r[PairKey(from, to)]; ok {
		return rate, nil
	}
	if rate, ok := r[PairKey(to, from)]; ok && rate.IsPositive() {
		return decimal.NewFromInt(1).Div(rate), nil
	}
	return decimal.Zero, &MissingExchangeRateError{From: from, To: to}
}

// Convert converts amount and rounds it to the target currency's precision.
func (r Rates) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := r.Rate(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).Round(models.Precision(to)), nil
}

// Keys returns the pair keys in ascending order.
func (r Rates) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
