package models

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of minor-unit digits for currencies not
// listed in minorUnits.
const DefaultPrecision int32 = 2

// Epsilon is the tolerance used when checking that totals reconcile.
var Epsilon = decimal.New(1, -2)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// minorUnits lists currencies whose precision differs from DefaultPrecision.
var minorUnits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"CLP": 0,
	"ISK": 0,
	"UGX": 0,
	"BHD": 3,
	"KWD": 3,
	"OMR": 3,
	"JOD": 3,
	"TND": 3,
}

// Precision returns the number of decimal places used for amounts in the
// given currency.
func Precision(currency string) int32 {
	if p, ok := minorUnits[currency]; ok {
		return p
	}
	return DefaultPrecision
}

// MinorUnit returns the smallest representable amount for the currency,
// e.g. 0.01 for USD and 1 for JPY.
func MinorUnit(currency string) decimal.Decimal {
	return decimal.New(1, -Precision(currency))
}

// ValidateCurrency checks that code is a 3-letter uppercase currency code.
func ValidateCurrency(code string) error {
	if !currencyCode.MatchString(code) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return nil
}

// ValidatePrecision rejects amounts with more decimal places than currency
// allows, e.g. 10.005 USD.
func ValidatePrecision(amount decimal.Decimal, currency string) error {
	if !amount.Mod(MinorUnit(currency)).IsZero() {
		return fmt.Errorf("%w: %s %s has more than %d decimal places", ErrTooPrecise, amount, currency, Precision(currency))
	}
	return nil
}

// WithinEpsilon reports whether a and b differ by no more than Epsilon.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}
