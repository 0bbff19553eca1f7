package models

import "errors"

// ErrValidation is the parent of every input validation failure. Callers can
// test for it with errors.Is to tell bad input apart from internal faults.
var ErrValidation = errors.New("validation failed")

var (
	ErrNonPositiveAmount = newValidationError("amount must be positive")
	ErrSelfSettlement    = newValidationError("payer and receiver must differ")
	ErrInvalidCurrency   = newValidationError("currency must be a 3-letter uppercase code")
	ErrUnknownAlgorithm  = newValidationError("unknown settlement algorithm")
	ErrUnbalanced        = newValidationError("balances do not sum to zero")
	ErrMissingPayer      = newValidationError("expense has no payer")
	ErrNoParticipants    = newValidationError("expense has no participants")
	ErrMixedCurrencies   = newValidationError("debts span more than one currency")
	ErrTooPrecise        = newValidationError("amount is finer than the currency's minor unit")
)

// validationError is a sentinel that unwraps to ErrValidation.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }

func newValidationError(msg string) error { return &validationError{msg: msg} }
