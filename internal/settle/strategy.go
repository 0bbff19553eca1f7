// Package settle reduces net balances to a short list of payments.
//
// Three strategies are available, selected by Algorithm:
//
//	MinCashFlow       always matches the current largest creditor with the
//	                  current largest debtor, re-ranking after every payment
//	Greedy            sorts creditors and debtors once and walks both lists
//	FriendPreference  settles between friends first, strongest ties first,
//	                  then falls back to Greedy for what remains
//
// All strategies are deterministic: ties are broken by user ID, never by map
// or insertion order, so identical balances always produce identical output.
package settle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Algorithm identifies a settlement strategy.
type Algorithm int

const (
	MinCashFlow Algorithm = iota
	Greedy
	FriendPreference
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{MinCashFlow, Greedy, FriendPreference}

var algorithmNames = map[Algorithm]string{
	MinCashFlow:      "minCashFlow",
	Greedy:           "greedy",
	FriendPreference: "friendPreference",
}

// String returns the wire name, e.g. "minCashFlow".
func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// DisplayName returns a human-readable name, e.g. "Minimum Cash Flow".
func (a Algorithm) DisplayName() string {
	switch a {
	case MinCashFlow:
		return "Minimum Cash Flow"
	case Greedy:
		return "Greedy"
	case FriendPreference:
		return "Friend Preference"
	}
	return a.String()
}

// ParseAlgorithm converts a wire name into an Algorithm. Matching ignores
// case, underscores and hyphens; an empty string selects MinCashFlow.
func ParseAlgorithm(s string) (Algorithm, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(s))
	if norm == "" {
		return MinCashFlow, nil
	}
	for a, name := range algorithmNames {
		if strings.ToLower(name) == norm {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", models.ErrUnknownAlgorithm, s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if _, ok := algorithmNames[a]; !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownAlgorithm, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Strategy turns a balance sheet into an ordered list of settlements.
//
// Preconditions: the sheet sums to zero within models.Epsilon and is in a
// single currency. Applying the result to the sheet drives every balance to
// zero, using at most n−1 payments for n users with a non-zero balance.
type Strategy interface {
	Algorithm() Algorithm
	Calculate(balances models.BalanceSheet, relations []models.FriendRelation) ([]models.Settlement, error)
}

// New returns the strategy for an algorithm.
func New(a Algorithm) (Strategy, error) {
	switch a {
	case MinCashFlow:
		return minCashFlow{}, nil
	case Greedy:
		return greedy{}, nil
	case FriendPreference:
		return friendPreference{}, nil
	}
	return nil, fmt.Errorf("%w: %s", models.ErrUnknownAlgorithm, a)
}

// Run calculates settlements with the given algorithm and verifies the
// result against the input balances. A verification failure is returned as
// an *InvariantViolationError.
func Run(a Algorithm, balances models.BalanceSheet, relations []models.FriendRelation) ([]models.Settlement, error) {
	strategy, err := New(a)
	if err != nil {
		return nil, err
	}
	settlements, err := strategy.Calculate(balances, relations)
	if err != nil {
		return nil, err
	}
	if err := Verify(a, balances, settlements); err != nil {
		return nil, err
	}
	return settlements, nil
}

// party is one side of a match: a creditor owed Amount or a debtor owing it.
type party struct {
	ID     string
	Amount decimal.Decimal
}

// ranksBefore orders parties by amount descending, then ID ascending.
func ranksBefore(a, b party) bool {
	if c := a.Amount.Cmp(b.Amount); c != 0 {
		return c > 0
	}
	return a.ID < b.ID
}

func sortParties(ps []party) {
	sort.Slice(ps, func(i, j int) bool { return ranksBefore(ps[i], ps[j]) })
}

// partition splits a sheet into creditors and debtors (as positive amounts),
// each sorted by ranksBefore. Zero balances are dropped.
func partition(balances models.BalanceSheet) (creditors, debtors []party) {
	for _, id := range balances.Users() {
		amt := balances.Get(id)
		switch {
		case amt.IsPositive():
			creditors = append(creditors, party{ID: id, Amount: amt})
		case amt.IsNegative():
			debtors = append(debtors, party{ID: id, Amount: amt.Neg()})
		}
	}
	sortParties(creditors)
	sortParties(debtors)
	return creditors, debtors
}

func checkBalanced(balances models.BalanceSheet) error {
	if total := balances.Total(); !models.WithinEpsilon(total, decimal.Zero) {
		return fmt.Errorf("%w: total is %s", models.ErrUnbalanced, total)
	}
	return nil
}

func newSettlement(debtor, creditor string, amount decimal.Decimal, currency string) models.Settlement {
	return models.Settlement{
		PayerID:    debtor,
		ReceiverID: creditor,
		Amount:     amount,
		Currency:   currency,
	}
}
