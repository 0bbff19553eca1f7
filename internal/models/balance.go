package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// UserBalance is one user's net position in a single currency.
type UserBalance struct {
	UserID   string
	Currency string

	// Amount is positive when the user is owed money, negative when they owe.
	Amount decimal.Decimal
}

// BalanceSheet holds the net balance of every user of a group in one currency.
type BalanceSheet struct {
	Currency string
	Amounts  map[string]decimal.Decimal
}

// NewBalanceSheet creates an empty sheet in the given currency.
func NewBalanceSheet(currency string) BalanceSheet {
	return BalanceSheet{Currency: currency, Amounts: make(map[string]decimal.Decimal)}
}

// Add adjusts a user's balance by delta.
func (b BalanceSheet) Add(userID string, delta decimal.Decimal) {
	b.Amounts[userID] = b.Amounts[userID].Add(delta)
}

// Get returns a user's balance, zero if unknown.
func (b BalanceSheet) Get(userID string) decimal.Decimal {
	return b.Amounts[userID]
}

// Total returns the sum of all balances. For a closed group it is zero.
func (b BalanceSheet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amt := range b.Amounts {
		total = total.Add(amt)
	}
	return total
}

// Users returns the user IDs in ascending order.
func (b BalanceSheet) Users() []string {
	ids := make([]string, 0, len(b.Amounts))
	for id := range b.Amounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NonZero returns the number of users whose balance is not zero.
func (b BalanceSheet) NonZero() int {
	n := 0
	for _, amt := range b.Amounts {
		if !amt.IsZero() {
			n++
		}
	}
	return n
}

// List returns the balances as UserBalance values ordered by user ID.
func (b BalanceSheet) List() []UserBalance {
	out := make([]UserBalance, 0, len(b.Amounts))
	for _, id := range b.Users() {
		out = append(out, UserBalance{UserID: id, Currency: b.Currency, Amount: b.Amounts[id]})
	}
	return out
}

// Clone returns a deep copy of the sheet.
func (b BalanceSheet) Clone() BalanceSheet {
	c := NewBalanceSheet(b.Currency)
	for id, amt := range b.Amounts {
		c.Amounts[id] = amt
	}
	return c
}
