package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/models"
)

func equalExpense(id, payer, amount, currency string, participants ...string) models.Expense {
	splits := make([]models.Split, len(participants))
	for i, p := range participants {
		splits[i] = models.Split{UserID: p, Type: models.SplitEqual}
	}
	return models.Expense{ID: id, PayerID: payer, Amount: d(amount), Currency: currency, Splits: splits}
}

func assertBalance(t *testing.T, sheet models.BalanceSheet, user, want string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(sheet.Get(user)), "%s balance = %s, want %s", user, sheet.Get(user), want)
}

func TestCalculateGroupBalances(t *testing.T) {
	t.Parallel()

	t.Run("single equal expense", func(t *testing.T) {
		t.Parallel()

		ledger, err := CalculateGroupBalances([]models.Expense{
			equalExpense("e1", "alice", "90.00", "USD", "alice", "bob", "carol"),
		}, nil)
		require.NoError(t, err)

		sheet := ledger.Balances["USD"]
		assertBalance(t, sheet, "alice", "60")
		assertBalance(t, sheet, "bob", "-30")
		assertBalance(t, sheet, "carol", "-30")
		assert.True(t, sheet.Total().IsZero())

		assert.Equal(t, []string{"alice", "bob", "carol"}, ledger.Graph.Users)
		require.Len(t, ledger.Graph.Debts, 2)
		assert.Equal(t, "bob", ledger.Graph.Debts[0].From)
		assert.Equal(t, "alice", ledger.Graph.Debts[0].To)
		assert.True(t, d("30").Equal(ledger.Graph.Debts[0].Amount))
	})

	t.Run("payer not participating is credited the full amount", func(t *testing.T) {
		t.Parallel()

		ledger, err := CalculateGroupBalances([]models.Expense{
			equalExpense("e1", "alice", "50.00", "USD", "bob", "carol"),
		}, nil)
		require.NoError(t, err)

		sheet := ledger.Balances["USD"]
		assertBalance(t, sheet, "alice", "50")
		assertBalance(t, sheet, "bob", "-25")
		assertBalance(t, sheet, "carol", "-25")
	})

	t.Run("completed settlement moves balances toward zero", func(t *testing.T) {
		t.Parallel()

		ledger, err := CalculateGroupBalances(
			[]models.Expense{equalExpense("e1", "alice", "90.00", "USD", "alice", "bob", "carol")},
			[]models.Settlement{{ID: "s1", PayerID: "bob", ReceiverID: "alice", Amount: d("30"), Currency: "USD"}},
		)
		require.NoError(t, err)

		sheet := ledger.Balances["USD"]
		assertBalance(t, sheet, "alice", "30")
		assertBalance(t, sheet, "bob", "0")
		assertBalance(t, sheet, "carol", "-30")

		require.Len(t, ledger.Graph.Debts, 3)
		last := ledger.Graph.Debts[2]
		assert.Equal(t, "alice", last.From)
		assert.Equal(t, "bob", last.To)
	})

	t.Run("separate sheet per currency", func(t *testing.T) {
		t.Parallel()

		ledger, err := CalculateGroupBalances([]models.Expense{
			equalExpense("e1", "alice", "20.00", "USD", "alice", "bob"),
			equalExpense("e2", "bob", "3000", "JPY", "alice", "bob"),
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"USD", "JPY"}, ledger.Currencies())
		assertBalance(t, ledger.Balances["USD"], "alice", "10")
		assertBalance(t, ledger.Balances["JPY"], "alice", "-1500")
		for _, sheet := range ledger.Balances {
			assert.True(t, sheet.Total().IsZero())
		}
	})

	t.Run("rounding never breaks conservation", func(t *testing.T) {
		t.Parallel()

		var expenses []models.Expense
		for _, amt := range []string{"10.00", "0.01", "33.33", "100.00", "7.77"} {
			expenses = append(expenses, equalExpense("", "alice", amt, "USD", "alice", "bob", "carol"))
			expenses = append(expenses, equalExpense("", "carol", amt, "USD", "bob", "carol", "dave"))
		}
		ledger, err := CalculateGroupBalances(expenses, nil)
		require.NoError(t, err)
		assert.True(t, ledger.Balances["USD"].Total().Equal(decimal.Zero))
	})

	t.Run("invalid input is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := CalculateGroupBalances([]models.Expense{equalExpense("e1", "", "10", "USD", "bob")}, nil)
		assert.ErrorIs(t, err, models.ErrMissingPayer)

		_, err = CalculateGroupBalances(nil, []models.Settlement{
			{PayerID: "bob", ReceiverID: "bob", Amount: d("5"), Currency: "USD"},
		})
		assert.ErrorIs(t, err, models.ErrSelfSettlement)

		_, err = CalculateGroupBalances(nil, []models.Settlement{
			{PayerID: "bob", ReceiverID: "alice", Amount: d("-5"), Currency: "USD"},
		})
		assert.ErrorIs(t, err, models.ErrNonPositiveAmount)
	})
}
