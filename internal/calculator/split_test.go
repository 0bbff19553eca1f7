package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func splitsOf(t models.SplitType, pairs ...string) []models.Split {
	var out []models.Split
	for i := 0; i+1 < len(pairs); i += 2 {
		s := models.Split{UserID: pairs[i], Type: t}
		if pairs[i+1] != "" {
			s.Value = d(pairs[i+1])
		}
		out = append(out, s)
	}
	return out
}

func assertAmounts(t *testing.T, want []string, shares []models.Share) {
	t.Helper()
	require.Len(t, shares, len(want))
	for i, w := range want {
		assert.Truef(t, d(w).Equal(shares[i].Amount), "share %d (%s) = %s, want %s", i, shares[i].UserID, shares[i].Amount, w)
	}
}

func TestCalculateSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		currency string
		splits   []models.Split
		want     []string
		wantErr  bool
	}{
		{
			name:     "equal three-way split",
			amount:   "90.00",
			currency: "USD",
			splits:   splitsOf(models.SplitEqual, "alice", "", "bob", "", "carol", ""),
			want:     []string{"30.00", "30.00", "30.00"},
		},
		{
			name:     "equal split with remainder goes to first smallest",
			amount:   "100.00",
			currency: "USD",
			splits:   splitsOf(models.SplitEqual, "alice", "", "bob", "", "carol", ""),
			want:     []string{"33.34", "33.33", "33.33"},
		},
		{
			name:     "equal split in zero-decimal currency",
			amount:   "1000",
			currency: "JPY",
			splits:   splitsOf(models.SplitEqual, "alice", "", "bob", "", "carol", ""),
			want:     []string{"334", "333", "333"},
		},
		{
			name:     "percentage split",
			amount:   "200.00",
			currency: "EUR",
			splits:   splitsOf(models.SplitPercentage, "alice", "50", "bob", "30", "carol", "20"),
			want:     []string{"100.00", "60.00", "40.00"},
		},
		{
			name:     "percentage split within tolerance",
			amount:   "100.00",
			currency: "USD",
			splits:   splitsOf(models.SplitPercentage, "alice", "33.33", "bob", "33.33", "carol", "33.33"),
			want:     []string{"33.34", "33.33", "33.33"},
		},
		{
			name:     "percentages not summing to 100",
			amount:   "100.00",
			currency: "USD",
			splits:   splitsOf(models.SplitPercentage, "alice", "50", "bob", "49"),
			wantErr:  true,
		},
		{
			name:     "fixed split",
			amount:   "75.50",
			currency: "USD",
			splits:   splitsOf(models.SplitFixed, "alice", "25.50", "bob", "50.00"),
			want:     []string{"25.50", "50.00"},
		},
		{
			name:     "fixed split off by one cent is corrected",
			amount:   "100.00",
			currency: "USD",
			splits:   splitsOf(models.SplitFixed, "alice", "50.00", "bob", "49.99"),
			want:     []string{"50.00", "50.00"},
		},
		{
			name:     "fixed amounts not matching total",
			amount:   "100.00",
			currency: "USD",
			splits:   splitsOf(models.SplitFixed, "alice", "60.00", "bob", "30.00"),
			wantErr:  true,
		},
		{
			name:     "share split",
			amount:   "10.00",
			currency: "USD",
			splits:   splitsOf(models.SplitShare, "alice", "1", "bob", "2"),
			want:     []string{"3.33", "6.67"},
		},
		{
			name:     "share split with remainder",
			amount:   "10.00",
			currency: "USD",
			splits:   splitsOf(models.SplitShare, "alice", "1", "bob", "1", "carol", "1"),
			want:     []string{"3.34", "3.33", "3.33"},
		},
		{
			name:     "zero-weight participant takes the positive remainder",
			amount:   "10.00",
			currency: "USD",
			splits:   splitsOf(models.SplitShare, "alice", "0", "bob", "1", "carol", "1", "dave", "1"),
			want:     []string{"0.01", "3.33", "3.33", "3.33"},
		},
		{
			name:     "zero percent participant takes the positive remainder",
			amount:   "10.00",
			currency: "USD",
			splits:   splitsOf(models.SplitPercentage, "alice", "0", "bob", "33.33", "carol", "33.33", "dave", "33.34"),
			want:     []string{"0.01", "3.33", "3.33", "3.33"},
		},
		{
			name:     "zero total shares",
			amount:   "10.00",
			currency: "USD",
			splits:   splitsOf(models.SplitShare, "alice", "0", "bob", "0"),
			wantErr:  true,
		},
		{
			name:     "mixed split types",
			amount:   "10.00",
			currency: "USD",
			splits: []models.Split{
				{UserID: "alice", Type: models.SplitEqual},
				{UserID: "bob", Type: models.SplitShare, Value: d("1")},
			},
			wantErr: true,
		},
		{
			name:     "duplicate participant",
			amount:   "10.00",
			currency: "USD",
			splits:   splitsOf(models.SplitEqual, "alice", "", "alice", ""),
			wantErr:  true,
		},
		{
			name:     "no participants",
			amount:   "10.00",
			currency: "USD",
			wantErr:  true,
		},
		{
			name:     "amount finer than currency precision",
			amount:   "10.005",
			currency: "USD",
			splits:   splitsOf(models.SplitEqual, "alice", "", "bob", ""),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			shares, err := CalculateSplit(d(tt.amount), tt.currency, tt.splits)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrValidation)
				return
			}
			require.NoError(t, err)
			assertAmounts(t, tt.want, shares)

			total := decimal.Zero
			for _, s := range shares {
				total = total.Add(s.Amount)
			}
			assert.Truef(t, total.Equal(d(tt.amount)), "shares sum to %s, want %s", total, tt.amount)
		})
	}
}

func TestCalculateSplit_ErrorTypes(t *testing.T) {
	t.Parallel()

	_, err := CalculateSplit(d("10"), "USD", []models.Split{
		{UserID: "alice", Type: models.SplitEqual},
		{UserID: "bob", Type: models.SplitFixed, Value: d("5")},
	})
	var splitErr *SplitValidationError
	require.True(t, errors.As(err, &splitErr))
	assert.Contains(t, splitErr.Error(), "mixed split types")

	_, err = CalculateSplit(d("0"), "USD", splitsOf(models.SplitEqual, "alice", ""))
	assert.ErrorIs(t, err, models.ErrNonPositiveAmount)

	_, err = CalculateSplit(d("10"), "usd", splitsOf(models.SplitEqual, "alice", ""))
	assert.ErrorIs(t, err, models.ErrInvalidCurrency)
}

func TestDistributeRemainder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		shares    []string
		remainder string
		precision int32
		want      []string
	}{
		{
			name:      "zero remainder leaves shares unchanged",
			shares:    []string{"1.00", "2.00"},
			remainder: "0",
			precision: 2,
			want:      []string{"1.00", "2.00"},
		},
		{
			name:      "remainder below precision rounds to zero",
			shares:    []string{"1.00", "2.00"},
			remainder: "0.004",
			precision: 2,
			want:      []string{"1.00", "2.00"},
		},
		{
			name:      "positive remainder to smallest shares first",
			shares:    []string{"1.00", "0.50", "2.00"},
			remainder: "0.02",
			precision: 2,
			want:      []string{"1.01", "0.51", "2.00"},
		},
		{
			name:      "negative remainder to largest shares first and cycles",
			shares:    []string{"1.00", "0.50", "2.00"},
			remainder: "-0.04",
			precision: 2,
			want:      []string{"0.99", "0.49", "1.98"},
		},
		{
			name:      "ties keep input order",
			shares:    []string{"5", "5", "5"},
			remainder: "2",
			precision: 0,
			want:      []string{"6", "6", "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := make([]decimal.Decimal, len(tt.shares))
			inTotal := decimal.Zero
			for i, s := range tt.shares {
				in[i] = d(s)
				inTotal = inTotal.Add(in[i])
			}

			got := DistributeRemainder(in, d(tt.remainder), tt.precision)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Truef(t, d(w).Equal(got[i]), "index %d = %s, want %s", i, got[i], w)
			}

			wantTotal := inTotal.Add(d(tt.remainder).Round(tt.precision))
			assert.True(t, sum(got).Equal(wantTotal))
			assert.True(t, d(tt.shares[0]).Equal(in[0]), "input must not be modified")
		})
	}
}
