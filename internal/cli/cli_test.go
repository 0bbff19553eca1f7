package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/pkg/api"
)

const tripScenario = `
currency = "USD"

[[expenses]]
payer = "alice"
amount = "90.00"
currency = "USD"
description = "Dinner"
splits = [
  { user = "alice", type = "equal" },
  { user = "bob", type = "equal" },
  { user = "carol", type = "equal" },
]

[[friendships]]
users = ["bob", "carol"]
strength = 2
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompute(t *testing.T) {
	path := writeScenario(t, tripScenario)

	out, err := run(t, "compute", path, "--algorithm", "greedy", "--explain", "--friendships")
	require.NoError(t, err)

	var resp api.SettlementsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "greedy", resp.Algorithm)
	require.Len(t, resp.Settlements, 2)
	for i, payer := range []string{"bob", "carol"} {
		assert.Equal(t, payer, resp.Settlements[i].PayerID)
		assert.Equal(t, "alice", resp.Settlements[i].ReceiverID)
		assert.True(t, decimal.NewFromInt(30).Equal(resp.Settlements[i].Amount))
	}
	require.NotNil(t, resp.Visualization)
	assert.Len(t, resp.Visualization.NetworkGraph.Friendships, 1)
	require.NotNil(t, resp.Explanation)
	require.NotNil(t, resp.Breakdown)
}

func TestCompute_DebtGraph(t *testing.T) {
	path := writeScenario(t, `
[[debts]]
from = "bob"
to = "alice"
amount = 20
currency = "USD"

[[debts]]
from = "carol"
to = "bob"
amount = 20
currency = "USD"
`)

	out, err := run(t, "compute", path, "--compact")
	require.NoError(t, err)

	var resp api.SettlementsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "minCashFlow", resp.Algorithm)
	require.Len(t, resp.Settlements, 1)
	assert.Equal(t, "carol", resp.Settlements[0].PayerID)
	assert.Equal(t, "alice", resp.Settlements[0].ReceiverID)
	assert.True(t, decimal.NewFromInt(20).Equal(resp.Settlements[0].Amount))
	assert.Nil(t, resp.Explanation)
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown key",
			content: "algorith = \"greedy\"\n",
			wantErr: "unknown keys",
		},
		{
			name:    "malformed friendship",
			content: "[[friendships]]\nusers = [\"alice\"]\n",
			wantErr: "want exactly 2 users",
		},
		{
			name:    "unknown algorithm",
			content: tripScenario,
			args:    []string{"--algorithm", "fastest"},
			wantErr: "fastest",
		},
		{
			name: "missing exchange rate",
			content: `
currency = "USD"

[[debts]]
from = "bob"
to = "alice"
amount = "10"
currency = "EUR"
`,
			wantErr: "EUR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, tt.content)
			_, err := run(t, append([]string{"compute", path}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "compute", filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})
}

func TestAlgorithms(t *testing.T) {
	out, err := run(t, "algorithms")
	require.NoError(t, err)

	assert.Contains(t, out, "minCashFlow")
	assert.Contains(t, out, "Minimum Cash Flow (default)")
	assert.Contains(t, out, "greedy")
	assert.Contains(t, out, "friendPreference")
}
