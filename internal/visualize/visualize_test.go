package visualize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func transfer(from, to, amount string) models.Transfer {
	return models.Transfer{From: from, To: to, Amount: d(amount), Currency: "USD"}
}

func TestBuildNetworkGraph(t *testing.T) {
	t.Parallel()

	g := BuildNetworkGraph([]models.Transfer{
		transfer("carol", "alice", "10"),
		transfer("bob", "alice", "30"),
		transfer("carol", "alice", "20"),
	})

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "alice", g.Nodes[0].ID)
	assert.True(t, d("60").Equal(g.Nodes[0].Balance))
	assert.True(t, d("-30").Equal(g.Nodes[1].Balance))
	assert.True(t, d("-30").Equal(g.Nodes[2].Balance))

	require.Len(t, g.Edges, 2)
	assert.Equal(t, "carol", g.Edges[0].From)
	assert.True(t, d("30").Equal(g.Edges[0].Amount))
	assert.Equal(t, 2, g.Edges[0].Count)
	assert.Equal(t, "bob", g.Edges[1].From)
	assert.Equal(t, 1, g.Edges[1].Count)

	reversed := BuildNetworkGraph([]models.Transfer{transfer("a", "b", "5"), transfer("b", "a", "3")})
	assert.Len(t, reversed.Edges, 2, "opposite directions stay separate")
}

func TestWithFriendships(t *testing.T) {
	t.Parallel()

	g := BuildNetworkGraph([]models.Transfer{transfer("bob", "alice", "5"), transfer("carol", "alice", "5")})
	out := g.WithFriendships([]models.FriendRelation{
		{UserID1: "carol", UserID2: "alice", Strength: d("2")},
		{UserID1: "bob", UserID2: "zed", Strength: d("9")},
		{UserID1: "bob", UserID2: "carol", Strength: d("0")},
	})

	require.Len(t, out.Friendships, 1)
	assert.Equal(t, FriendLink{UserID1: "alice", UserID2: "carol", Strength: d("2")}, out.Friendships[0])
	assert.Empty(t, g.Friendships, "original graph untouched")
}

func TestBuildSankeyDiagram(t *testing.T) {
	t.Parallel()

	s := BuildSankeyDiagram([]models.Transfer{
		transfer("dave", "bob", "7"),
		transfer("carol", "alice", "10"),
		transfer("dave", "bob", "3"),
	})

	require.Len(t, s.Nodes, 4)
	assert.Equal(t, []SankeyNode{{"alice"}, {"bob"}, {"carol"}, {"dave"}}, s.Nodes)
	require.Len(t, s.Links, 2)
	assert.Equal(t, 3, s.Links[0].Source)
	assert.Equal(t, 1, s.Links[0].Target)
	assert.True(t, d("10").Equal(s.Links[0].Value))
	assert.Equal(t, 2, s.Links[1].Source)
	assert.Equal(t, 0, s.Links[1].Target)
}

func TestBuildBundle(t *testing.T) {
	t.Parallel()

	original := models.DebtGraph{
		Users: []string{"alice", "bob", "carol"},
		Debts: []models.DebtEdge{
			{From: "bob", To: "alice", Amount: d("10"), Currency: "USD"},
			{From: "carol", To: "bob", Amount: d("10"), Currency: "USD"},
			{From: "carol", To: "alice", Amount: d("5"), Currency: "USD"},
		},
	}
	settlements := []models.Settlement{
		{PayerID: "carol", ReceiverID: "alice", Amount: d("15"), Currency: "USD"},
	}

	b := BuildBundle(original, settlements, "USD")
	assert.True(t, d("15").Equal(b.Summary.TotalAmount))
	assert.Equal(t, 1, b.Summary.TransactionCount)
	assert.Equal(t, 2, b.Summary.UserCount)
	assert.Equal(t, 67, b.Summary.ReductionRate)
	assert.Len(t, b.Original.Edges, 3)

	again := BuildBundle(original, settlements, "USD")
	assert.Equal(t, b, again)

	noGain := BuildBundle(models.DebtGraph{Debts: original.Debts[:1]}, []models.Settlement{settlements[0], settlements[0]}, "USD")
	assert.Equal(t, 0, noGain.Summary.ReductionRate)
}
