// Package visualize derives network and flow diagrams from debts and
// settlements. Every function is pure: the same input always yields the
// same output.
package visualize

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Node is one user in a network graph.
type Node struct {
	ID string

	// Balance is the amount received minus the amount paid across the
	// transfers the graph was built from.
	Balance decimal.Decimal
}

// Edge is the combined flow between an ordered pair of users.
type Edge struct {
	From     string
	To       string
	Amount   decimal.Decimal
	Currency string

	// Count is the number of transfers combined into this edge.
	Count int
}

// FriendLink is an undirected friendship between two nodes.
type FriendLink struct {
	UserID1  string
	UserID2  string
	Strength decimal.Decimal
}

// NetworkGraph is a node/edge view of a set of transfers.
type NetworkGraph struct {
	Nodes       []Node
	Edges       []Edge
	Friendships []FriendLink
}

// BuildNetworkGraph creates one node per user, ordered by ID, and one edge
// per ordered (from, to) pair, ordered by first appearance. Transfers
// between the same pair are summed into a single edge.
func BuildNetworkGraph(transfers []models.Transfer) NetworkGraph {
	net := models.NetAmounts(transfers)
	ids := make([]string, 0, len(net))
	for id := range net {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	g := NetworkGraph{Nodes: make([]Node, len(ids))}
	for i, id := range ids {
		g.Nodes[i] = Node{ID: id, Balance: net[id]}
	}
	g.Edges = combine(transfers)
	return g
}

// WithFriendships returns a copy of g that also lists the positive-strength
// friendships between users present in the graph, ordered by user pair.
func (g NetworkGraph) WithFriendships(relations []models.FriendRelation) NetworkGraph {
	present := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		present[n.ID] = true
	}

	index := models.IndexFriendships(relations)
	keys := make([][2]string, 0, len(index))
	for key, strength := range index {
		if strength.IsPositive() && present[key[0]] && present[key[1]] {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	out := g
	out.Friendships = make([]FriendLink, len(keys))
	for i, key := range keys {
		out.Friendships[i] = FriendLink{UserID1: key[0], UserID2: key[1], Strength: index[key]}
	}
	return out
}

// combine sums transfers per ordered pair, keeping first-appearance order.
func combine(transfers []models.Transfer) []Edge {
	type pair struct{ from, to string }
	pos := make(map[pair]int)
	var edges []Edge
	for _, t := range transfers {
		key := pair{t.From, t.To}
		if i, ok := pos[key]; ok {
			edges[i].Amount = edges[i].Amount.Add(t.Amount)
			edges[i].Count++
			continue
		}
		pos[key] = len(edges)
		edges = append(edges, Edge{From: t.From, To: t.To, Amount: t.Amount, Currency: t.Currency, Count: 1})
	}
	return edges
}
