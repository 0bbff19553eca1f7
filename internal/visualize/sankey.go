package visualize

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// SankeyNode is one user in a flow diagram.
type SankeyNode struct {
	ID string
}

// SankeyLink is a directed flow between two nodes, referenced by index into
// SankeyDiagram.Nodes.
type SankeyLink struct {
	Source int
	Target int
	Value  decimal.Decimal
}

// SankeyDiagram is a flow view of a set of transfers.
type SankeyDiagram struct {
	Nodes []SankeyNode
	Links []SankeyLink
}

// BuildSankeyDiagram creates one node per distinct user, ordered by ID, and
// one link per ordered (from, to) pair with the summed amount, using the same
// combination rule as BuildNetworkGraph.
func BuildSankeyDiagram(transfers []models.Transfer) SankeyDiagram {
	seen := make(map[string]bool)
	var ids []string
	for _, t := range transfers {
		for _, id := range []string{t.From, t.To} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)

	index := make(map[string]int, len(ids))
	diagram := SankeyDiagram{Nodes: make([]SankeyNode, len(ids))}
	for i, id := range ids {
		index[id] = i
		diagram.Nodes[i] = SankeyNode{ID: id}
	}

	for _, e := range combine(transfers) {
		diagram.Links = append(diagram.Links, SankeyLink{
			Source: index[e.From],
			Target: index[e.To],
			Value:  e.Amount,
		})
	}
	return diagram
}
