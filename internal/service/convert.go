package service

import (
	"fmt"

	"github.com/mmynk/settleup/internal/engine"
	"github.com/mmynk/settleup/internal/explain"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/visualize"
	"github.com/mmynk/settleup/pkg/api"
)

// Wire → model.

func expenseFromAPI(e *api.Expense) (models.Expense, error) {
	if e == nil {
		return models.Expense{}, fmt.Errorf("%w: expense required", models.ErrValidation)
	}
	out := models.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		Splits:      make([]models.Split, len(e.Splits)),
	}
	for i, s := range e.Splits {
		t, err := models.ParseSplitType(s.SplitType)
		if err != nil {
			return models.Expense{}, fmt.Errorf("split %d: %w", i, err)
		}
		out.Splits[i] = models.Split{UserID: s.UserID, Type: t, Value: s.Value}
	}
	return out, nil
}

func expensesFromAPI(in []api.Expense) ([]models.Expense, error) {
	out := make([]models.Expense, len(in))
	for i := range in {
		e, err := expenseFromAPI(&in[i])
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

func settlementFromAPI(s api.Settlement) models.Settlement {
	return models.Settlement{
		ID:               s.ID,
		GroupID:          s.GroupID,
		PayerID:          s.PayerID,
		ReceiverID:       s.ReceiverID,
		Amount:           s.Amount,
		Currency:         s.Currency,
		OriginalAmount:   s.OriginalAmount,
		OriginalCurrency: s.OriginalCurrency,
		ExchangeRate:     s.ExchangeRate,
		Note:             s.Note,
		CreatedAt:        s.CreatedAt,
	}
}

func settlementsFromAPI(in []api.Settlement) []models.Settlement {
	out := make([]models.Settlement, len(in))
	for i, s := range in {
		out[i] = settlementFromAPI(s)
	}
	return out
}

func debtGraphFromAPI(g *api.DebtGraph) *models.DebtGraph {
	if g == nil {
		return nil
	}
	out := &models.DebtGraph{
		Users: append([]string(nil), g.Users...),
		Debts: make([]models.DebtEdge, len(g.Debts)),
	}
	for i, d := range g.Debts {
		out.Debts[i] = models.DebtEdge{From: d.From, To: d.To, Amount: d.Amount, Currency: d.Currency}
	}
	return out
}

func relationsFromAPI(in []api.FriendRelation) []models.FriendRelation {
	out := make([]models.FriendRelation, len(in))
	for i, r := range in {
		out[i] = models.FriendRelation{UserID1: r.UserID1, UserID2: r.UserID2, Strength: r.Strength}
	}
	return out
}

// Model → wire.

func groupToAPI(g *models.Group) *api.Group {
	return &api.Group{
		ID:              g.ID,
		Name:            g.Name,
		Members:         g.Members,
		DefaultCurrency: g.DefaultCurrency,
		CreatedAt:       g.CreatedAt,
	}
}

func expenseToAPI(e models.Expense) api.Expense {
	out := api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		Splits:      make([]api.Split, len(e.Splits)),
	}
	for i, s := range e.Splits {
		out.Splits[i] = api.Split{UserID: s.UserID, SplitType: string(s.Type), Value: s.Value}
	}
	return out
}

func sharesToAPI(in []models.Share) []api.Share {
	out := make([]api.Share, len(in))
	for i, s := range in {
		out[i] = api.Share{UserID: s.UserID, Amount: s.Amount}
	}
	return out
}

func settlementToAPI(s models.Settlement) api.Settlement {
	return api.Settlement{
		ID:               s.ID,
		GroupID:          s.GroupID,
		PayerID:          s.PayerID,
		ReceiverID:       s.ReceiverID,
		Amount:           s.Amount,
		Currency:         s.Currency,
		OriginalAmount:   s.OriginalAmount,
		OriginalCurrency: s.OriginalCurrency,
		ExchangeRate:     s.ExchangeRate,
		Note:             s.Note,
		CreatedAt:        s.CreatedAt,
	}
}

func settlementsToAPI(in []models.Settlement) []api.Settlement {
	out := make([]api.Settlement, len(in))
	for i, s := range in {
		out[i] = settlementToAPI(s)
	}
	return out
}

func debtsToAPI(in []models.DebtEdge) []api.DebtEdge {
	out := make([]api.DebtEdge, len(in))
	for i, d := range in {
		out[i] = api.DebtEdge{
			From:             d.From,
			To:               d.To,
			Amount:           d.Amount,
			Currency:         d.Currency,
			OriginalAmount:   d.OriginalAmount,
			OriginalCurrency: d.OriginalCurrency,
		}
	}
	return out
}

func balancesToAPI(in []models.UserBalance) []api.UserBalance {
	out := make([]api.UserBalance, len(in))
	for i, b := range in {
		out[i] = api.UserBalance{UserID: b.UserID, Currency: b.Currency, Amount: b.Amount}
	}
	return out
}

func relationsToAPI(in []models.FriendRelation) []api.FriendRelation {
	out := make([]api.FriendRelation, len(in))
	for i, r := range in {
		out[i] = api.FriendRelation{UserID1: r.UserID1, UserID2: r.UserID2, Strength: r.Strength}
	}
	return out
}

func networkToAPI(g visualize.NetworkGraph) api.NetworkGraph {
	out := api.NetworkGraph{
		Nodes: make([]api.NetworkNode, len(g.Nodes)),
		Edges: make([]api.NetworkEdge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = api.NetworkNode{ID: n.ID, Balance: n.Balance}
	}
	for i, e := range g.Edges {
		out.Edges[i] = api.NetworkEdge{From: e.From, To: e.To, Amount: e.Amount, Currency: e.Currency, Count: e.Count}
	}
	for _, f := range g.Friendships {
		out.Friendships = append(out.Friendships, api.FriendLink{UserID1: f.UserID1, UserID2: f.UserID2, Strength: f.Strength})
	}
	return out
}

func visualizationToAPI(b *visualize.Bundle) *api.Visualization {
	if b == nil {
		return nil
	}
	sankey := api.SankeyDiagram{
		Nodes: make([]api.SankeyNode, len(b.SankeyDiagram.Nodes)),
		Links: make([]api.SankeyLink, len(b.SankeyDiagram.Links)),
	}
	for i, n := range b.SankeyDiagram.Nodes {
		sankey.Nodes[i] = api.SankeyNode{ID: n.ID}
	}
	for i, l := range b.SankeyDiagram.Links {
		sankey.Links[i] = api.SankeyLink{Source: l.Source, Target: l.Target, Value: l.Value}
	}
	return &api.Visualization{
		Original:      networkToAPI(b.Original),
		NetworkGraph:  networkToAPI(b.NetworkGraph),
		SankeyDiagram: sankey,
		Summary: api.Summary{
			TotalAmount:      b.Summary.TotalAmount,
			Currency:         b.Summary.Currency,
			TransactionCount: b.Summary.TransactionCount,
			UserCount:        b.Summary.UserCount,
			ReductionRate:    b.Summary.ReductionRate,
		},
	}
}

func breakdownToAPI(b *explain.Breakdown) *api.Breakdown {
	if b == nil {
		return nil
	}
	steps := make([]api.Step, len(b.CalculationSteps))
	for i, s := range b.CalculationSteps {
		steps[i] = api.Step{Number: s.Number, Title: s.Title, Description: s.Description, Details: s.Details}
	}
	return &api.Breakdown{
		InputDebts:       debtsToAPI(b.InputDebts),
		UserBalances:     balancesToAPI(b.UserBalances),
		CalculationSteps: steps,
		FinalSettlements: settlementsToAPI(b.FinalSettlements),
		Stats: api.Stats{
			OriginalTransactionCount:  b.Stats.OriginalTransactionCount,
			OptimizedTransactionCount: b.Stats.OptimizedTransactionCount,
			ReductionPercentage:       b.Stats.ReductionPercentage,
		},
	}
}

func explanationToAPI(e *explain.Explanation) *api.Explanation {
	if e == nil {
		return nil
	}
	return &api.Explanation{
		Summary:               e.Summary,
		AlgorithmExplanation:  e.AlgorithmExplanation,
		StepByStepExplanation: e.StepByStepExplanation,
		TransactionSummary:    e.TransactionSummary,
	}
}

func responseToAPI(r *engine.Response) *api.SettlementsResponse {
	return &api.SettlementsResponse{
		Settlements:   settlementsToAPI(r.Settlements),
		Currency:      r.Currency,
		Algorithm:     r.Algorithm.String(),
		Balances:      balancesToAPI(r.Balances),
		Visualization: visualizationToAPI(r.Visualization),
		Breakdown:     breakdownToAPI(r.Breakdown),
		Explanation:   explanationToAPI(r.Explanation),
	}
}
