// Package engine runs a complete settlement computation: it folds expenses
// into debts, normalizes currencies, applies a settlement strategy and
// derives the visualization and explanation views.
//
// The engine performs no I/O and keeps no state between calls, so a single
// Engine can serve any number of concurrent computations.
package engine

import (
	"fmt"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/explain"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/settle"
	"github.com/mmynk/settleup/internal/visualize"
)

// DefaultCurrency is used when neither the request nor the options name a
// settlement currency and the input has no debts to infer one from.
const DefaultCurrency = "USD"

// Request is the input of one computation. Supply either Graph or
// Expenses/Settlements.
type Request struct {
	// Graph is a precomputed set of debts.
	Graph *models.DebtGraph

	// Expenses and Settlements are folded into a debt graph when Graph is nil.
	// Settlements are completed payments.
	Expenses    []models.Expense
	Settlements []models.Settlement

	// ExchangeRates maps "FROM_TO" to a conversion rate.
	ExchangeRates currency.Rates

	// Currency is the settlement currency. When empty, the engine default is
	// used, or the majority currency of the debts if there is no default.
	Currency string

	FriendRelations []models.FriendRelation
	Algorithm       settle.Algorithm

	// IncludeFriendships adds friendship links to the network graphs.
	IncludeFriendships bool

	// IncludeExplanation adds the breakdown and explanation to the response.
	IncludeExplanation bool
}

// Response is the output of one computation.
type Response struct {
	Settlements []models.Settlement
	Currency    string
	Algorithm   settle.Algorithm

	// Balances are the net balances in Currency, ordered by user ID.
	Balances []models.UserBalance

	// Debts is the normalized raw debt graph the settlements replace.
	Debts models.DebtGraph

	Visualization *visualize.Bundle
	Breakdown     *explain.Breakdown
	Explanation   *explain.Explanation
}

// Options configures an Engine.
type Options struct {
	// DefaultCurrency is the settlement currency for requests that do not
	// name one. Empty means "majority currency of the input".
	DefaultCurrency string
}

// Engine computes settlements. The zero value is ready to use.
type Engine struct {
	opts Options
}

// New creates an Engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Compute runs the full pipeline for req. Validation problems are returned
// as errors matching models.ErrValidation; a strategy defect is returned as
// an error matching settle.ErrInvariantViolation.
func (e *Engine) Compute(req Request) (*Response, error) {
	graph, err := e.debtGraph(req)
	if err != nil {
		return nil, err
	}

	preferred := req.Currency
	if preferred == "" {
		preferred = e.opts.DefaultCurrency
	}
	target := currency.TargetCurrency(graph, preferred, DefaultCurrency)

	norm, err := currency.Normalize(graph, req.ExchangeRates, target)
	if err != nil {
		return nil, err
	}

	sheet := norm.BalanceSheet()
	settlements, err := settle.Run(req.Algorithm, sheet, req.FriendRelations)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Algorithm, err)
	}
	settlements = norm.Annotate(settlements)

	bundle := visualize.BuildBundle(norm.Graph, settlements, target)
	if req.IncludeFriendships {
		bundle.Original = bundle.Original.WithFriendships(req.FriendRelations)
		bundle.NetworkGraph = bundle.NetworkGraph.WithFriendships(req.FriendRelations)
	}

	resp := &Response{
		Settlements:   settlements,
		Currency:      target,
		Algorithm:     req.Algorithm,
		Balances:      sheet.List(),
		Debts:         norm.Graph,
		Visualization: &bundle,
	}

	if req.IncludeExplanation {
		breakdown := explain.BuildBreakdown(norm.Graph.Debts, settlements)
		explanation := explain.Explain(req.Algorithm, breakdown)
		resp.Breakdown = &breakdown
		resp.Explanation = &explanation
	}

	return resp, nil
}

func (e *Engine) debtGraph(req Request) (models.DebtGraph, error) {
	if req.Graph != nil {
		if len(req.Expenses) > 0 || len(req.Settlements) > 0 {
			return models.DebtGraph{}, fmt.Errorf("%w: supply either a debt graph or expenses, not both", models.ErrValidation)
		}
		graph := models.DebtGraph{
			Users: append([]string(nil), req.Graph.Users...),
			Debts: append([]models.DebtEdge(nil), req.Graph.Debts...),
		}
		if err := graph.Validate(); err != nil {
			return models.DebtGraph{}, err
		}
		return graph, nil
	}

	ledger, err := calculator.CalculateGroupBalances(req.Expenses, req.Settlements)
	if err != nil {
		return models.DebtGraph{}, err
	}
	return ledger.Graph, nil
}
