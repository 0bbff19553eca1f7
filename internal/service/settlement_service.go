package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/engine"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/settle"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// SettlementService implements the Connect SettlementService on top of the
// settlement engine.
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	store     storage.Store
	engine    *engine.Engine
	algorithm settle.Algorithm
}

// NewSettlementService creates a SettlementService. algorithm is used for
// requests that do not name one.
func NewSettlementService(store storage.Store, eng *engine.Engine, algorithm settle.Algorithm) *SettlementService {
	return &SettlementService{store: store, engine: eng, algorithm: algorithm}
}

// ComputeSettlements runs the engine on a self-contained request. Nothing is
// read from or written to storage.
func (s *SettlementService) ComputeSettlements(ctx context.Context, req *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error) {
	msg := req.Msg
	slog.Info("ComputeSettlements request received",
		"algorithm", msg.Algorithm,
		"expenses_count", len(msg.Expenses),
		"settlements_count", len(msg.Settlements),
		"has_debt_graph", msg.DebtGraph != nil,
	)

	alg, err := s.parseAlgorithm(msg.Algorithm)
	if err != nil {
		return nil, toConnectError(err)
	}
	rates, err := currency.ParseRates(msg.ExchangeRates)
	if err != nil {
		return nil, toConnectError(err)
	}
	if len(rates) > 0 {
		slog.Debug("Exchange rates supplied", "pairs", rates.Keys())
	}
	expenses, err := expensesFromAPI(msg.Expenses)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp, err := s.compute(engine.Request{
		Graph:              debtGraphFromAPI(msg.DebtGraph),
		Expenses:           expenses,
		Settlements:        settlementsFromAPI(msg.Settlements),
		ExchangeRates:      rates,
		Currency:           msg.Currency,
		FriendRelations:    relationsFromAPI(msg.FriendRelations),
		Algorithm:          alg,
		IncludeFriendships: msg.IncludeFriendships,
		IncludeExplanation: msg.IncludeExplanation,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(responseToAPI(resp)), nil
}

// SuggestSettlements loads a group's expenses, completed settlements and
// friendships and runs the engine on them. The group's default currency is
// used unless the request names one.
func (s *SettlementService) SuggestSettlements(ctx context.Context, req *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error) {
	msg := req.Msg
	slog.Info("SuggestSettlements request received", "group_id", msg.GroupID, "algorithm", msg.Algorithm)

	alg, err := s.parseAlgorithm(msg.Algorithm)
	if err != nil {
		return nil, toConnectError(err)
	}
	rates, err := currency.ParseRates(msg.ExchangeRates)
	if err != nil {
		return nil, toConnectError(err)
	}

	group, err := loadGroup(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, err
	}
	expenses, settlements, err := s.loadLedgerInput(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	relations, err := s.store.ListFriendships(ctx, group.ID)
	if err != nil {
		slog.Error("SuggestSettlements failed - could not list friendships", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	target := msg.Currency
	if target == "" {
		target = group.DefaultCurrency
	}

	resp, err := s.compute(engine.Request{
		Expenses:           expenses,
		Settlements:        settlements,
		ExchangeRates:      rates,
		Currency:           target,
		FriendRelations:    relations,
		Algorithm:          alg,
		IncludeFriendships: msg.IncludeFriendships,
		IncludeExplanation: msg.IncludeExplanation,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("SuggestSettlements successful",
		"group_id", group.ID,
		"currency", resp.Currency,
		"settlements_count", len(resp.Settlements),
	)

	return connect.NewResponse(responseToAPI(resp)), nil
}

// GetGroupBalances returns a group's net balances per currency, without
// conversion, and the raw debts behind them. Members with no activity are
// listed with a zero balance in every currency the group uses.
func (s *SettlementService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	group, err := loadGroup(ctx, s.store, groupID)
	if err != nil {
		return nil, err
	}
	expenses, settlements, err := s.loadLedgerInput(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	ledger, err := calculator.CalculateGroupBalances(expenses, settlements)
	if err != nil {
		slog.Error("GetGroupBalances failed - calculation error", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.GetGroupBalancesResponse{
		DebtGraph: api.DebtGraph{
			Users: ledger.Graph.Users,
			Debts: debtsToAPI(ledger.Graph.Debts),
		},
	}
	for _, cur := range ledger.Currencies() {
		sheet := ledger.Balances[cur].Clone()
		for _, m := range group.Members {
			if _, ok := sheet.Amounts[m]; !ok {
				sheet.Amounts[m] = decimal.Zero
			}
		}
		resp.Balances = append(resp.Balances, balancesToAPI(sheet.List())...)
	}

	slog.Info("GetGroupBalances successful",
		"group_id", group.ID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
		"debts_count", len(ledger.Graph.Debts),
	)

	return connect.NewResponse(resp), nil
}

func (s *SettlementService) parseAlgorithm(name string) (settle.Algorithm, error) {
	if name == "" {
		return s.algorithm, nil
	}
	return settle.ParseAlgorithm(name)
}

func (s *SettlementService) loadLedgerInput(ctx context.Context, groupID string) ([]models.Expense, []models.Settlement, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("Could not list expenses", "group_id", groupID, "error", err)
		return nil, nil, toConnectError(err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("Could not list settlements", "group_id", groupID, "error", err)
		return nil, nil, toConnectError(err)
	}
	return expenses, settlements, nil
}

// compute runs the engine and records the outcome.
func (s *SettlementService) compute(req engine.Request) (*engine.Response, error) {
	label := req.Algorithm.String()

	resp, err := s.engine.Compute(req)
	switch {
	case err == nil:
	case errors.Is(err, settle.ErrInvariantViolation):
		metrics.Computations.WithLabelValues(label, "error").Inc()
		metrics.InvariantViolations.WithLabelValues(label).Inc()
		slog.Error("Settlement invariant violated", "algorithm", label, "error", err)
		return nil, err
	case errors.Is(err, models.ErrValidation):
		metrics.Computations.WithLabelValues(label, "invalid").Inc()
		slog.Warn("Settlement computation rejected", "algorithm", label, "error", err)
		return nil, err
	default:
		metrics.Computations.WithLabelValues(label, "error").Inc()
		return nil, fmt.Errorf("compute settlements: %w", err)
	}

	metrics.Computations.WithLabelValues(label, "ok").Inc()
	metrics.SettlementCount.WithLabelValues(label).Observe(float64(len(resp.Settlements)))
	if resp.Visualization != nil {
		metrics.Reduction.WithLabelValues(label).Observe(float64(resp.Visualization.Summary.ReductionRate))
	}
	return resp, nil
}
