package service

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/settle"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

func TestComputeSettlements_EqualSplit(t *testing.T) {
	_, client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.ComputeSettlements(context.Background(), connect.NewRequest(&api.ComputeSettlementsRequest{
		Expenses: []api.Expense{{
			PayerID:  "alice",
			Amount:   amount("90.00"),
			Currency: "USD",
			Splits:   equalSplits("alice", "bob", "carol"),
		}},
		Algorithm: "greedy",
	}))
	if err != nil {
		t.Fatalf("ComputeSettlements failed: %v", err)
	}

	msg := resp.Msg
	if msg.Algorithm != "greedy" {
		t.Errorf("algorithm: expected greedy, got %s", msg.Algorithm)
	}
	if msg.Currency != "USD" {
		t.Errorf("currency: expected USD, got %s", msg.Currency)
	}
	if len(msg.Settlements) != 2 {
		t.Fatalf("settlements: expected 2, got %d", len(msg.Settlements))
	}
	for i, payer := range []string{"bob", "carol"} {
		s := msg.Settlements[i]
		if s.PayerID != payer || s.ReceiverID != "alice" || !s.Amount.Equal(amount("30")) {
			t.Errorf("settlement %d: expected %s pays 30 to alice, got %+v", i, payer, s)
		}
	}
	if msg.Visualization == nil {
		t.Fatal("expected visualization")
	}
	if len(msg.Visualization.NetworkGraph.Nodes) != 3 {
		t.Errorf("network nodes: expected 3, got %d", len(msg.Visualization.NetworkGraph.Nodes))
	}
	if msg.Explanation != nil || msg.Breakdown != nil {
		t.Error("explanation not requested but returned")
	}
}

func TestComputeSettlements_DebtGraphWithExplanation(t *testing.T) {
	_, client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.ComputeSettlements(context.Background(), connect.NewRequest(&api.ComputeSettlementsRequest{
		DebtGraph: &api.DebtGraph{Debts: []api.DebtEdge{
			{From: "bob", To: "alice", Amount: amount("20"), Currency: "USD"},
			{From: "carol", To: "alice", Amount: amount("10"), Currency: "USD"},
			{From: "carol", To: "bob", Amount: amount("10"), Currency: "USD"},
		}},
		IncludeExplanation: true,
	}))
	if err != nil {
		t.Fatalf("ComputeSettlements failed: %v", err)
	}

	msg := resp.Msg
	if msg.Algorithm != "minCashFlow" {
		t.Errorf("algorithm: expected default minCashFlow, got %s", msg.Algorithm)
	}
	if len(msg.Settlements) != 2 {
		t.Fatalf("settlements: expected 2, got %d", len(msg.Settlements))
	}
	if msg.Breakdown == nil || msg.Breakdown.Stats.ReductionPercentage != 33 {
		t.Errorf("expected reductionPercentage 33, got %+v", msg.Breakdown)
	}
	if msg.Explanation == nil || len(msg.Explanation.TransactionSummary) != 2 {
		t.Errorf("expected 2 transaction summaries, got %+v", msg.Explanation)
	}
	if msg.Visualization.Summary.ReductionRate != 33 {
		t.Errorf("reductionRate: expected 33, got %d", msg.Visualization.Summary.ReductionRate)
	}
}

func TestComputeSettlements_MultiCurrency(t *testing.T) {
	_, client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.ComputeSettlements(context.Background(), connect.NewRequest(&api.ComputeSettlementsRequest{
		DebtGraph: &api.DebtGraph{Debts: []api.DebtEdge{
			{From: "bob", To: "alice", Amount: amount("20.00"), Currency: "EUR"},
		}},
		ExchangeRates: map[string]string{"EUR_USD": "1.10"},
		Currency:      "USD",
	}))
	if err != nil {
		t.Fatalf("ComputeSettlements failed: %v", err)
	}

	if len(resp.Msg.Settlements) != 1 {
		t.Fatalf("settlements: expected 1, got %d", len(resp.Msg.Settlements))
	}
	s := resp.Msg.Settlements[0]
	if !s.Amount.Equal(amount("22")) || s.Currency != "USD" {
		t.Errorf("expected 22.00 USD, got %s %s", s.Amount, s.Currency)
	}
	if s.OriginalAmount == nil || !s.OriginalAmount.Equal(amount("20")) || s.OriginalCurrency != "EUR" {
		t.Errorf("expected original 20.00 EUR, got %v %s", s.OriginalAmount, s.OriginalCurrency)
	}
}

func TestComputeSettlements_Invalid(t *testing.T) {
	_, client, cleanup := setupTestServer(t)
	defer cleanup()

	graph := &api.DebtGraph{Debts: []api.DebtEdge{{From: "bob", To: "alice", Amount: amount("20"), Currency: "EUR"}}}

	tests := []struct {
		name string
		req  *api.ComputeSettlementsRequest
	}{
		{"unknown algorithm", &api.ComputeSettlementsRequest{DebtGraph: graph, Algorithm: "random"}},
		{"missing rate", &api.ComputeSettlementsRequest{DebtGraph: graph, Currency: "USD"}},
		{"bad rate key", &api.ComputeSettlementsRequest{DebtGraph: graph, ExchangeRates: map[string]string{"EURUSD": "1.1"}}},
		{"bad rate value", &api.ComputeSettlementsRequest{DebtGraph: graph, ExchangeRates: map[string]string{"EUR_USD": "abc"}}},
		{"self debt", &api.ComputeSettlementsRequest{DebtGraph: &api.DebtGraph{Debts: []api.DebtEdge{
			{From: "bob", To: "bob", Amount: amount("5"), Currency: "USD"},
		}}}},
		{"sub-cent debt", &api.ComputeSettlementsRequest{DebtGraph: &api.DebtGraph{Debts: []api.DebtEdge{
			{From: "bob", To: "alice", Amount: amount("10.005"), Currency: "USD"},
		}}}},
		{"graph and expenses", &api.ComputeSettlementsRequest{DebtGraph: graph, Expenses: []api.Expense{
			{PayerID: "alice", Amount: amount("10"), Currency: "EUR", Splits: equalSplits("bob")},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ComputeSettlements(context.Background(), connect.NewRequest(tt.req))
			wantCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestSuggestSettlements(t *testing.T) {
	groups, client, cleanup := setupTestServer(t)
	defer cleanup()

	group := createGroup(t, groups, "Trip", "alice", "bob", "carol", "dave")
	addExpense(t, groups, api.Expense{
		GroupID: group.ID, PayerID: "alice", Amount: amount("90.00"), Currency: "USD",
		Splits: equalSplits("alice", "bob", "carol"),
	})
	_, err := groups.RecordSettlement(context.Background(), connect.NewRequest(&api.RecordSettlementRequest{
		Settlement: &api.Settlement{GroupID: group.ID, PayerID: "bob", ReceiverID: "alice", Amount: amount("30"), Currency: "USD"},
	}))
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	resp, err := client.SuggestSettlements(context.Background(), connect.NewRequest(&api.SuggestSettlementsRequest{
		GroupID:            group.ID,
		IncludeExplanation: true,
	}))
	if err != nil {
		t.Fatalf("SuggestSettlements failed: %v", err)
	}

	if len(resp.Msg.Settlements) != 1 {
		t.Fatalf("settlements: expected 1, got %d: %+v", len(resp.Msg.Settlements), resp.Msg.Settlements)
	}
	s := resp.Msg.Settlements[0]
	if s.PayerID != "carol" || s.ReceiverID != "alice" || !s.Amount.Equal(amount("30")) {
		t.Errorf("expected carol pays 30 to alice, got %+v", s)
	}

	balances, err := client.GetGroupBalances(context.Background(), connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	want := map[string]string{"alice": "30", "bob": "0", "carol": "-30", "dave": "0"}
	if len(balances.Msg.Balances) != len(want) {
		t.Fatalf("balances: expected %d, got %d", len(want), len(balances.Msg.Balances))
	}
	for _, b := range balances.Msg.Balances {
		if !b.Amount.Equal(amount(want[b.UserID])) {
			t.Errorf("balance of %s: expected %s, got %s", b.UserID, want[b.UserID], b.Amount)
		}
	}
	if len(balances.Msg.DebtGraph.Debts) != 3 {
		t.Errorf("debts: expected 3 (2 from the expense, 1 from the settlement), got %d", len(balances.Msg.DebtGraph.Debts))
	}
}

func TestSuggestSettlements_FriendPreference(t *testing.T) {
	groups, client, cleanup := setupTestServer(t)
	defer cleanup()

	group := createGroup(t, groups, "Friends", "alice", "bob", "carol", "dave")
	addExpense(t, groups, api.Expense{
		GroupID: group.ID, PayerID: "alice", Amount: amount("60"), Currency: "USD",
		Splits: []api.Split{
			{UserID: "carol", SplitType: "fixed", Value: amount("50")},
			{UserID: "dave", SplitType: "fixed", Value: amount("10")},
		},
	})
	addExpense(t, groups, api.Expense{
		GroupID: group.ID, PayerID: "bob", Amount: amount("40"), Currency: "USD",
		Splits: equalSplits("dave"),
	})
	_, err := groups.SetFriendship(context.Background(), connect.NewRequest(&api.SetFriendshipRequest{
		GroupID:  group.ID,
		Relation: api.FriendRelation{UserID1: "carol", UserID2: "bob", Strength: amount("3")},
	}))
	if err != nil {
		t.Fatalf("SetFriendship failed: %v", err)
	}

	resp, err := client.SuggestSettlements(context.Background(), connect.NewRequest(&api.SuggestSettlementsRequest{
		GroupID:            group.ID,
		Algorithm:          "friendPreference",
		IncludeFriendships: true,
	}))
	if err != nil {
		t.Fatalf("SuggestSettlements failed: %v", err)
	}

	first := resp.Msg.Settlements[0]
	if first.PayerID != "carol" || first.ReceiverID != "bob" {
		t.Errorf("expected carol to pay her friend bob first, got %+v", first)
	}
	if len(resp.Msg.Visualization.NetworkGraph.Friendships) != 1 {
		t.Errorf("expected friendship link in network graph, got %+v", resp.Msg.Visualization.NetworkGraph.Friendships)
	}
}

func TestSuggestSettlements_GroupDefaultCurrency(t *testing.T) {
	groups, client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name: "Euro Trip", Members: []string{"alice", "bob"}, DefaultCurrency: "EUR",
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	group := resp.Msg.Group
	addExpense(t, groups, api.Expense{
		GroupID: group.ID, PayerID: "alice", Amount: amount("22.00"), Currency: "USD",
		Splits: equalSplits("bob"),
	})

	_, err = client.SuggestSettlements(context.Background(), connect.NewRequest(&api.SuggestSettlementsRequest{GroupID: group.ID}))
	wantCode(t, err, connect.CodeInvalidArgument)

	suggest, err := client.SuggestSettlements(context.Background(), connect.NewRequest(&api.SuggestSettlementsRequest{
		GroupID:       group.ID,
		ExchangeRates: map[string]string{"EUR_USD": "1.10"},
	}))
	if err != nil {
		t.Fatalf("SuggestSettlements failed: %v", err)
	}
	if suggest.Msg.Currency != "EUR" {
		t.Errorf("currency: expected EUR, got %s", suggest.Msg.Currency)
	}
	s := suggest.Msg.Settlements[0]
	if !s.Amount.Equal(amount("20")) || s.OriginalCurrency != "USD" || !s.OriginalAmount.Equal(amount("22")) {
		t.Errorf("expected 20.00 EUR from 22.00 USD, got %+v", s)
	}
}

func TestSuggestSettlements_NotFound(t *testing.T) {
	_, client, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := client.SuggestSettlements(context.Background(), connect.NewRequest(&api.SuggestSettlementsRequest{GroupID: "nonexistent-id"}))
	wantCode(t, err, connect.CodeNotFound)

	_, err = client.GetGroupBalances(context.Background(), connect.NewRequest(&api.GetGroupBalancesRequest{}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"validation", models.ErrNonPositiveAmount, connect.CodeInvalidArgument},
		{"not found", storage.ErrNotFound, connect.CodeNotFound},
		{"invariant", &settle.InvariantViolationError{Algorithm: settle.Greedy, Reason: "residual"}, connect.CodeInternal},
		{"storage", errors.New("disk full"), connect.CodeInternal},
		{"passthrough", connect.NewError(connect.CodeUnavailable, errors.New("later")), connect.CodeUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toConnectError(tt.err).Code(); got != tt.want {
				t.Errorf("toConnectError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
