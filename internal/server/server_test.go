package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/engine"
	"github.com/mmynk/settleup/internal/settle"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(New(store, engine.New(engine.Options{}), settle.MinCashFlow).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header on response")
	}
}

func TestAlgorithmsEndpoint(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/algorithms")
	if err != nil {
		t.Fatalf("GET /api/algorithms: %v", err)
	}
	defer resp.Body.Close()

	var algs []struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&algs); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if len(algs) != len(settle.Algorithms) {
		t.Fatalf("Expected %d algorithms, got %d", len(settle.Algorithms), len(algs))
	}
	if algs[0].Name != "minCashFlow" || algs[0].DisplayName != "Minimum Cash Flow" {
		t.Errorf("Unexpected first algorithm: %+v", algs[0])
	}
}

func TestPreflight(t *testing.T) {
	srv := setupServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/"+apiconnect.SettlementServiceName+"/ComputeSettlements", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Access-Control-Allow-Headers"), "Connect-Protocol-Version") {
		t.Error("Expected Connect headers to be allowed")
	}
}

func TestConnectRoundTrip(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	groups := apiconnect.NewGroupServiceClient(srv.Client(), srv.URL)
	settlements := apiconnect.NewSettlementServiceClient(srv.Client(), srv.URL)

	created, err := groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Trip",
		Members: []string{"alice", "bob"},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := created.Msg.Group.ID

	_, err = groups.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{Expense: &api.Expense{
		GroupID:  groupID,
		PayerID:  "alice",
		Amount:   decimal.NewFromInt(50),
		Currency: "USD",
		Splits: []api.Split{
			{UserID: "alice", SplitType: "equal"},
			{UserID: "bob", SplitType: "equal"},
		},
	}}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	resp, err := settlements.SuggestSettlements(ctx, connect.NewRequest(&api.SuggestSettlementsRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("SuggestSettlements failed: %v", err)
	}
	if len(resp.Msg.Settlements) != 1 {
		t.Fatalf("Expected 1 settlement, got %d", len(resp.Msg.Settlements))
	}
	got := resp.Msg.Settlements[0]
	if got.PayerID != "bob" || got.ReceiverID != "alice" || !got.Amount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Unexpected settlement: %+v", got)
	}

	metrics, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer metrics.Body.Close()
	body, err := io.ReadAll(metrics.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "settleup_rpc_requests_total") {
		t.Error("Expected RPC request counter in /metrics output")
	}
}
