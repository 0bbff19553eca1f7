package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/pkg/api"
)

// Scenario is the TOML input of `settle compute`. Either Debts or
// Expenses/Settlements are given. Amounts may be strings ("12.50") or
// numbers; strings avoid float rounding.
//
//	algorithm = "greedy"
//	currency = "USD"
//
//	[exchange_rates]
//	EUR_USD = "1.10"
//
//	[[expenses]]
//	payer = "alice"
//	amount = "90.00"
//	currency = "USD"
//	splits = [
//	  { user = "alice", type = "equal" },
//	  { user = "bob", type = "equal" },
//	]
//
//	[[friendships]]
//	users = ["alice", "bob"]
//	strength = 2
type Scenario struct {
	Algorithm     string            `toml:"algorithm"`
	Currency      string            `toml:"currency"`
	ExchangeRates map[string]string `toml:"exchange_rates"`

	Debts       []scenarioDebt       `toml:"debts"`
	Expenses    []scenarioExpense    `toml:"expenses"`
	Settlements []scenarioSettlement `toml:"settlements"`
	Friendships []scenarioFriendship `toml:"friendships"`
}

type scenarioDebt struct {
	From     string          `toml:"from"`
	To       string          `toml:"to"`
	Amount   decimal.Decimal `toml:"amount"`
	Currency string          `toml:"currency"`
}

type scenarioSplit struct {
	User  string          `toml:"user"`
	Type  string          `toml:"type"`
	Value decimal.Decimal `toml:"value"`
}

type scenarioExpense struct {
	Payer       string          `toml:"payer"`
	Amount      decimal.Decimal `toml:"amount"`
	Currency    string          `toml:"currency"`
	Description string          `toml:"description"`
	Splits      []scenarioSplit `toml:"splits"`
}

type scenarioSettlement struct {
	Payer    string          `toml:"payer"`
	Receiver string          `toml:"receiver"`
	Amount   decimal.Decimal `toml:"amount"`
	Currency string          `toml:"currency"`
}

type scenarioFriendship struct {
	Users    []string        `toml:"users"`
	Strength decimal.Decimal `toml:"strength"`
}

// LoadScenario decodes a scenario file, rejecting unknown keys.
func LoadScenario(path string) (*Scenario, error) {
	var sc Scenario
	md, err := toml.DecodeFile(path, &sc)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("scenario %s: unknown keys %v", path, undecoded)
	}
	return &sc, nil
}

// Request converts the scenario into a ComputeSettlements request.
func (sc *Scenario) Request() (*api.ComputeSettlementsRequest, error) {
	req := &api.ComputeSettlementsRequest{
		Algorithm:     sc.Algorithm,
		Currency:      sc.Currency,
		ExchangeRates: sc.ExchangeRates,
	}

	if len(sc.Debts) > 0 {
		req.DebtGraph = &api.DebtGraph{}
		for _, d := range sc.Debts {
			req.DebtGraph.Debts = append(req.DebtGraph.Debts, api.DebtEdge{
				From: d.From, To: d.To, Amount: d.Amount, Currency: d.Currency,
			})
		}
	}

	for _, e := range sc.Expenses {
		exp := api.Expense{
			PayerID:     e.Payer,
			Amount:      e.Amount,
			Currency:    e.Currency,
			Description: e.Description,
		}
		for _, s := range e.Splits {
			splitType := s.Type
			if splitType == "" {
				splitType = "equal"
			}
			exp.Splits = append(exp.Splits, api.Split{UserID: s.User, SplitType: splitType, Value: s.Value})
		}
		req.Expenses = append(req.Expenses, exp)
	}

	for _, s := range sc.Settlements {
		req.Settlements = append(req.Settlements, api.Settlement{
			PayerID: s.Payer, ReceiverID: s.Receiver, Amount: s.Amount, Currency: s.Currency,
		})
	}

	for i, f := range sc.Friendships {
		if len(f.Users) != 2 {
			return nil, fmt.Errorf("friendship %d: want exactly 2 users, got %d", i, len(f.Users))
		}
		req.FriendRelations = append(req.FriendRelations, api.FriendRelation{
			UserID1: f.Users[0], UserID2: f.Users[1], Strength: f.Strength,
		})
	}

	return req, nil
}
