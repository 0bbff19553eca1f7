package api

import "github.com/shopspring/decimal"

// Group is a set of users who share expenses.
type Group struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Members         []string `json:"members"`
	DefaultCurrency string   `json:"defaultCurrency,omitempty"`
	CreatedAt       int64    `json:"createdAt"`
}

// Split is one participant's entry in an expense.
type Split struct {
	UserID    string          `json:"userId"`
	SplitType string          `json:"splitType"`
	Value     decimal.Decimal `json:"value"`
}

// Share is one participant's calculated portion of an expense.
type Share struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

// Expense is a purchase paid by one user and shared by the split participants.
type Expense struct {
	ID          string          `json:"id,omitempty"`
	GroupID     string          `json:"groupId,omitempty"`
	PayerID     string          `json:"payerId"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	Splits      []Split         `json:"splits"`
	CreatedAt   int64           `json:"createdAt,omitempty"`
}

// Settlement is a payment from payer to receiver, either recommended by the
// engine or recorded as completed.
type Settlement struct {
	ID               string           `json:"id,omitempty"`
	GroupID          string           `json:"groupId,omitempty"`
	PayerID          string           `json:"payerId"`
	ReceiverID       string           `json:"receiverId"`
	Amount           decimal.Decimal  `json:"amount"`
	Currency         string           `json:"currency"`
	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency string           `json:"originalCurrency,omitempty"`
	ExchangeRate     *decimal.Decimal `json:"exchangeRate,omitempty"`
	Note             string           `json:"note,omitempty"`
	CreatedAt        int64            `json:"createdAt,omitempty"`
}

// DebtEdge is one directed obligation: From owes To the Amount.
type DebtEdge struct {
	From             string           `json:"from"`
	To               string           `json:"to"`
	Amount           decimal.Decimal  `json:"amount"`
	Currency         string           `json:"currency"`
	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency string           `json:"originalCurrency,omitempty"`
}

// DebtGraph is a raw set of obligations.
type DebtGraph struct {
	Users []string   `json:"users"`
	Debts []DebtEdge `json:"debts"`
}

// FriendRelation is an undirected affinity weight between two users.
type FriendRelation struct {
	UserID1  string          `json:"userId1"`
	UserID2  string          `json:"userId2"`
	Strength decimal.Decimal `json:"strength"`
}

// UserBalance is a user's net position; positive means they are owed money.
type UserBalance struct {
	UserID   string          `json:"userId"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// NetworkNode is one user in a network graph.
type NetworkNode struct {
	ID      string          `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// NetworkEdge is the combined flow between an ordered pair of users.
type NetworkEdge struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Count    int             `json:"count"`
}

// FriendLink is a friendship drawn between two network nodes.
type FriendLink struct {
	UserID1  string          `json:"userId1"`
	UserID2  string          `json:"userId2"`
	Strength decimal.Decimal `json:"strength"`
}

type NetworkGraph struct {
	Nodes       []NetworkNode `json:"nodes"`
	Edges       []NetworkEdge `json:"edges"`
	Friendships []FriendLink  `json:"friendships,omitempty"`
}

type SankeyNode struct {
	ID string `json:"id"`
}

// SankeyLink references its endpoints by index into SankeyDiagram.Nodes.
type SankeyLink struct {
	Source int             `json:"source"`
	Target int             `json:"target"`
	Value  decimal.Decimal `json:"value"`
}

type SankeyDiagram struct {
	Nodes []SankeyNode `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

// Summary gives headline numbers for a settlement set.
type Summary struct {
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Currency         string          `json:"currency"`
	TransactionCount int             `json:"transactionCount"`
	UserCount        int             `json:"userCount"`
	ReductionRate    int             `json:"reductionRate"`
}

// Visualization bundles the diagrams derived from a computation.
type Visualization struct {
	Original      NetworkGraph  `json:"original"`
	NetworkGraph  NetworkGraph  `json:"networkGraph"`
	SankeyDiagram SankeyDiagram `json:"sankeyDiagram"`
	Summary       Summary       `json:"summary"`
}

type Step struct {
	Number      int      `json:"step"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Details     []string `json:"details,omitempty"`
}

type Stats struct {
	OriginalTransactionCount  int `json:"originalTransactionCount"`
	OptimizedTransactionCount int `json:"optimizedTransactionCount"`
	ReductionPercentage       int `json:"reductionPercentage"`
}

// Breakdown is the structured account of how settlements were derived.
type Breakdown struct {
	InputDebts       []DebtEdge    `json:"inputDebts"`
	UserBalances     []UserBalance `json:"userBalances"`
	CalculationSteps []Step        `json:"calculationSteps"`
	FinalSettlements []Settlement  `json:"finalSettlements"`
	Stats            Stats         `json:"stats"`
}

// Explanation is the human-readable account of a computation.
type Explanation struct {
	Summary               string   `json:"summary"`
	AlgorithmExplanation  string   `json:"algorithmExplanation"`
	StepByStepExplanation []string `json:"stepByStepExplanation"`
	TransactionSummary    []string `json:"transactionSummary"`
}
