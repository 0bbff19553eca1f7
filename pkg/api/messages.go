package api

// GroupService messages.

type CreateGroupRequest struct {
	Name            string   `json:"name"`
	Members         []string `json:"members"`
	DefaultCurrency string   `json:"defaultCurrency,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group       *Group           `json:"group"`
	Friendships []FriendRelation `json:"friendships,omitempty"`
}

type AddExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

// AddExpenseResponse echoes the stored expense with the calculated shares.
type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
	Shares  []Share  `json:"shares"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses    []Expense    `json:"expenses"`
	Settlements []Settlement `json:"settlements"`
}

// RecordSettlementRequest records a completed payment between two members.
type RecordSettlementRequest struct {
	Settlement *Settlement `json:"settlement"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

// SetFriendshipRequest creates or replaces the friendship between two
// members of a group.
type SetFriendshipRequest struct {
	GroupID  string         `json:"groupId"`
	Relation FriendRelation `json:"relation"`
}

type SetFriendshipResponse struct{}

// SettlementService messages.

// ComputeSettlementsRequest carries a complete, self-contained input: either
// a debt graph or expenses plus completed settlements.
type ComputeSettlementsRequest struct {
	DebtGraph          *DebtGraph        `json:"debtGraph,omitempty"`
	Expenses           []Expense         `json:"expenses,omitempty"`
	Settlements        []Settlement      `json:"settlements,omitempty"`
	ExchangeRates      map[string]string `json:"exchangeRates,omitempty"`
	Currency           string            `json:"currency,omitempty"`
	FriendRelations    []FriendRelation  `json:"friendRelations,omitempty"`
	Algorithm          string            `json:"algorithm,omitempty"`
	IncludeFriendships bool              `json:"includeFriendships,omitempty"`
	IncludeExplanation bool              `json:"includeExplanation,omitempty"`
}

// SuggestSettlementsRequest computes settlements for a stored group.
type SuggestSettlementsRequest struct {
	GroupID            string            `json:"groupId"`
	ExchangeRates      map[string]string `json:"exchangeRates,omitempty"`
	Currency           string            `json:"currency,omitempty"`
	Algorithm          string            `json:"algorithm,omitempty"`
	IncludeFriendships bool              `json:"includeFriendships,omitempty"`
	IncludeExplanation bool              `json:"includeExplanation,omitempty"`
}

// SettlementsResponse is the result of ComputeSettlements and
// SuggestSettlements.
type SettlementsResponse struct {
	Settlements   []Settlement   `json:"settlements"`
	Currency      string         `json:"currency"`
	Algorithm     string         `json:"algorithm"`
	Balances      []UserBalance  `json:"balances"`
	Visualization *Visualization `json:"visualization,omitempty"`
	Breakdown     *Breakdown     `json:"breakdown,omitempty"`
	Explanation   *Explanation   `json:"explanation,omitempty"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

// GetGroupBalancesResponse lists net balances per currency, without
// conversion, and the raw debts behind them.
type GetGroupBalancesResponse struct {
	Balances  []UserBalance `json:"balances"`
	DebtGraph DebtGraph     `json:"debtGraph"`
}
