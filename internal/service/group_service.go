package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService: the caller-side records
// (groups, expenses, completed settlements, friendships) the engine works on.
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	group := &models.Group{
		Name:            strings.TrimSpace(req.Msg.Name),
		Members:         req.Msg.Members,
		DefaultCurrency: req.Msg.DefaultCurrency,
	}
	if err := validateGroup(group); err != nil {
		slog.Warn("CreateGroup rejected", "error", err)
		return nil, toConnectError(err)
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

func validateGroup(g *models.Group) error {
	if g.Name == "" {
		return fmt.Errorf("%w: group name required", models.ErrValidation)
	}
	if len(g.Members) == 0 {
		return fmt.Errorf("group %q: %w", g.Name, models.ErrNoParticipants)
	}
	seen := make(map[string]bool, len(g.Members))
	for _, m := range g.Members {
		if m == "" {
			return fmt.Errorf("%w: empty member id", models.ErrValidation)
		}
		if seen[m] {
			return fmt.Errorf("%w: duplicate member %s", models.ErrValidation, m)
		}
		seen[m] = true
	}
	if g.DefaultCurrency != "" {
		return models.ValidateCurrency(g.DefaultCurrency)
	}
	return nil
}

// GetGroup retrieves a group by ID together with its friendships.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.loadGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	relations, err := s.store.ListFriendships(ctx, group.ID)
	if err != nil {
		slog.Error("GetGroup failed - could not list friendships", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{
		Group:       groupToAPI(group),
		Friendships: relationsToAPI(relations),
	}), nil
}

// AddExpense validates an expense against the group and its split rule and
// stores it. The response carries the calculated shares.
func (s *GroupService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	expense, err := expenseFromAPI(req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("AddExpense request received",
		"group_id", expense.GroupID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount,
		"currency", expense.Currency,
		"splits_count", len(expense.Splits),
	)

	group, err := s.loadGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	if err := requireMembers(group, append([]string{expense.PayerID}, expense.Participants()...)...); err != nil {
		slog.Warn("AddExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	shares, err := calculator.CalculateSplit(expense.Amount, expense.Currency, expense.Splits)
	if err != nil {
		slog.Warn("AddExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, &expense); err != nil {
		slog.Error("AddExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added", "group_id", group.ID, "expense_id", expense.ID)

	out := expenseToAPI(expense)
	return connect.NewResponse(&api.AddExpenseResponse{
		Expense: &out,
		Shares:  sharesToAPI(shares),
	}), nil
}

// ListExpenses returns a group's expenses and completed settlements.
func (s *GroupService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	group, err := s.loadGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenses failed - could not list expenses", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenses failed - could not list settlements", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.ListExpensesResponse{
		Expenses:    make([]api.Expense, len(expenses)),
		Settlements: settlementsToAPI(settlements),
	}
	for i, e := range expenses {
		resp.Expenses[i] = expenseToAPI(e)
	}

	slog.Info("ListExpenses successful",
		"group_id", group.ID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
	)

	return connect.NewResponse(resp), nil
}

// RecordSettlement stores a completed payment between two members.
func (s *GroupService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	if req.Msg.Settlement == nil {
		return nil, toConnectError(fmt.Errorf("%w: settlement required", models.ErrValidation))
	}
	settlement := settlementFromAPI(*req.Msg.Settlement)
	slog.Info("RecordSettlement request received",
		"group_id", settlement.GroupID,
		"payer_id", settlement.PayerID,
		"receiver_id", settlement.ReceiverID,
		"amount", settlement.Amount,
	)

	group, err := s.loadGroup(ctx, settlement.GroupID)
	if err != nil {
		return nil, err
	}
	if err := settlement.Validate(); err != nil {
		slog.Warn("RecordSettlement rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	if err := requireMembers(group, settlement.PayerID, settlement.ReceiverID); err != nil {
		slog.Warn("RecordSettlement rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	// Completed settlements are stored in their own currency; conversion
	// data only describes recommendations.
	settlement.OriginalAmount, settlement.OriginalCurrency, settlement.ExchangeRate = nil, "", nil

	if err := s.store.CreateSettlement(ctx, &settlement); err != nil {
		slog.Error("RecordSettlement failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement recorded", "group_id", group.ID, "settlement_id", settlement.ID)

	out := settlementToAPI(settlement)
	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: &out}), nil
}

// SetFriendship creates or replaces the friendship between two members.
func (s *GroupService) SetFriendship(ctx context.Context, req *connect.Request[api.SetFriendshipRequest]) (*connect.Response[api.SetFriendshipResponse], error) {
	rel := req.Msg.Relation
	slog.Info("SetFriendship request received",
		"group_id", req.Msg.GroupID,
		"user_id1", rel.UserID1,
		"user_id2", rel.UserID2,
		"strength", rel.Strength,
	)

	group, err := s.loadGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if rel.UserID1 == rel.UserID2 {
		return nil, toConnectError(fmt.Errorf("%w: friendship of %s with themselves", models.ErrValidation, rel.UserID1))
	}
	if rel.Strength.IsNegative() {
		return nil, toConnectError(fmt.Errorf("%w: friendship strength %s is negative", models.ErrValidation, rel.Strength))
	}
	if err := requireMembers(group, rel.UserID1, rel.UserID2); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.SetFriendship(ctx, group.ID, relationsFromAPI([]api.FriendRelation{rel})[0]); err != nil {
		slog.Error("SetFriendship failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Friendship set", "group_id", group.ID)

	return connect.NewResponse(&api.SetFriendshipResponse{}), nil
}

// loadGroup fetches a group, returning a Connect error ready to be sent.
func (s *GroupService) loadGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return loadGroup(ctx, s.store, groupID)
}

func loadGroup(ctx context.Context, store storage.Store, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, toConnectError(fmt.Errorf("%w: group_id required", models.ErrValidation))
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Warn("Group lookup failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	return group, nil
}

func requireMembers(group *models.Group, userIDs ...string) error {
	for _, id := range userIDs {
		if !group.HasMember(id) {
			return fmt.Errorf("%w: %q is not a member of group %s", models.ErrValidation, id, group.ID)
		}
	}
	return nil
}
