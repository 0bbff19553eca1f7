// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations behind the group workflows.
// The settlement engine never touches a Store; services load a group's
// records and hand them to the engine.
type Store interface {
	// CreateGroup persists a new group. group.ID and group.CreatedAt are
	// populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members in insertion order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// CreateExpense persists an expense and its splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns a group's expenses, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error)

	// CreateSettlement records a completed settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup returns a group's completed settlements, oldest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]models.Settlement, error)

	// SetFriendship creates or replaces the friendship between two users of
	// a group. The pair is unordered.
	SetFriendship(ctx context.Context, groupID string, relation models.FriendRelation) error

	// ListFriendships returns a group's friendships ordered by user pair.
	ListFriendships(ctx context.Context, groupID string) ([]models.FriendRelation, error)

	// Close releases any resources held by the store.
	Close() error
}
