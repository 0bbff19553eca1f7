package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/settleup/internal/models"
)

// SetFriendship upserts the friendship between two users of a group. The
// pair is stored in canonical order so (a, b) and (b, a) share one row.
func (s *SQLiteStore) SetFriendship(ctx context.Context, groupID string, relation models.FriendRelation) error {
	key := models.PairKey(relation.UserID1, relation.UserID2)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friendships (group_id, user_id1, user_id2, strength)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (group_id, user_id1, user_id2) DO UPDATE SET strength = excluded.strength`,
		groupID, key[0], key[1], relation.Strength,
	)
	if err != nil {
		return fmt.Errorf("failed to set friendship: %w", err)
	}

	return nil
}

// ListFriendships retrieves all friendships of a group.
func (s *SQLiteStore) ListFriendships(ctx context.Context, groupID string) ([]models.FriendRelation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id1, user_id2, strength FROM friendships
		 WHERE group_id = ? ORDER BY user_id1, user_id2`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	defer rows.Close()

	var relations []models.FriendRelation
	for rows.Next() {
		var r models.FriendRelation
		if err := rows.Scan(&r.UserID1, &r.UserID2, &r.Strength); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		relations = append(relations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friendships: %w", err)
	}

	return relations, nil
}
