package models

import "github.com/shopspring/decimal"

// FriendRelation is an undirected affinity weight between two users.
type FriendRelation struct {
	UserID1  string
	UserID2  string
	Strength decimal.Decimal
}

// PairKey returns an order-independent key for two users.
func PairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// FriendshipIndex maps an unordered user pair to its friendship strength.
type FriendshipIndex map[[2]string]decimal.Decimal

// IndexFriendships builds a strength lookup. Duplicate pairs keep the
// strongest relation.
func IndexFriendships(relations []FriendRelation) FriendshipIndex {
	idx := make(FriendshipIndex, len(relations))
	for _, r := range relations {
		if r.UserID1 == r.UserID2 {
			continue
		}
		key := PairKey(r.UserID1, r.UserID2)
		if cur, ok := idx[key]; !ok || r.Strength.GreaterThan(cur) {
			idx[key] = r.Strength
		}
	}
	return idx
}

// Strength returns the friendship strength between two users, zero if none.
func (f FriendshipIndex) Strength(a, b string) decimal.Decimal {
	return f[PairKey(a, b)]
}
