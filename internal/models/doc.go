// Package models defines the value types shared by the settlement engine
// and the services that feed it.
//
// # Engine Models
//
// Everything the engine consumes or produces is a request-scoped value:
//   - Expense / Split: one shared purchase and how it is divided
//   - DebtEdge / DebtGraph: directed obligations implied by expenses and settlements
//   - UserBalance / BalanceSheet: net position per user in one currency
//   - Settlement: one recommended (or recorded) payment
//   - FriendRelation: undirected affinity weight between two users
//
// # Persistence Models
//
// Group is the only type with a stored identity of its own. Expenses and
// settlements carry IDs when they come from storage, but the engine ignores them.
//
// # Design Principles
//
// 1. **Exact money**: all amounts are decimal.Decimal, never float64
// 2. **No shared state**: values are built per computation and never mutated by the engine
// 3. **Avoid circular references**: relationships use ID strings instead of pointers
// 4. **Sign convention**: a positive balance means the user is owed money
package models
