// Package storage persists users, budgets, and transactions.
//
// Store is the port every other layer depends on; SQLite backs it in
// production and an in-memory implementation backs it in tests.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"moneebunny/internal/core"
)

// TransactionFilter narrows transaction queries. Zero-value fields are
// ignored. Date bounds are half-open: From inclusive, To exclusive.
type TransactionFilter struct {
	UserID   string
	Type     core.Direction
	Category string
	BudgetID string
	From     time.Time
	To       time.Time
}

// CategorySum is one group-by-category aggregation row.
type CategorySum struct {
	Category string
	Total    decimal.Decimal
}

type Store interface {
	// Users
	CreateUser(ctx context.Context, u *core.User) error
	GetUserByID(ctx context.Context, id string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	UpdateUser(ctx context.Context, u *core.User) error

	// Chat identities
	GetChatLink(ctx context.Context, chatID int64) (core.ChatLink, error)
	GetChatLinkByUser(ctx context.Context, userID string) (core.ChatLink, error)
	CreateChatLink(ctx context.Context, link *core.ChatLink) error

	// Transactions
	CreateTransaction(ctx context.Context, tx *core.Transaction) error
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error)

	// Aggregates, computed inside the store. SumAmount returns zero when
	// no rows match; GroupByCategory orders by total descending.
	SumAmount(ctx context.Context, f TransactionFilter) (decimal.Decimal, error)
	GroupByCategory(ctx context.Context, f TransactionFilter) ([]CategorySum, error)

	// Budgets
	CreateBudget(ctx context.Context, b *core.Budget) error
	GetBudget(ctx context.Context, id string) (core.Budget, error)
	UpdateBudget(ctx context.Context, b *core.Budget) error
	DeleteBudget(ctx context.Context, id string) error
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
}
