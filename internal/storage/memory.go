package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"moneebunny/internal/core"
)

// MemoryStore is a map-backed Store used by tests and local runs
// without a database file.
type MemoryStore struct {
	mu           sync.Mutex
	users        map[string]core.User
	chatLinks    map[int64]core.ChatLink
	transactions map[string]core.Transaction
	budgets      map[string]core.Budget
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]core.User),
		chatLinks:    make(map[int64]core.ChatLink),
		transactions: make(map[string]core.Transaction),
		budgets:      make(map[string]core.Budget),
	}
}

// Users

func (s *MemoryStore) CreateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (s *MemoryStore) UpdateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return core.ErrNotFound
	}
	s.users[u.ID] = *u
	return nil
}

// Chat identities

func (s *MemoryStore) GetChatLink(_ context.Context, chatID int64) (core.ChatLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.chatLinks[chatID]
	if !ok {
		return core.ChatLink{}, core.ErrNotFound
	}
	return link, nil
}

func (s *MemoryStore) GetChatLinkByUser(_ context.Context, userID string) (core.ChatLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, link := range s.chatLinks {
		if link.UserID == userID {
			return link, nil
		}
	}
	return core.ChatLink{}, core.ErrNotFound
}

func (s *MemoryStore) CreateChatLink(_ context.Context, link *core.ChatLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatLinks[link.ChatID] = *link
	return nil
}

// Transactions

func (s *MemoryStore) CreateTransaction(_ context.Context, tx *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

func (s *MemoryStore) UpdateTransaction(_ context.Context, tx *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[tx.ID]; !ok {
		return core.ErrNotFound
	}
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *MemoryStore) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, f TransactionFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, tx := range s.transactions {
		if matches(tx, f) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) SumAmount(_ context.Context, f TransactionFilter) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, tx := range s.transactions {
		if matches(tx, f) {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (s *MemoryStore) GroupByCategory(_ context.Context, f TransactionFilter) ([]CategorySum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]decimal.Decimal)
	for _, tx := range s.transactions {
		if matches(tx, f) {
			totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		}
	}

	out := make([]CategorySum, 0, len(totals))
	for category, total := range totals {
		out = append(out, CategorySum{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func matches(tx core.Transaction, f TransactionFilter) bool {
	if f.UserID != "" && tx.UserID != f.UserID {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	if f.BudgetID != "" && tx.BudgetID != f.BudgetID {
		return false
	}
	if !f.From.IsZero() && tx.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !tx.Date.Before(f.To) {
		return false
	}
	return true
}

// Budgets

func (s *MemoryStore) CreateBudget(_ context.Context, b *core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = *b
	return nil
}

func (s *MemoryStore) GetBudget(_ context.Context, id string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return core.Budget{}, core.ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) UpdateBudget(_ context.Context, b *core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[b.ID]; !ok {
		return core.ErrNotFound
	}
	s.budgets[b.ID] = *b
	return nil
}

func (s *MemoryStore) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.budgets, id)
	// mirror the ON DELETE SET NULL foreign key
	for txID, tx := range s.transactions {
		if tx.BudgetID == id {
			tx.BudgetID = ""
			s.transactions[txID] = tx
		}
	}
	return nil
}

func (s *MemoryStore) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Budget
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
