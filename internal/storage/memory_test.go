package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneebunny/internal/core"
)

func seedTransaction(t *testing.T, s Store, userID, category string, direction core.Direction, amount string, date time.Time) core.Transaction {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatal(err)
	}
	tx := core.Transaction{
		ID:        core.NewID(),
		UserID:    userID,
		Type:      direction,
		Amount:    amt,
		Category:  category,
		Date:      date,
		CreatedAt: date,
	}
	if err := s.CreateTransaction(context.Background(), &tx); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return tx
}

// Creating a transaction and reading it back must preserve amount, type
// and category exactly.
func TestTransactionRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	created := seedTransaction(t, s, "u1", "Food & Dining", core.Expense, "120.50", date)

	got, err := s.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if !got.Amount.Equal(created.Amount) {
		t.Errorf("amount changed: %s vs %s", got.Amount, created.Amount)
	}
	if got.Type != created.Type || got.Category != created.Category {
		t.Errorf("type/category changed: %+v", got)
	}
}

func TestListTransactionsFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, s, "u1", "Food & Dining", core.Expense, "50", day.Add(8*time.Hour))
	seedTransaction(t, s, "u1", "Transportation", core.Expense, "30", day.Add(9*time.Hour))
	seedTransaction(t, s, "u1", "Salary", core.Income, "50000", day.Add(10*time.Hour))
	seedTransaction(t, s, "u2", "Food & Dining", core.Expense, "80", day.Add(11*time.Hour))
	seedTransaction(t, s, "u1", "Food & Dining", core.Expense, "200", day.AddDate(0, 0, 1))

	tests := []struct {
		name   string
		filter TransactionFilter
		count  int
	}{
		{"by user", TransactionFilter{UserID: "u1"}, 4},
		{"by type", TransactionFilter{UserID: "u1", Type: core.Expense}, 3},
		{"by category", TransactionFilter{UserID: "u1", Category: "Food & Dining"}, 2},
		{"by day range", TransactionFilter{UserID: "u1", From: day, To: day.AddDate(0, 0, 1)}, 3},
		{"empty result", TransactionFilter{UserID: "nobody"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListTransactions(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions: %v", err)
			}
			if len(got) != tt.count {
				t.Errorf("got %d transactions, want %d", len(got), tt.count)
			}
		})
	}
}

func TestSumAmountEmptyIsZero(t *testing.T) {
	s := NewMemoryStore()

	sum, err := s.SumAmount(context.Background(), TransactionFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("SumAmount: %v", err)
	}
	if !sum.IsZero() {
		t.Errorf("empty sum = %s, want 0", sum)
	}
}

func TestGroupByCategoryOrdersBySumDescending(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, s, "u1", "Transportation", core.Expense, "300", day)
	seedTransaction(t, s, "u1", "Food & Dining", core.Expense, "450", day)
	seedTransaction(t, s, "u1", "Food & Dining", core.Expense, "50", day)
	seedTransaction(t, s, "u1", "Entertainment", core.Expense, "100", day)

	got, err := s.GroupByCategory(ctx, TransactionFilter{UserID: "u1", Type: core.Expense})
	if err != nil {
		t.Fatalf("GroupByCategory: %v", err)
	}

	wantOrder := []string{"Food & Dining", "Transportation", "Entertainment"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d groups, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].Category != want {
			t.Errorf("group[%d] = %s, want %s", i, got[i].Category, want)
		}
	}
	if want := decimal.NewFromInt(500); !got[0].Total.Equal(want) {
		t.Errorf("top total = %s, want %s", got[0].Total, want)
	}
}

func TestCrudNotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetTransaction(ctx, "missing"); err != core.ErrNotFound {
		t.Errorf("GetTransaction = %v, want ErrNotFound", err)
	}
	if err := s.DeleteBudget(ctx, "missing"); err != core.ErrNotFound {
		t.Errorf("DeleteBudget = %v, want ErrNotFound", err)
	}
	if _, err := s.GetChatLink(ctx, 42); err != core.ErrNotFound {
		t.Errorf("GetChatLink = %v, want ErrNotFound", err)
	}
}
