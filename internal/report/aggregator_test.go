package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneebunny/internal/core"
	"moneebunny/internal/storage"
)

var june10 = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

func seedExpense(t *testing.T, store storage.Store, userID, category string, amount int64, date time.Time) core.Transaction {
	t.Helper()
	tx := core.Transaction{
		ID:       core.NewID(),
		UserID:   userID,
		Type:     core.Expense,
		Amount:   decimal.NewFromInt(amount),
		Category: category,
		Date:     date,
	}
	if err := store.CreateTransaction(context.Background(), &tx); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
	return tx
}

func seedIncome(t *testing.T, store storage.Store, userID string, amount int64, date time.Time) {
	t.Helper()
	tx := core.Transaction{
		ID:       core.NewID(),
		UserID:   userID,
		Type:     core.Income,
		Amount:   decimal.NewFromInt(amount),
		Category: "Salary",
		Date:     date,
	}
	if err := store.CreateTransaction(context.Background(), &tx); err != nil {
		t.Fatalf("seed income: %v", err)
	}
}

func TestDailyTotal(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store)

	seedExpense(t, store, "u1", "Food & Dining", 50, june10)
	seedExpense(t, store, "u1", "Transportation", 120, june10.Add(2*time.Hour))
	seedExpense(t, store, "u1", "Food & Dining", 80, june10.AddDate(0, 0, 1)) // next day
	seedIncome(t, store, "u1", 5000, june10)                                 // income excluded
	seedExpense(t, store, "u2", "Food & Dining", 999, june10)                // other user

	rep, err := agg.DailyTotal(context.Background(), "u1", june10)
	if err != nil {
		t.Fatalf("DailyTotal error: %v", err)
	}

	if want := decimal.NewFromInt(170); !rep.Total.Equal(want) {
		t.Errorf("total = %s, want %s", rep.Total, want)
	}
	if len(rep.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(rep.Items))
	}
	if !rep.Items[0].Amount.GreaterThanOrEqual(rep.Items[1].Amount) {
		t.Errorf("items not ordered by amount descending: %s before %s",
			rep.Items[0].Amount, rep.Items[1].Amount)
	}
}

func TestDailyTotalEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store)

	rep, err := agg.DailyTotal(context.Background(), "u1", june10)
	if err != nil {
		t.Fatalf("DailyTotal error: %v", err)
	}
	if !rep.Total.IsZero() {
		t.Errorf("total = %s, want 0", rep.Total)
	}
	if len(rep.Items) != 0 {
		t.Errorf("items = %d, want 0", len(rep.Items))
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store)

	seedExpense(t, store, "u1", "Food & Dining", 600, june10)
	seedExpense(t, store, "u1", "Transportation", 300, june10.AddDate(0, 0, 3))
	seedExpense(t, store, "u1", "Shopping", 100, june10.AddDate(0, 0, 5))
	seedExpense(t, store, "u1", "Food & Dining", 400, june10.AddDate(0, 1, 0)) // july
	seedIncome(t, store, "u1", 5000, june10)

	rep, err := agg.MonthlyBreakdown(context.Background(), "u1", 2025, time.June)
	if err != nil {
		t.Fatalf("MonthlyBreakdown error: %v", err)
	}

	if want := decimal.NewFromInt(1000); !rep.TotalExpense.Equal(want) {
		t.Errorf("total expense = %s, want %s", rep.TotalExpense, want)
	}
	if want := decimal.NewFromInt(5000); !rep.TotalIncome.Equal(want) {
		t.Errorf("total income = %s, want %s", rep.TotalIncome, want)
	}
	if want := decimal.NewFromInt(4000); !rep.Balance.Equal(want) {
		t.Errorf("balance = %s, want %s", rep.Balance, want)
	}

	if len(rep.Categories) != 3 {
		t.Fatalf("categories = %d, want 3", len(rep.Categories))
	}
	if rep.Categories[0].Category != "Food & Dining" || rep.Categories[0].Percent != 60 {
		t.Errorf("top category = %s %d%%, want Food & Dining 60%%",
			rep.Categories[0].Category, rep.Categories[0].Percent)
	}
	if rep.Categories[1].Percent != 30 || rep.Categories[2].Percent != 10 {
		t.Errorf("percents = %d, %d, want 30, 10",
			rep.Categories[1].Percent, rep.Categories[2].Percent)
	}
}

// With rounding to whole percents the shares of at least three unequal
// categories still land within one point of 100 in aggregate.
func TestMonthlyBreakdownPercentSum(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store)

	amounts := map[string]int64{
		"Food & Dining":  333,
		"Transportation": 333,
		"Shopping":       334,
		"Entertainment":  57,
		"Healthcare":     13,
	}
	for cat, amt := range amounts {
		seedExpense(t, store, "u1", cat, amt, june10)
	}

	rep, err := agg.MonthlyBreakdown(context.Background(), "u1", 2025, time.June)
	if err != nil {
		t.Fatalf("MonthlyBreakdown error: %v", err)
	}

	sum := 0
	for _, c := range rep.Categories {
		sum += c.Percent
	}
	if sum < 95 || sum > 105 {
		t.Errorf("percent sum = %d, want within [95, 105]", sum)
	}
}

func TestBudgetStatuses(t *testing.T) {
	tests := []struct {
		name        string
		budget      int64
		spent       int64
		wantPercent int
		wantBand    BudgetBand
	}{
		{name: "untouched", budget: 1000, spent: 0, wantPercent: 0, wantBand: BandOK},
		{name: "halfway", budget: 1000, spent: 500, wantPercent: 50, wantBand: BandOK},
		{name: "at threshold", budget: 1000, spent: 800, wantPercent: 80, wantBand: BandOK},
		{name: "warning", budget: 1000, spent: 810, wantPercent: 81, wantBand: BandWarning},
		{name: "at ceiling", budget: 1000, spent: 1000, wantPercent: 100, wantBand: BandWarning},
		{name: "over", budget: 1000, spent: 1010, wantPercent: 101, wantBand: BandOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			agg := NewAggregator(store)

			b := core.Budget{
				ID:        core.NewID(),
				UserID:    "u1",
				Name:      "groceries",
				Amount:    decimal.NewFromInt(tt.budget),
				Period:    core.PeriodMonthly,
				StartDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			}
			if err := store.CreateBudget(context.Background(), &b); err != nil {
				t.Fatalf("create budget: %v", err)
			}
			if tt.spent > 0 {
				tx := seedExpense(t, store, "u1", "Food & Dining", tt.spent, june10)
				tx.BudgetID = b.ID
				if err := store.UpdateTransaction(context.Background(), &tx); err != nil {
					t.Fatalf("link transaction: %v", err)
				}
			}

			reports, err := agg.BudgetStatuses(context.Background(), "u1", june10)
			if err != nil {
				t.Fatalf("BudgetStatuses error: %v", err)
			}
			if len(reports) != 1 {
				t.Fatalf("reports = %d, want 1", len(reports))
			}

			r := reports[0]
			if r.Percent != tt.wantPercent {
				t.Errorf("percent = %d, want %d", r.Percent, tt.wantPercent)
			}
			if r.Band != tt.wantBand {
				t.Errorf("band = %q, want %q", r.Band, tt.wantBand)
			}
			if want := decimal.NewFromInt(tt.budget - tt.spent); !r.Remaining.Equal(want) {
				t.Errorf("remaining = %s, want %s", r.Remaining, want)
			}
		})
	}
}

func TestBudgetStatusesWindowExcludesOtherPeriods(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store)

	b := core.Budget{
		ID:        core.NewID(),
		UserID:    "u1",
		Name:      "daily food",
		Amount:    decimal.NewFromInt(200),
		Period:    core.PeriodDaily,
		StartDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.CreateBudget(context.Background(), &b); err != nil {
		t.Fatalf("create budget: %v", err)
	}

	today := seedExpense(t, store, "u1", "Food & Dining", 150, june10)
	today.BudgetID = b.ID
	if err := store.UpdateTransaction(context.Background(), &today); err != nil {
		t.Fatalf("link transaction: %v", err)
	}
	yesterday := seedExpense(t, store, "u1", "Food & Dining", 500, june10.AddDate(0, 0, -1))
	yesterday.BudgetID = b.ID
	if err := store.UpdateTransaction(context.Background(), &yesterday); err != nil {
		t.Fatalf("link transaction: %v", err)
	}

	reports, err := agg.BudgetStatuses(context.Background(), "u1", june10)
	if err != nil {
		t.Fatalf("BudgetStatuses error: %v", err)
	}
	if want := decimal.NewFromInt(150); !reports[0].Spent.Equal(want) {
		t.Errorf("spent = %s, want %s", reports[0].Spent, want)
	}
}

func TestMonthlyCategoryTotal(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := NewAggregator(store)

	seedExpense(t, store, "u1", "Food & Dining", 50, june10)
	seedExpense(t, store, "u1", "Food & Dining", 120, june10.AddDate(0, 0, 2))
	seedExpense(t, store, "u1", "Transportation", 30, june10)

	got, err := agg.MonthlyCategoryTotal(context.Background(), "u1", "Food & Dining", june10)
	if err != nil {
		t.Fatalf("MonthlyCategoryTotal error: %v", err)
	}
	if want := decimal.NewFromInt(170); !got.Equal(want) {
		t.Errorf("total = %s, want %s", got, want)
	}
}
