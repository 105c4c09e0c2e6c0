package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"moneebunny/internal/core"
	"moneebunny/internal/storage"
)

// BudgetBand classifies how far into a budget the spending has gone.
type BudgetBand string

const (
	BandOK      BudgetBand = "ok"      // at or under 80%
	BandWarning BudgetBand = "warning" // over 80%
	BandOver    BudgetBand = "over"    // over 100%
)

type (
	// CategoryStat is one category's share of a monthly breakdown.
	CategoryStat struct {
		Category string
		Amount   decimal.Decimal
		Percent  int
	}

	// DailyReport lists one day's expenses, largest first.
	DailyReport struct {
		Date  time.Time
		Total decimal.Decimal
		Items []core.Transaction
	}

	// MonthlyReport breaks a month's expenses down by category and
	// balances them against the month's income.
	MonthlyReport struct {
		Year         int
		Month        time.Month
		TotalExpense decimal.Decimal
		TotalIncome  decimal.Decimal
		Balance      decimal.Decimal
		Categories   []CategoryStat
	}

	// BudgetReport is the live status of one budget in its current
	// accounting window.
	BudgetReport struct {
		Budget    core.Budget
		Spent     decimal.Decimal
		Remaining decimal.Decimal
		Percent   int
		Band      BudgetBand
	}
)

// Aggregator computes reports from a transaction store. It is read-only
// and safe for concurrent use.
type Aggregator struct {
	store storage.Store
}

func NewAggregator(store storage.Store) *Aggregator {
	return &Aggregator{store: store}
}

// DailyTotal sums a user's expenses for one calendar day and lists them
// ordered by amount descending. No rows yields a zero total and an
// empty list, not an error.
func (a *Aggregator) DailyTotal(ctx context.Context, userID string, day time.Time) (DailyReport, error) {
	start, end := DayWindow(day)

	items, err := a.store.ListTransactions(ctx, storage.TransactionFilter{
		UserID: userID,
		Type:   core.Expense,
		From:   start,
		To:     end,
	})
	if err != nil {
		return DailyReport{}, fmt.Errorf("list daily expenses: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Amount.GreaterThan(items[j].Amount)
	})

	total := decimal.Zero
	for _, tx := range items {
		total = total.Add(tx.Amount)
	}

	return DailyReport{Date: start, Total: total, Items: items}, nil
}

// MonthlyBreakdown computes per-category expense sums for a calendar
// month, each with its rounded share of the total, plus the month's
// income and the resulting balance.
func (a *Aggregator) MonthlyBreakdown(ctx context.Context, userID string, year int, month time.Month) (MonthlyReport, error) {
	start, end := MonthWindow(year, month, time.Local)
	filter := storage.TransactionFilter{UserID: userID, From: start, To: end}

	filter.Type = core.Expense
	groups, err := a.store.GroupByCategory(ctx, filter)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("group monthly expenses: %w", err)
	}

	totalExpense := decimal.Zero
	for _, g := range groups {
		totalExpense = totalExpense.Add(g.Total)
	}

	categories := make([]CategoryStat, 0, len(groups))
	for _, g := range groups {
		categories = append(categories, CategoryStat{
			Category: g.Category,
			Amount:   g.Total,
			Percent:  sharePercent(g.Total, totalExpense),
		})
	}

	filter.Type = core.Income
	totalIncome, err := a.store.SumAmount(ctx, filter)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("sum monthly income: %w", err)
	}

	return MonthlyReport{
		Year:         year,
		Month:        month,
		TotalExpense: totalExpense,
		TotalIncome:  totalIncome,
		Balance:      totalIncome.Sub(totalExpense),
		Categories:   categories,
	}, nil
}

// MonthlyCategoryTotal sums one category's expenses in the month
// containing now. Used right after recording to show the running total.
func (a *Aggregator) MonthlyCategoryTotal(ctx context.Context, userID, category string, now time.Time) (decimal.Decimal, error) {
	start, end := MonthWindow(now.Year(), now.Month(), now.Location())

	sum, err := a.store.SumAmount(ctx, storage.TransactionFilter{
		UserID:   userID,
		Type:     core.Expense,
		Category: category,
		From:     start,
		To:       end,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum category month total: %w", err)
	}
	return sum, nil
}

// BudgetStatuses reports every budget the user owns against its current
// period window. A budget with a non-positive amount cannot produce a
// meaningful ratio; it is reported as 0% and BandOK (validation rejects
// such budgets at write time, the guard covers legacy rows only).
func (a *Aggregator) BudgetStatuses(ctx context.Context, userID string, now time.Time) ([]BudgetReport, error) {
	budgets, err := a.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	out := make([]BudgetReport, 0, len(budgets))
	for _, b := range budgets {
		start, end, err := PeriodWindow(b.Period, now)
		if err != nil {
			return nil, err
		}

		spent, err := a.store.SumAmount(ctx, storage.TransactionFilter{
			UserID:   userID,
			Type:     core.Expense,
			BudgetID: b.ID,
			From:     start,
			To:       end,
		})
		if err != nil {
			return nil, fmt.Errorf("sum budget %s spending: %w", b.ID, err)
		}

		out = append(out, budgetReport(b, spent))
	}
	return out, nil
}

func budgetReport(b core.Budget, spent decimal.Decimal) BudgetReport {
	r := BudgetReport{
		Budget:    b,
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
		Band:      BandOK,
	}
	if !b.Amount.IsPositive() {
		return r
	}

	r.Percent = sharePercent(spent, b.Amount)
	switch {
	case spent.GreaterThan(b.Amount):
		r.Band = BandOver
	case spent.Mul(decimal.NewFromInt(100)).GreaterThan(b.Amount.Mul(decimal.NewFromInt(80))):
		r.Band = BandWarning
	}
	return r
}

// sharePercent computes part/total as a whole percent, halves rounding
// up. A zero total yields 0.
func sharePercent(part, total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	ratio, _ := part.Div(total).Float64()
	return int(math.Floor(ratio*100 + 0.5))
}
