package reply

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneebunny/internal/core"
	"moneebunny/internal/lexicon"
	"moneebunny/internal/report"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	return NewRenderer(lexicon.Default())
}

func TestTransactionRecorded(t *testing.T) {
	r := newRenderer(t)
	tx := core.Transaction{
		Type:        core.Expense,
		Amount:      decimal.NewFromInt(120),
		Category:    "Food & Dining",
		Description: "便當",
		Date:        time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC),
	}

	got := r.TransactionRecorded(tx, decimal.NewFromInt(1170)).Text

	for _, want := range []string{
		"💸 已記錄支出",
		"📝 便當",
		"💵 NT$120",
		"📁 分類: Food & Dining",
		"📅 日期: 2025/06/10",
		"本月「Food & Dining」支出: NT$1,170",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("reply missing %q:\n%s", want, got)
		}
	}
}

func TestTransactionRecordedIncomeFallsBackToCategory(t *testing.T) {
	r := newRenderer(t)
	tx := core.Transaction{
		Type:     core.Income,
		Amount:   decimal.NewFromInt(5000),
		Category: "Salary",
		Date:     time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
	}

	got := r.TransactionRecorded(tx, decimal.Zero).Text
	if !strings.Contains(got, "💰 已記錄收入") {
		t.Errorf("income reply missing income marker:\n%s", got)
	}
	if !strings.Contains(got, "📝 Salary") {
		t.Errorf("empty description should fall back to category:\n%s", got)
	}
}

func TestDailyReport(t *testing.T) {
	r := newRenderer(t)
	rep := report.DailyReport{
		Total: decimal.NewFromInt(170),
		Items: []core.Transaction{
			{Amount: decimal.NewFromInt(120), Category: "Food & Dining", Description: "便當"},
			{Amount: decimal.NewFromInt(50), Category: "Transportation"},
		},
	}

	got := r.DailyReport(rep).Text
	for _, want := range []string{"今日支出報表", "• 便當: NT$120", "• Transportation: NT$50", "總計: NT$170"} {
		if !strings.Contains(got, want) {
			t.Errorf("reply missing %q:\n%s", want, got)
		}
	}
}

func TestDailyReportEmpty(t *testing.T) {
	r := newRenderer(t)
	if got := r.DailyReport(report.DailyReport{}).Text; got != "📅 今日尚無支出記錄" {
		t.Errorf("empty-day reply = %q", got)
	}
}

func TestMonthlyReport(t *testing.T) {
	r := newRenderer(t)
	rep := report.MonthlyReport{
		Year:         2025,
		Month:        time.June,
		TotalExpense: decimal.NewFromInt(1000),
		TotalIncome:  decimal.NewFromInt(5000),
		Balance:      decimal.NewFromInt(4000),
		Categories: []report.CategoryStat{
			{Category: "Food & Dining", Amount: decimal.NewFromInt(600), Percent: 60},
			{Category: "Transportation", Amount: decimal.NewFromInt(400), Percent: 40},
		},
	}

	got := r.MonthlyReport(rep).Text
	for _, want := range []string{
		"本月支出報表 (6月)",
		"Food & Dining: NT$600 (60%)",
		"總計: NT$1,000",
		"收入: NT$5,000",
		"結餘: NT$4,000",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("reply missing %q:\n%s", want, got)
		}
	}
}

func TestBudgetAlertBands(t *testing.T) {
	r := newRenderer(t)
	base := report.BudgetReport{
		Budget:    core.Budget{Name: "groceries", Amount: decimal.NewFromInt(1000)},
		Spent:     decimal.NewFromInt(900),
		Remaining: decimal.NewFromInt(100),
		Percent:   90,
	}

	base.Band = report.BandWarning
	if got := r.BudgetAlert(base).Text; !strings.Contains(got, "即將用完") {
		t.Errorf("warning alert missing warning phrase:\n%s", got)
	}

	base.Band = report.BandOver
	if got := r.BudgetAlert(base).Text; !strings.Contains(got, "已超支") {
		t.Errorf("over alert missing over phrase:\n%s", got)
	}
}

// Rendering the same report twice yields byte-identical output.
func TestRenderDeterminism(t *testing.T) {
	r := newRenderer(t)
	rep := report.MonthlyReport{
		Month:        time.June,
		TotalExpense: decimal.NewFromInt(1000),
		Categories: []report.CategoryStat{
			{Category: "Food & Dining", Amount: decimal.NewFromInt(600), Percent: 60},
			{Category: "Shopping", Amount: decimal.NewFromInt(400), Percent: 40},
		},
	}

	first := r.MonthlyReport(rep).Text
	second := r.MonthlyReport(rep).Text
	if first != second {
		t.Error("identical reports rendered differently")
	}
}

func TestStatisticsCarriesPhoto(t *testing.T) {
	r := newRenderer(t)
	png := []byte{0x89, 'P', 'N', 'G'}

	p := r.Statistics(report.MonthlyReport{Month: time.June, TotalExpense: decimal.NewFromInt(500)}, png)
	if len(p.Photo) == 0 {
		t.Fatal("statistics payload has no photo")
	}
	if !strings.Contains(p.Text, "6月支出統計") {
		t.Errorf("caption = %q", p.Text)
	}
}
