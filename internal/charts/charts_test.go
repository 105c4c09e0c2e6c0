package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneebunny/internal/report"
)

var pngMagic = []byte{0x89, 0x50, 0x4e, 0x47}

func sampleReport() report.MonthlyReport {
	return report.MonthlyReport{
		Year:         2025,
		Month:        time.June,
		TotalExpense: decimal.NewFromInt(1000),
		TotalIncome:  decimal.NewFromInt(5000),
		Balance:      decimal.NewFromInt(4000),
		Categories: []report.CategoryStat{
			{Category: "Food & Dining", Amount: decimal.NewFromInt(600), Percent: 60},
			{Category: "Transportation", Amount: decimal.NewFromInt(395), Percent: 40},
			{Category: "Shopping", Amount: decimal.NewFromInt(5), Percent: 0},
		},
	}
}

func TestCategoryPie(t *testing.T) {
	png, err := NewGenerator().CategoryPie(sampleReport())
	if err != nil {
		t.Fatalf("CategoryPie error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestCategoryPieEmptyReport(t *testing.T) {
	png, err := NewGenerator().CategoryPie(report.MonthlyReport{})
	if err != nil {
		t.Fatalf("CategoryPie error: %v", err)
	}
	if png != nil {
		t.Error("expected nil bytes for empty report")
	}
}

func TestIncomeExpenseBars(t *testing.T) {
	png, err := NewGenerator().IncomeExpenseBars(sampleReport())
	if err != nil {
		t.Fatalf("IncomeExpenseBars error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}
