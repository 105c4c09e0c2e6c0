// Package charts renders report data as PNG images for chat replies.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"moneebunny/internal/core"
	"moneebunny/internal/report"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// CategoryPie draws the month's expense distribution as a pie chart.
// Categories below 1% are dropped to keep the labels readable. Returns
// nil bytes when the report has nothing to draw.
func (g *Generator) CategoryPie(rep report.MonthlyReport) ([]byte, error) {
	if len(rep.Categories) == 0 || !rep.TotalExpense.IsPositive() {
		return nil, nil
	}

	total, _ := rep.TotalExpense.Float64()
	values := make([]chart.Value, 0, len(rep.Categories))
	for _, c := range rep.Categories {
		amount, _ := c.Amount.Float64()
		if amount/total*100 <= 1.0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%d%%)", c.Category, core.FormatAmount(c.Amount), c.Percent),
			Value: amount,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Title:  fmt.Sprintf("%d/%02d 支出分布", rep.Year, int(rep.Month)),
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buf := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render category pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

// IncomeExpenseBars compares the month's income, expenses, and balance
// as a three-bar chart.
func (g *Generator) IncomeExpenseBars(rep report.MonthlyReport) ([]byte, error) {
	income, _ := rep.TotalIncome.Float64()
	expense, _ := rep.TotalExpense.Float64()
	balance, _ := rep.Balance.Float64()
	if income == 0 && expense == 0 {
		return nil, nil
	}

	bars := []chart.Value{
		{
			Label: fmt.Sprintf("收入: %s", core.FormatAmount(rep.TotalIncome)),
			Value: income,
			Style: chart.Style{
				StrokeColor: chart.ColorGreen,
				FillColor:   chart.ColorGreen,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		},
		{
			Label: fmt.Sprintf("支出: %s", core.FormatAmount(rep.TotalExpense)),
			Value: expense,
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				FillColor:   chart.ColorRed,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		},
		{
			Label: fmt.Sprintf("結餘: %s", core.FormatAmount(rep.Balance)),
			Value: balance,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		},
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("%d/%02d 收支比較", rep.Year, int(rep.Month)),
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    900,
		Height:   600,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		Bars: bars,
	}

	buf := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render income expense chart: %w", err)
	}
	return buf.Bytes(), nil
}
