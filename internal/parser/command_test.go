package parser

import (
	"testing"

	"moneebunny/internal/core"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		message string
		want    core.CommandType
	}{
		{"今日支出", core.CmdTodayExpense},
		{"今天", core.CmdTodayExpense},
		{"本日", core.CmdTodayExpense},
		{"本月支出", core.CmdMonthExpense},
		{"這個月", core.CmdMonthExpense},
		{"統計", core.CmdStatistics},
		{"報表", core.CmdStatistics},
		{"幫助", core.CmdHelp},
		{"說明", core.CmdHelp},
		{"help", core.CmdHelp},
		{"HELP", core.CmdHelp},
		{"  幫助  ", core.CmdHelp},
		{"asdf", core.CmdUnknown},
		{"", core.CmdUnknown},
		{"早餐 50", core.CmdUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := ParseCommand(tt.message)
			if got.Type != tt.want {
				t.Errorf("ParseCommand(%q) = %s, want %s", tt.message, got.Type, tt.want)
			}
		})
	}
}

// Messages without a direct keyword still classify through the
// expense-token fallback.
func TestParseCommandFallback(t *testing.T) {
	tests := []struct {
		message string
		want    core.CommandType
	}{
		{"花費多少", core.CmdUnknown}, // expense token but no day/month hint
		{"天的花費", core.CmdTodayExpense},
		{"上月花費", core.CmdMonthExpense},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := ParseCommand(tt.message)
			if got.Type != tt.want {
				t.Errorf("ParseCommand(%q) = %s, want %s", tt.message, got.Type, tt.want)
			}
		})
	}
}
