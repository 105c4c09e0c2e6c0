// Package parser turns free-form chat text into structured values.
//
// Nothing here returns errors for unrecognized input: a miss is a normal
// result (CmdUnknown, or ok == false) and the caller decides what to try
// next.
package parser

import (
	"strings"

	"moneebunny/internal/core"
)

// commandKeywords maps message keywords to command types. The list is
// scanned in order and the first keyword contained in the message wins,
// so more specific keywords belong ahead of broader ones.
var commandKeywords = []struct {
	keyword string
	cmd     core.CommandType
}{
	{"今日", core.CmdTodayExpense},
	{"今天", core.CmdTodayExpense},
	{"本日", core.CmdTodayExpense},

	{"本月", core.CmdMonthExpense},
	{"這個月", core.CmdMonthExpense},
	{"月支出", core.CmdMonthExpense},

	{"統計", core.CmdStatistics},
	{"報表", core.CmdStatistics},
	{"分析", core.CmdStatistics},

	{"幫助", core.CmdHelp},
	{"說明", core.CmdHelp},
	{"指令", core.CmdHelp},
	{"help", core.CmdHelp},
}

// ParseCommand classifies a message as a query command. It always returns
// a value; CmdUnknown means "not a command", not a failure.
func ParseCommand(message string) core.ParsedCommand {
	text := strings.ToLower(strings.TrimSpace(message))

	for _, e := range commandKeywords {
		if strings.Contains(text, e.keyword) {
			return core.ParsedCommand{Type: e.cmd}
		}
	}

	// Loose fallback: an expense-family token disambiguated by a
	// today-vs-month token.
	if strings.Contains(text, "支出") || strings.Contains(text, "花費") {
		if strings.Contains(text, "今") || strings.Contains(text, "天") {
			return core.ParsedCommand{Type: core.CmdTodayExpense}
		}
		if strings.Contains(text, "月") {
			return core.ParsedCommand{Type: core.CmdMonthExpense}
		}
	}

	return core.ParsedCommand{Type: core.CmdUnknown}
}
