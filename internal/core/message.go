package core

// CommandType classifies a chat query command.
type CommandType string

const (
	CmdTodayExpense CommandType = "TODAY_EXPENSE"
	CmdMonthExpense CommandType = "MONTH_EXPENSE"
	CmdStatistics   CommandType = "STATISTICS"
	CmdHelp         CommandType = "HELP"
	CmdUnknown      CommandType = "UNKNOWN"
)

// ParsedCommand is the result of classifying an inbound message as a query.
// CmdUnknown is the no-match sentinel, not a failure.
type ParsedCommand struct {
	Type CommandType
}

// ParsedTransaction is a financial record extracted from free text,
// not yet persisted. Amount is a whole number of currency units;
// the chat grammar accepts no decimals.
type ParsedTransaction struct {
	Direction   Direction
	Amount      int64
	Category    string // empty when no lexicon keyword matched
	Description string // empty when the message carried no remainder
}
