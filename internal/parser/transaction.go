package parser

import (
	"regexp"
	"strconv"
	"strings"

	"moneebunny/internal/core"
	"moneebunny/internal/lexicon"
)

var (
	// "+5000 薪水" or "-50 飲料": sign decides direction, digits are the
	// amount, anything after is description.
	reSigned = regexp.MustCompile(`^([+-])(\d+)\s*(.*)$`)

	// "早餐 50" or "午餐 120 便當": leading word(s), a whole-token digit
	// run, optional remainder.
	reKeywordAmount = regexp.MustCompile(`^(.+?)\s+(\d+)(?:\s+(.*))?$`)

	// "50 早餐": digits first, remainder required.
	reAmountFirst = regexp.MustCompile(`^(\d+)\s+(.+)$`)
)

// MessageParser extracts transactions from free text against a lexicon.
type MessageParser struct {
	lex *lexicon.Table
}

func NewMessageParser(lex *lexicon.Table) *MessageParser {
	return &MessageParser{lex: lex}
}

// extractor attempts one message shape. ok is false when the shape does
// not apply; the caller then tries the next one.
type extractor func(text string) (core.ParsedTransaction, bool)

// ParseTransactionMessage tries the known message shapes in priority
// order and stops at the first hit. The order is load-bearing: the
// signed form must consume a leading sign before the amount-first form
// could misread it, and the keyword form must win over amount-first for
// texts like "午餐 120 便當".
func (p *MessageParser) ParseTransactionMessage(message string) (core.ParsedTransaction, bool) {
	text := strings.TrimSpace(message)
	if text == "" {
		return core.ParsedTransaction{}, false
	}

	for _, try := range []extractor{p.extractSigned, p.extractKeywordAmount, p.extractAmountFirst} {
		if tx, ok := try(text); ok {
			return tx, ok
		}
	}
	return core.ParsedTransaction{}, false
}

func (p *MessageParser) extractSigned(text string) (core.ParsedTransaction, bool) {
	m := reSigned.FindStringSubmatch(text)
	if m == nil {
		return core.ParsedTransaction{}, false
	}

	amount, ok := parseAmountDigits(m[2])
	if !ok {
		return core.ParsedTransaction{}, false
	}

	direction := core.Expense
	if m[1] == "+" {
		direction = core.Income
	}

	desc := strings.TrimSpace(m[3])
	category, _ := p.lex.InferCategory(desc)

	return core.ParsedTransaction{
		Direction:   direction,
		Amount:      amount,
		Category:    category,
		Description: desc,
	}, true
}

func (p *MessageParser) extractKeywordAmount(text string) (core.ParsedTransaction, bool) {
	m := reKeywordAmount.FindStringSubmatch(text)
	if m == nil {
		return core.ParsedTransaction{}, false
	}

	amount, ok := parseAmountDigits(m[2])
	if !ok {
		return core.ParsedTransaction{}, false
	}

	keyword := strings.TrimSpace(m[1])
	category, mapped := p.lex.Lookup(keyword)
	if !mapped {
		// Unmapped keywords become the category verbatim, keeping
		// user-invented buckets usable.
		category = keyword
	}

	direction := core.Expense
	if p.lex.IsIncomeKeyword(keyword) {
		direction = core.Income
	}

	return core.ParsedTransaction{
		Direction:   direction,
		Amount:      amount,
		Category:    category,
		Description: strings.TrimSpace(m[3]),
	}, true
}

func (p *MessageParser) extractAmountFirst(text string) (core.ParsedTransaction, bool) {
	m := reAmountFirst.FindStringSubmatch(text)
	if m == nil {
		return core.ParsedTransaction{}, false
	}

	amount, ok := parseAmountDigits(m[1])
	if !ok {
		return core.ParsedTransaction{}, false
	}

	rest := strings.TrimSpace(m[2])
	category, _ := p.lex.InferCategory(rest)

	return core.ParsedTransaction{
		Direction:   core.Expense,
		Amount:      amount,
		Category:    category,
		Description: rest,
	}, true
}

// parseAmountDigits converts a digit run into a positive amount.
// Zero and overflowing runs are treated as non-matches so the message
// falls through to the next shape (and ultimately to "not a transaction").
func parseAmountDigits(digits string) (int64, bool) {
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
