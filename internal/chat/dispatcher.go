// Package chat interprets inbound bot messages and produces replies.
//
// The Dispatcher is transport-agnostic: the Telegram adapter feeds it
// plain text and sends back whatever Payload it returns, so the whole
// interpretation pipeline is testable without a live chat connection.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"moneebunny/internal/charts"
	"moneebunny/internal/core"
	"moneebunny/internal/parser"
	"moneebunny/internal/reply"
	"moneebunny/internal/report"
	"moneebunny/internal/storage"
)

// EventPublisher announces recorded transactions to the worker queue.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, transactionID, userID string) error
}

type Dispatcher struct {
	store  storage.Store
	agg    *report.Aggregator
	render *reply.Renderer
	charts *charts.Generator
	parser *parser.MessageParser
	events EventPublisher // nil disables event publishing
	logger *slog.Logger
	now    func() time.Time
}

func NewDispatcher(store storage.Store, agg *report.Aggregator, render *reply.Renderer, gen *charts.Generator, msgParser *parser.MessageParser, events EventPublisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		agg:    agg,
		render: render,
		charts: gen,
		parser: msgParser,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// HandleMessage interprets one inbound text message. Interpretation is
// ordered: query commands win over transaction forms, and anything that
// matches neither gets the fallback reply. Unknown chats are registered
// on first contact.
func (d *Dispatcher) HandleMessage(ctx context.Context, chatID int64, displayName, text string) (reply.Payload, error) {
	link, created, err := d.EnsureLink(ctx, chatID, displayName)
	if err != nil {
		return reply.Payload{}, fmt.Errorf("resolve chat user: %w", err)
	}
	if created {
		d.logger.InfoContext(ctx, "registered new chat user",
			"chat_id", chatID, "user_id", link.UserID)
	}

	if cmd := parser.ParseCommand(text); cmd.Type != core.CmdUnknown {
		return d.handleCommand(ctx, link.UserID, cmd.Type)
	}

	if parsed, ok := d.parser.ParseTransactionMessage(text); ok {
		return d.recordTransaction(ctx, link.UserID, parsed)
	}

	return d.render.Unrecognized(), nil
}

// HandleStart greets the chat user, registering them if needed.
func (d *Dispatcher) HandleStart(ctx context.Context, chatID int64, displayName string) (reply.Payload, error) {
	link, created, err := d.EnsureLink(ctx, chatID, displayName)
	if err != nil {
		return reply.Payload{}, fmt.Errorf("resolve chat user: %w", err)
	}
	if created {
		d.logger.InfoContext(ctx, "registered new chat user",
			"chat_id", chatID, "user_id", link.UserID)
	}
	return d.render.Welcome(link.DisplayName), nil
}

// EnsureLink returns the chat link for chatID, creating a user account
// and link on first contact.
func (d *Dispatcher) EnsureLink(ctx context.Context, chatID int64, displayName string) (core.ChatLink, bool, error) {
	link, err := d.store.GetChatLink(ctx, chatID)
	if err == nil {
		return link, false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.ChatLink{}, false, err
	}

	now := d.now()
	first, last, _ := strings.Cut(strings.TrimSpace(displayName), " ")
	user := core.User{
		ID:        core.NewID(),
		Email:     fmt.Sprintf("chat_%d@moneebunny.local", chatID),
		FirstName: first,
		LastName:  last,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.store.CreateUser(ctx, &user); err != nil {
		return core.ChatLink{}, false, fmt.Errorf("create chat user account: %w", err)
	}

	link = core.ChatLink{
		ChatID:      chatID,
		UserID:      user.ID,
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   now,
	}
	if err := d.store.CreateChatLink(ctx, &link); err != nil {
		return core.ChatLink{}, false, fmt.Errorf("create chat link: %w", err)
	}
	return link, true, nil
}

func (d *Dispatcher) handleCommand(ctx context.Context, userID string, cmd core.CommandType) (reply.Payload, error) {
	now := d.now()

	switch cmd {
	case core.CmdTodayExpense:
		rep, err := d.agg.DailyTotal(ctx, userID, now)
		if err != nil {
			return reply.Payload{}, err
		}
		return d.render.DailyReport(rep), nil

	case core.CmdMonthExpense:
		rep, err := d.agg.MonthlyBreakdown(ctx, userID, now.Year(), now.Month())
		if err != nil {
			return reply.Payload{}, err
		}
		return d.render.MonthlyReport(rep), nil

	case core.CmdStatistics:
		rep, err := d.agg.MonthlyBreakdown(ctx, userID, now.Year(), now.Month())
		if err != nil {
			return reply.Payload{}, err
		}
		png, err := d.charts.CategoryPie(rep)
		if err != nil {
			d.logger.ErrorContext(ctx, "chart render failed", "error", err)
			png = nil
		}
		if png == nil {
			// nothing to draw, fall back to the text breakdown
			return d.render.MonthlyReport(rep), nil
		}
		return d.render.Statistics(rep, png), nil

	case core.CmdHelp:
		return d.render.Help(), nil
	}

	return d.render.Unrecognized(), nil
}

func (d *Dispatcher) recordTransaction(ctx context.Context, userID string, parsed core.ParsedTransaction) (reply.Payload, error) {
	now := d.now()
	category := parsed.Category
	if category == "" {
		category = core.DefaultCategory
	}

	tx := core.Transaction{
		ID:          core.NewID(),
		UserID:      userID,
		Type:        parsed.Direction,
		Amount:      decimal.NewFromInt(parsed.Amount),
		Category:    category,
		Description: parsed.Description,
		Date:        now,
		CreatedAt:   now,
	}
	if err := tx.Validate(); err != nil {
		return reply.Payload{}, fmt.Errorf("validate parsed transaction: %w", err)
	}
	if err := d.store.CreateTransaction(ctx, &tx); err != nil {
		return reply.Payload{}, fmt.Errorf("record transaction: %w", err)
	}

	if d.events != nil {
		// the reply must not depend on queue availability
		if err := d.events.PublishTransactionEvent(ctx, tx.ID, tx.UserID); err != nil {
			d.logger.WarnContext(ctx, "transaction event publish failed",
				"error", err, "transaction_id", tx.ID)
		}
	}

	monthTotal := decimal.Zero
	if tx.Type == core.Expense {
		total, err := d.agg.MonthlyCategoryTotal(ctx, userID, tx.Category, now)
		if err != nil {
			return reply.Payload{}, err
		}
		monthTotal = total
	} else {
		total, err := d.incomeCategoryTotal(ctx, userID, tx.Category, now)
		if err != nil {
			return reply.Payload{}, err
		}
		monthTotal = total
	}

	return d.render.TransactionRecorded(tx, monthTotal), nil
}

func (d *Dispatcher) incomeCategoryTotal(ctx context.Context, userID, category string, now time.Time) (decimal.Decimal, error) {
	start, end := report.MonthWindow(now.Year(), now.Month(), now.Location())
	sum, err := d.store.SumAmount(ctx, storage.TransactionFilter{
		UserID:   userID,
		Type:     core.Income,
		Category: category,
		From:     start,
		To:       end,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum category month income: %w", err)
	}
	return sum, nil
}
