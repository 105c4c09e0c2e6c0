// Package worker consumes transaction events off the queue and runs
// the slow follow-ups the chat reply must not wait on: budget alerts
// and the optional spreadsheet export.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneebunny/internal/amqp"
	"moneebunny/internal/core"
	"moneebunny/internal/reply"
	"moneebunny/internal/report"
	"moneebunny/internal/storage"
)

// Messenger pushes a rendered payload to a chat out of band.
type Messenger interface {
	Send(chatID int64, payload reply.Payload) error
}

// TransactionExporter appends a transaction to an external sheet.
type TransactionExporter interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) error
}

// AlertWorker recomputes budget status after each recorded expense and
// pushes an alert to the owning chat when a budget crosses into the
// warning or over band.
type AlertWorker struct {
	store     storage.Store
	agg       *report.Aggregator
	render    *reply.Renderer
	messenger Messenger           // nil disables chat alerts
	exporter  TransactionExporter // nil disables sheet export
	now       func() time.Time
}

func NewAlertWorker(store storage.Store, agg *report.Aggregator, render *reply.Renderer, messenger Messenger, exporter TransactionExporter) *AlertWorker {
	return &AlertWorker{
		store:     store,
		agg:       agg,
		render:    render,
		messenger: messenger,
		exporter:  exporter,
		now:       time.Now,
	}
}

// HandleTransactionEvent processes a single transaction event from AMQP
func (w *AlertWorker) HandleTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"transaction_id", msg.TransactionID,
		"user_id", msg.UserID)

	tx, err := w.store.GetTransaction(ctx, msg.TransactionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// deleted before the worker got to it, nothing to do
			slog.WarnContext(ctx, "Transaction gone, skipping event",
				"transaction_id", msg.TransactionID)
			return nil
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	if w.exporter != nil {
		if err := w.exporter.AppendTransaction(ctx, tx); err != nil {
			// export is best effort, alerts still run
			slog.ErrorContext(ctx, "Sheet export failed",
				"transaction_id", tx.ID, "error", err)
		}
	}

	if tx.Type != core.Expense || tx.BudgetID == "" {
		return nil
	}
	return w.checkBudgets(ctx, tx)
}

func (w *AlertWorker) checkBudgets(ctx context.Context, tx core.Transaction) error {
	reports, err := w.agg.BudgetStatuses(ctx, tx.UserID, w.now())
	if err != nil {
		return fmt.Errorf("compute budget statuses: %w", err)
	}

	var alerts []report.BudgetReport
	for _, r := range reports {
		// alert only on the budget this expense counts against
		if r.Band == report.BandOK || r.Budget.ID != tx.BudgetID {
			continue
		}
		alerts = append(alerts, r)
	}
	if len(alerts) == 0 {
		return nil
	}

	if w.messenger == nil {
		slog.WarnContext(ctx, "No messenger configured, dropping budget alerts",
			"count", len(alerts))
		return nil
	}

	link, err := w.chatFor(ctx, tx.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// API-only user with no linked chat
			return nil
		}
		return err
	}

	for _, r := range alerts {
		if err := w.messenger.Send(link.ChatID, w.render.BudgetAlert(r)); err != nil {
			slog.ErrorContext(ctx, "Budget alert delivery failed",
				"budget_id", r.Budget.ID, "chat_id", link.ChatID, "error", err)
			continue
		}
		slog.InfoContext(ctx, "Budget alert sent",
			"budget_id", r.Budget.ID,
			"band", string(r.Band),
			"percent", r.Percent)
	}
	return nil
}

func (w *AlertWorker) chatFor(ctx context.Context, userID string) (core.ChatLink, error) {
	link, err := w.store.GetChatLinkByUser(ctx, userID)
	if err != nil {
		return core.ChatLink{}, err
	}
	return link, nil
}
