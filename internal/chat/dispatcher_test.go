package chat

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneebunny/internal/charts"
	"moneebunny/internal/core"
	"moneebunny/internal/lexicon"
	"moneebunny/internal/parser"
	"moneebunny/internal/reply"
	"moneebunny/internal/report"
	"moneebunny/internal/storage"
)

var fixedNow = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	published []string
}

func (p *recordingPublisher) PublishTransactionEvent(ctx context.Context, transactionID, userID string) error {
	p.published = append(p.published, transactionID)
	return nil
}

func newDispatcher(t *testing.T) (*Dispatcher, storage.Store, *recordingPublisher) {
	t.Helper()

	store := storage.NewMemoryStore()
	lex := lexicon.Default()
	events := &recordingPublisher{}
	d := NewDispatcher(
		store,
		report.NewAggregator(store),
		reply.NewRenderer(lex),
		charts.NewGenerator(),
		parser.NewMessageParser(lex),
		events,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	d.now = func() time.Time { return fixedNow }
	return d, store, events
}

func TestHandleMessageRecordsExpense(t *testing.T) {
	d, store, events := newDispatcher(t)

	payload, err := d.HandleMessage(context.Background(), 42, "Test User", "午餐 120 便當")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}

	if !strings.Contains(payload.Text, "已記錄支出") {
		t.Errorf("reply missing confirmation:\n%s", payload.Text)
	}
	if !strings.Contains(payload.Text, "NT$120") {
		t.Errorf("reply missing amount:\n%s", payload.Text)
	}

	link, err := store.GetChatLink(context.Background(), 42)
	if err != nil {
		t.Fatalf("chat link not created: %v", err)
	}
	txs, err := store.ListTransactions(context.Background(), storage.TransactionFilter{UserID: link.UserID})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	tx := txs[0]
	if tx.Type != core.Expense {
		t.Errorf("type = %s, want EXPENSE", tx.Type)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("amount = %s, want 120", tx.Amount)
	}
	if tx.Category != "Food & Dining" {
		t.Errorf("category = %q, want Food & Dining", tx.Category)
	}
	if tx.Description != "便當" {
		t.Errorf("description = %q, want 便當", tx.Description)
	}

	if len(events.published) != 1 || events.published[0] != tx.ID {
		t.Errorf("published events = %v, want [%s]", events.published, tx.ID)
	}
}

func TestHandleMessageRecordsIncome(t *testing.T) {
	d, store, _ := newDispatcher(t)

	payload, err := d.HandleMessage(context.Background(), 42, "Test User", "+5000 薪水")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if !strings.Contains(payload.Text, "已記錄收入") {
		t.Errorf("reply missing income confirmation:\n%s", payload.Text)
	}

	link, _ := store.GetChatLink(context.Background(), 42)
	txs, _ := store.ListTransactions(context.Background(), storage.TransactionFilter{UserID: link.UserID})
	if len(txs) != 1 || txs[0].Type != core.Income {
		t.Fatalf("expected one income transaction, got %+v", txs)
	}
}

func TestHandleMessageCommandBeatsTransactionForm(t *testing.T) {
	d, store, events := newDispatcher(t)

	payload, err := d.HandleMessage(context.Background(), 42, "Test User", "今日支出")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if !strings.Contains(payload.Text, "今日尚無支出記錄") {
		t.Errorf("expected empty daily report, got:\n%s", payload.Text)
	}

	link, _ := store.GetChatLink(context.Background(), 42)
	txs, _ := store.ListTransactions(context.Background(), storage.TransactionFilter{UserID: link.UserID})
	if len(txs) != 0 {
		t.Errorf("command message must not create transactions, got %d", len(txs))
	}
	if len(events.published) != 0 {
		t.Errorf("command message must not publish events, got %v", events.published)
	}
}

func TestHandleMessageMonthlyReport(t *testing.T) {
	d, _, _ := newDispatcher(t)
	ctx := context.Background()

	if _, err := d.HandleMessage(ctx, 42, "Test User", "早餐 50"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := d.HandleMessage(ctx, 42, "Test User", "交通 30 公車"); err != nil {
		t.Fatalf("record: %v", err)
	}

	payload, err := d.HandleMessage(ctx, 42, "Test User", "本月支出")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	for _, want := range []string{"本月支出報表", "Food & Dining", "Transportation", "總計: NT$80"} {
		if !strings.Contains(payload.Text, want) {
			t.Errorf("monthly report missing %q:\n%s", want, payload.Text)
		}
	}
}

func TestHandleMessageStatisticsReturnsChart(t *testing.T) {
	d, _, _ := newDispatcher(t)
	ctx := context.Background()

	if _, err := d.HandleMessage(ctx, 42, "Test User", "午餐 120"); err != nil {
		t.Fatalf("record: %v", err)
	}

	payload, err := d.HandleMessage(ctx, 42, "Test User", "統計")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if len(payload.Photo) == 0 {
		t.Error("statistics reply has no chart")
	}
}

func TestHandleMessageStatisticsEmptyMonthFallsBackToText(t *testing.T) {
	d, _, _ := newDispatcher(t)

	payload, err := d.HandleMessage(context.Background(), 42, "Test User", "統計")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if len(payload.Photo) != 0 {
		t.Error("empty month should not produce a chart")
	}
	if !strings.Contains(payload.Text, "本月尚無支出記錄") {
		t.Errorf("expected empty-month text, got:\n%s", payload.Text)
	}
}

func TestHandleMessageHelp(t *testing.T) {
	d, _, _ := newDispatcher(t)

	payload, err := d.HandleMessage(context.Background(), 42, "Test User", "幫助")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if !strings.Contains(payload.Text, "記帳指令說明") {
		t.Errorf("help reply missing header:\n%s", payload.Text)
	}
}

func TestHandleMessageFallback(t *testing.T) {
	d, _, _ := newDispatcher(t)

	payload, err := d.HandleMessage(context.Background(), 42, "Test User", "hello world")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if !strings.Contains(payload.Text, "幫助") {
		t.Errorf("fallback reply should point at help:\n%s", payload.Text)
	}
}

func TestEnsureLinkIsIdempotent(t *testing.T) {
	d, store, _ := newDispatcher(t)
	ctx := context.Background()

	first, created, err := d.EnsureLink(ctx, 42, "Test User")
	if err != nil {
		t.Fatalf("EnsureLink error: %v", err)
	}
	if !created {
		t.Error("first contact should create the link")
	}

	second, created, err := d.EnsureLink(ctx, 42, "Renamed User")
	if err != nil {
		t.Fatalf("EnsureLink error: %v", err)
	}
	if created {
		t.Error("second contact must not create a new link")
	}
	if first.UserID != second.UserID {
		t.Errorf("user id changed between contacts: %s vs %s", first.UserID, second.UserID)
	}

	u, err := store.GetUserByID(ctx, first.UserID)
	if err != nil {
		t.Fatalf("auto-created user missing: %v", err)
	}
	if u.Email != "chat_42@moneebunny.local" {
		t.Errorf("email = %q", u.Email)
	}
}

func TestHandleStartWelcomesByName(t *testing.T) {
	d, _, _ := newDispatcher(t)

	payload, err := d.HandleStart(context.Background(), 42, "Test User")
	if err != nil {
		t.Fatalf("HandleStart error: %v", err)
	}
	if !strings.Contains(payload.Text, "Test User") {
		t.Errorf("welcome missing display name:\n%s", payload.Text)
	}
}
