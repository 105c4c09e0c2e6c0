package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneebunny/internal/amqp"
	"moneebunny/internal/charts"
	"moneebunny/internal/chat"
	"moneebunny/internal/config"
	"moneebunny/internal/export"
	"moneebunny/internal/lexicon"
	applog "moneebunny/internal/log"
	"moneebunny/internal/parser"
	"moneebunny/internal/reply"
	"moneebunny/internal/report"
	"moneebunny/internal/storage"
	"moneebunny/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.LevelFromEnv(),
		Component: "moneebunny-worker",
	})
	applog.SetDefault(logger)

	logger.Info("Starting moneebunny-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		lex, err = lexicon.Load(cfg.LexiconPath)
		if err != nil {
			logger.Error("Failed to load category lexicon", "error", err, "path", cfg.LexiconPath)
			os.Exit(1)
		}
	}

	agg := report.NewAggregator(store)
	render := reply.NewRenderer(lex)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sheet export is optional, alerts still flow without it
	var exporter worker.TransactionExporter
	if cfg.SheetExportEnabled() {
		sheets, err := export.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = sheets
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// Budget alerts reach users over the same bot the chat flow uses
	var messenger worker.Messenger
	if cfg.BotEnabled() {
		dispatcher := chat.NewDispatcher(store, agg, render, charts.NewGenerator(),
			parser.NewMessageParser(lex), nil, applog.ForComponent(logger, "chat"))
		bot, err := chat.NewBot(cfg.TelegramToken, dispatcher, applog.ForComponent(logger, "chat"))
		if err != nil {
			logger.Error("Failed to initialize Telegram bot", "error", err)
			os.Exit(1)
		}
		messenger = bot
		logger.Info("Budget alerts enabled")
	} else {
		logger.Info("Budget alerts disabled - no TELEGRAM_BOT_TOKEN provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	alertWorker := worker.NewAlertWorker(store, agg, render, messenger, exporter)

	logger.Info("Consuming transaction events", "queue", cfg.AMQPQueue)
	err = amqpClient.ConsumeTransactionEvents(ctx, func(msg *amqp.TransactionEventMessage) error {
		return alertWorker.HandleTransactionEvent(ctx, msg)
	})
	if err != nil && err != context.Canceled {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
