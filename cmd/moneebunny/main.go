package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"moneebunny/internal/amqp"
	"moneebunny/internal/cache"
	"moneebunny/internal/charts"
	"moneebunny/internal/chat"
	"moneebunny/internal/config"
	apphttp "moneebunny/internal/http"
	"moneebunny/internal/lexicon"
	applog "moneebunny/internal/log"
	"moneebunny/internal/middleware/ratelimit"
	"moneebunny/internal/parser"
	"moneebunny/internal/reply"
	"moneebunny/internal/report"
	"moneebunny/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.LevelFromEnv(),
		Component: "moneebunny",
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
		logger.Error("Database migration failed", "error", err, "path", cfg.SQLiteDBPath)
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
		logger.Info("Loaded category lexicon", "path", cfg.LexiconPath)
	}

	agg := report.NewAggregator(store)
	render := reply.NewRenderer(lex)
	msgParser := parser.NewMessageParser(lex)

	// Event publishing is best effort, the API keeps serving without it
	var events chat.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, transaction events disabled", "error", err)
		} else {
			defer amqpClient.Close()
			events = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	}

	auth := apphttp.NewAuth(cfg.JWTSecret)
	handlers := apphttp.NewHandlers(store, agg, auth, applog.ForComponent(logger, "http"))

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: cfg.AuthRequestsPerMinute,
	})
	defer limiter.Stop()

	cacheMgr := cache.NewManager()
	cacheMgr.Register(handlers.ReportCache())
	cacheMgr.StartCleanup(time.Minute)
	defer cacheMgr.Stop()

	srv := apphttp.NewServer(":"+cfg.Port,
		apphttp.NewRouter(handlers, auth, limiter),
		applog.ForComponent(logger, "http"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(ctx)
	})

	if cfg.BotEnabled() {
		dispatcher := chat.NewDispatcher(store, agg, render, charts.NewGenerator(),
			msgParser, events, applog.ForComponent(logger, "chat"))
		bot, err := chat.NewBot(cfg.TelegramToken, dispatcher, applog.ForComponent(logger, "chat"))
		if err != nil {
			logger.Error("Failed to initialize Telegram bot", "error", err)
			os.Exit(1)
		}
		g.Go(func() error {
			return bot.Run(ctx)
		})
		logger.Info("Telegram bot started")
	} else {
		logger.Info("Telegram bot disabled - no TELEGRAM_BOT_TOKEN provided")
	}

	logger.Info("Starting moneebunny", "port", cfg.Port)
	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Service error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
