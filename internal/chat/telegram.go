package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moneebunny/internal/reply"
)

// Bot is the Telegram long-polling adapter. It owns no interpretation
// logic; every message is handed to the Dispatcher.
type Bot struct {
	api        *tgbotapi.BotAPI
	dispatcher *Dispatcher
	logger     *slog.Logger
}

func NewBot(token string, dispatcher *Dispatcher, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect Telegram API: %w", err)
	}
	return &Bot{api: api, dispatcher: dispatcher, logger: logger}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.InfoContext(ctx, "telegram bot polling", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram update channel closed")
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				b.logger.ErrorContext(ctx, "update handling failed", "error", err)
			}
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return nil
	}

	chatID := msg.Chat.ID
	name := displayName(msg)

	var (
		payload reply.Payload
		err     error
	)
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			payload, err = b.dispatcher.HandleStart(ctx, chatID, name)
		case "help":
			payload, err = b.dispatcher.HandleMessage(ctx, chatID, name, "幫助")
		default:
			payload, err = b.dispatcher.HandleMessage(ctx, chatID, name, msg.CommandArguments())
		}
	} else {
		payload, err = b.dispatcher.HandleMessage(ctx, chatID, name, msg.Text)
	}
	if err != nil {
		b.sendText(chatID, "❌ 處理訊息時發生錯誤，請稍後再試")
		return err
	}

	return b.Send(chatID, payload)
}

// Send delivers a rendered payload to a chat. Photo payloads go out as
// a single photo message with the text as caption.
func (b *Bot) Send(chatID int64, payload reply.Payload) error {
	if len(payload.Photo) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
			Name:  "report.png",
			Bytes: payload.Photo,
		})
		photo.Caption = payload.Text
		if _, err := b.api.Send(photo); err != nil {
			return fmt.Errorf("send photo: %w", err)
		}
		return nil
	}
	return b.sendText(chatID, payload.Text)
}

func (b *Bot) sendText(chatID int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func displayName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	return strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
}
