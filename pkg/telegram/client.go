package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"workflow-runchart/pkg/config"
)

// Notifier sends alert messages to a chat.
type Notifier interface {
	SendMessage(text string) error
}

type client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewClient creates a Telegram notifier for the given bot and chat.
func NewClient(botToken string, chatID int64) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &client{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// NewNotifier returns a Telegram notifier when enabled, otherwise one that drops
// every message.
func NewNotifier(cfg config.Telegram) (Notifier, error) {
	if !cfg.Enabled {
		return nopNotifier{}, nil
	}
	return NewClient(cfg.BotToken, cfg.ChatID)
}

// SendMessage sends a Markdown message to the configured chat.
func (c *client) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := c.bot.Send(msg)
	return err
}

type nopNotifier struct{}

func (nopNotifier) SendMessage(string) error { return nil }
