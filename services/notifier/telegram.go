package notifier

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
)

// TelegramNotifier delivers reminders as Telegram messages to a fixed
// chat.
type TelegramNotifier struct {
	bot    *tgbot.Bot
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	b, err := tgbot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: b, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, id string, title string, body string) error {
	_, err := n.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: n.chatID,
		Text:   fmt.Sprintf("%s\n%s", title, body),
	})
	if err != nil {
		return fmt.Errorf("send telegram reminder for %s: %w", id, err)
	}
	return nil
}
