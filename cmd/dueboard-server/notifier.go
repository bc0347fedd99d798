package main

import (
	"time"

	"dueboard/services/notifier"
)

type NotifierConfig struct {
	// minutes between scheduler passes; 0 uses the default
	TickMinutes int `json:"tick_minutes"`

	Telegram TelegramConfig `json:"telegram"`
}

type TelegramConfig struct {
	Token  string `json:"token"`
	ChatID int64  `json:"chat_id"`
}

func (c NotifierConfig) TickInterval() time.Duration {
	return time.Duration(c.TickMinutes) * time.Minute
}

// InitNotifier picks the delivery channel: telegram when a token is
// configured, else the log fallback.
func InitNotifier(cfg NotifierConfig) (notifier.Notifier, error) {
	if cfg.Telegram.Token == "" {
		return notifier.LogNotifier{}, nil
	}
	return notifier.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
}
