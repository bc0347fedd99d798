// Package notifier delivers due-soon reminders for records entering the
// configured notification window, marking each record so it is never
// reminded about twice.
package notifier

import (
	"context"
	"log/slog"
)

// Notifier is a single delivery channel. Delivery failures are returned
// so the caller can decide whether to retry on a later pass.
type Notifier interface {
	Notify(ctx context.Context, id string, title string, body string) error
}

// LogNotifier writes reminders to the service log. It is the default
// channel when no external delivery is configured, which keeps the
// scheduler observable in development.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, id string, title string, body string) error {
	slog.InfoContext(ctx, "deadline reminder", "id", id, "title", title, "body", body)
	return nil
}
