package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dueboard/lib/deadline"
	"dueboard/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/notifier")

// DefaultTickInterval is how often the scheduler scans when no interval
// is configured.
const DefaultTickInterval = 30 * time.Minute

// Engine is the slice of the reconciliation engine the scheduler needs.
type Engine interface {
	GetData(ctx context.Context) (deadline.Collection, error)
	MarkNotified(ctx context.Context, ids []string) error
}

type Service struct {
	engine   Engine
	delivery Notifier
	interval time.Duration
}

type Options struct {
	// zero means DefaultTickInterval
	TickInterval time.Duration
}

func NewService(engine Engine, delivery Notifier, opts Options) *Service {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Service{
		engine:   engine,
		delivery: delivery,
		interval: interval,
	}
}

// RunOnce performs one scheduler pass. Every record whose due date falls
// inside the due-soon window and has not been reminded about yet gets a
// delivery attempt, then the whole pass is flushed as one flag write.
// A failed delivery is logged and still counts as handled: the flag is
// set regardless so the record never fires twice.
func (s *Service) RunOnce(ctx context.Context, now time.Time) error {
	ctx, span := tracer.Start(ctx, "RunOnce")
	defer span.End()

	col, err := s.engine.GetData(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if !col.Settings.NotificationsEnabled {
		return nil
	}

	cutoff := now.Add(time.Duration(col.Settings.NotificationHours * float64(time.Hour)))
	var handled []string
	for _, r := range col.Items {
		if r.NotificationSent {
			continue
		}
		if r.DueDate.Before(now) || r.DueDate.After(cutoff) {
			continue
		}

		err := s.delivery.Notify(ctx, r.ID, r.Title, ComposeBody(r, now))
		if err != nil {
			span.RecordError(err)
			slog.WarnContext(ctx, "reminder delivery failed",
				"id", r.ID, "err", err)
		}
		handled = append(handled, r.ID)
	}

	span.SetAttributes(attribute.Int("handled", len(handled)))
	if len(handled) == 0 {
		return nil
	}
	return s.engine.MarkNotified(ctx, handled)
}

// ComposeBody renders the remaining-time phrase for a reminder.
func ComposeBody(r deadline.Record, now time.Time) string {
	remaining := r.DueDate.Sub(now)
	course := r.Course

	switch {
	case remaining >= 24*time.Hour:
		days := int(remaining / (24 * time.Hour))
		return fmt.Sprintf("%s is due in %d day%s", course, days, plural(days))
	case remaining >= time.Hour:
		hours := int(remaining / time.Hour)
		return fmt.Sprintf("%s is due in %d hour%s", course, hours, plural(hours))
	default:
		return fmt.Sprintf("%s is due soon", course)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// RunDaemon ticks RunOnce on the configured interval until the context
// ends. Scan failures are logged and the next tick tries again.
func (s *Service) RunDaemon(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.RunOnce(ctx, timezone.Now())
			if err != nil {
				slog.ErrorContext(ctx, "notification pass failed", "err", err)
			}
		}
	}
}
