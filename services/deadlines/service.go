package deadlines

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dueboard/lib/deadline"
	"dueboard/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/deadlines")

var (
	ErrNotFound = errors.New("no such record")
	// ErrInvalidRecord marks ingest rejections so callers can tell bad
	// input apart from storage failures.
	ErrInvalidRecord = errors.New("invalid record")
)

// RetentionHorizon is how long past-due records stay visible before the
// daily sweep drops them.
const RetentionHorizon = 30 * 24 * time.Hour

// BadgeSetter receives the recomputed due-soon count after every write
// that changes items. Implementations must not block.
type BadgeSetter interface {
	SetBadge(ctx context.Context, count int)
}

type Options struct {
	// optional; when nil the badge count is only logged
	Badge BadgeSetter
}

// Service is the reconciliation engine and the only writer of the
// persisted collection. Every operation is a serialized
// read-modify-write of the whole document: the host is genuinely
// concurrent (http handlers, daemons), so the engine carries its own
// mutual exclusion instead of assuming single-threaded dispatch.
type Service struct {
	store Store
	badge BadgeSetter
	bcast *broadcaster
	mu    sync.Mutex
}

func NewService(store Store, opts Options) *Service {
	return &Service{
		store: store,
		badge: opts.Badge,
		bcast: newBroadcaster(),
	}
}

// Subscribe attaches a listener to the advisory "data changed" feed.
func (s *Service) Subscribe() (string, <-chan struct{}) {
	return s.bcast.subscribe()
}

func (s *Service) Unsubscribe(id string) {
	s.bcast.unsubscribe(id)
}

func (s *Service) GetData(ctx context.Context) (deadline.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

// Ingest reconciles a scraped batch into the collection. Safe to call
// any number of times with the same batch; repeated identical deliveries
// are no-ops beyond the rewrite.
func (s *Service) Ingest(ctx context.Context, items []deadline.Record) error {
	ctx, span := tracer.Start(ctx, "Ingest")
	defer span.End()
	span.SetAttributes(attribute.Int("incoming", len(items)))

	for _, r := range items {
		if err := r.Validate(); err != nil {
			err = fmt.Errorf("%w: %s", ErrInvalidRecord, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	col.Items = Reconcile(col.Items, items)
	err = s.store.Save(ctx, col)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.afterItemsWrite(ctx, col)
	return nil
}

// ToggleDone is a point update of one record's done flag; every other
// field is left untouched.
func (s *Service) ToggleDone(ctx context.Context, id string, value bool) error {
	ctx, span := tracer.Start(ctx, "ToggleDone")
	defer span.End()
	span.SetAttributes(attribute.String("id", id), attribute.Bool("value", value))

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	found := false
	for i := range col.Items {
		if col.Items[i].ID == id {
			col.Items[i].Done = value
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	err = s.store.Save(ctx, col)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.afterItemsWrite(ctx, col)
	return nil
}

// MarkNotified flips notificationSent for the given ids in one write.
// Unknown ids are skipped; the flag is monotonic and never cleared here.
func (s *Service) MarkNotified(ctx context.Context, ids []string) error {
	ctx, span := tracer.Start(ctx, "MarkNotified")
	defer span.End()
	span.SetAttributes(attribute.Int("count", len(ids)))

	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for i := range col.Items {
		if wanted[col.Items[i].ID] {
			col.Items[i].NotificationSent = true
		}
	}

	err = s.store.Save(ctx, col)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.afterItemsWrite(ctx, col)
	return nil
}

// UpdateSettings shallow-merges a validated patch into the stored
// settings and returns the result.
func (s *Service) UpdateSettings(ctx context.Context, patch SettingsPatch) (deadline.Settings, error) {
	ctx, span := tracer.Start(ctx, "UpdateSettings")
	defer span.End()

	err := patch.Validate()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return deadline.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return deadline.Settings{}, err
	}

	patch.applyTo(&col.Settings)
	err = s.store.Save(ctx, col)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return deadline.Settings{}, err
	}

	return col.Settings, nil
}

// ClearAll resets the collection to its empty default.
func (s *Service) ClearAll(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "ClearAll")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	col := deadline.DefaultCollection()
	err := s.store.Save(ctx, col)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.afterItemsWrite(ctx, col)
	return nil
}

// Sweep drops records whose due date fell behind the retention horizon.
// Returns how many records were removed; zero removals skip the write.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	ctx, span := tracer.Start(ctx, "Sweep")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	cutoff := now.Add(-RetentionHorizon)
	kept := col.Items[:0:0]
	for _, r := range col.Items {
		if r.DueDate.Before(cutoff) {
			continue
		}
		kept = append(kept, r)
	}

	dropped := len(col.Items) - len(kept)
	span.SetAttributes(attribute.Int("dropped", dropped))
	if dropped == 0 {
		return 0, nil
	}
	if kept == nil {
		kept = []deadline.Record{}
	}

	col.Items = kept
	err = s.store.Save(ctx, col)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	s.afterItemsWrite(ctx, col)
	return dropped, nil
}

// BadgeCount reports the current due-soon count without mutating
// anything.
func (s *Service) BadgeCount(ctx context.Context, now time.Time) (int, error) {
	col, err := s.GetData(ctx)
	if err != nil {
		return 0, err
	}
	return deadline.BadgeCount(col.Items, now), nil
}

// afterItemsWrite runs the advisory side effects of a committed write:
// badge recount and change broadcast. Called with the mutex held; both
// paths must stay non-blocking.
func (s *Service) afterItemsWrite(ctx context.Context, col deadline.Collection) {
	count := deadline.BadgeCount(col.Items, timezone.Now())
	if s.badge != nil {
		s.badge.SetBadge(ctx, count)
	} else {
		slog.DebugContext(ctx, "badge recomputed", "count", count)
	}
	s.bcast.notify()
}
