package deadlines

import (
	"context"
	"log/slog"
	"time"

	"dueboard/lib/timezone"
)

// sweepHour is the local hour at which the retention sweep fires.
const sweepHour = 3

// RunSweepDaemon runs the retention sweep once a day in the small hours.
// The ticker fires hourly and the hour gate picks the slot, so a restart
// never double-runs the sweep within the same hour.
func (s *Service) RunSweepDaemon(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := timezone.Now()
			if now.Hour() != sweepHour {
				continue
			}
			dropped, err := s.Sweep(ctx, now)
			if err != nil {
				slog.ErrorContext(ctx, "retention sweep failed", "err", err)
				continue
			}
			if dropped > 0 {
				slog.InfoContext(ctx, "retention sweep", "dropped", dropped)
			}
		}
	}
}
