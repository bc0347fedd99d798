package deadlines

import (
	"dueboard/lib/deadline"
)

// Reconcile folds a freshly scraped batch into the existing collection.
//
// Matching is by id. A matched incoming record wins on every field except
// the two sticky flags (done, notificationSent), which are copied forward
// from the stored record. Existing records the batch did not mention are
// kept untouched. The result is re-sorted ascending by due date.
//
// This is a full replace-by-id merge, not a patch: a degraded re-scrape
// that resolved a worse title/course/link still overwrites the stored
// values. Known sharp edge; the next good scrape repairs it.
func Reconcile(existing, incoming []deadline.Record) []deadline.Record {
	byID := make(map[string]deadline.Record, len(existing)+len(incoming))
	for _, r := range existing {
		byID[r.ID] = r
	}

	for _, in := range incoming {
		if prev, ok := byID[in.ID]; ok {
			in.Done = prev.Done
			in.NotificationSent = prev.NotificationSent
		}
		byID[in.ID] = in
	}

	out := make([]deadline.Record, 0, len(byID))
	for _, r := range byID {
		out = append(out, r)
	}
	deadline.SortByDue(out)
	return out
}
