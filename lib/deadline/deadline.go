// Package deadline holds the record and settings shapes shared by the
// extractors, the reconciliation engine and the api surface. The JSON
// form doubles as the on-disk schema, so field names and the epoch
// millisecond encoding of dueDate must stay backward-readable.
package deadline

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"dueboard/lib/timezone"
)

type Source string

const (
	SourceGradescope   Source = "gradescope"
	SourcePrairieLearn Source = "prairielearn"
)

// UnknownCourse is the sentinel used when course-name resolution fails.
const UnknownCourse = "Unknown Course"

type Record struct {
	ID      string
	Title   string
	DueDate time.Time
	Course  string
	Link    string
	Source  Source
	// Done is user-controlled and sticky across re-scrapes.
	Done bool
	// NotificationSent is system-controlled, sticky and monotonic:
	// once true it never resets for the same id.
	NotificationSent bool
}

type recordJSON struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	DueDate          int64  `json:"dueDate"`
	Course           string `json:"course"`
	Link             string `json:"link"`
	Source           Source `json:"source"`
	Done             bool   `json:"done"`
	NotificationSent bool   `json:"notificationSent"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		ID:               r.ID,
		Title:            r.Title,
		DueDate:          r.DueDate.UnixMilli(),
		Course:           r.Course,
		Link:             r.Link,
		Source:           r.Source,
		Done:             r.Done,
		NotificationSent: r.NotificationSent,
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	*r = Record{
		ID:               raw.ID,
		Title:            raw.Title,
		DueDate:          time.UnixMilli(raw.DueDate).In(timezone.Location),
		Course:           raw.Course,
		Link:             raw.Link,
		Source:           raw.Source,
		Done:             raw.Done,
		NotificationSent: raw.NotificationSent,
	}
	return nil
}

// Validate reports whether the record satisfies the construction
// invariants: non-empty id and title, a real due instant. The wire form
// carries dueDate as epoch millis, so an omitted or zero field arrives
// as the epoch instant rather than time.Time's zero value; non-positive
// millis are rejected for the same reason IsZero is.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("record has no id")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("record %q has no title", r.ID)
	}
	if r.DueDate.IsZero() || r.DueDate.UnixMilli() <= 0 {
		return fmt.Errorf("record %q has no due date", r.ID)
	}
	return nil
}

type Settings struct {
	NotificationsEnabled bool    `json:"notificationsEnabled"`
	NotificationHours    float64 `json:"notificationHours"`
}

func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		NotificationHours:    24,
	}
}

// Collection is the whole persisted document.
type Collection struct {
	Items    []Record `json:"items"`
	Settings Settings `json:"settings"`
}

func DefaultCollection() Collection {
	return Collection{
		Items:    []Record{},
		Settings: DefaultSettings(),
	}
}

// BadgeWindow is the fixed lookahead of the badge count.
const BadgeWindow = 24 * time.Hour

// BadgeCount counts records with a due date in [now, now+24h).
func BadgeCount(items []Record, now time.Time) int {
	cutoff := now.Add(BadgeWindow)
	count := 0
	for _, r := range items {
		if !r.DueDate.Before(now) && r.DueDate.Before(cutoff) {
			count++
		}
	}
	return count
}

// SortByDue orders records ascending by due date, breaking ties by id so
// reconciliation output is deterministic.
func SortByDue(items []Record) {
	slices.SortFunc(items, func(a, b Record) int {
		au := a.DueDate.UnixMilli()
		bu := b.DueDate.UnixMilli()
		if au < bu {
			return -1
		}
		if au > bu {
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
}
