// Package datetext turns loosely formatted due-date fragments scraped
// from course pages into absolute instants. It is pure: callers pass the
// reference instant and results come back in timezone.Location.
package datetext

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dueboard/lib/timezone"

	"github.com/araddon/dateparse"
)

// ErrUnrecognized means the fragment held nothing parseable as a date.
// Callers must drop the candidate, never substitute "now" or the epoch.
var ErrUnrecognized = errors.New("unrecognized date text")

var referenceMonths = []string{
	"january",
	"february",
	"march",
	"april",
	"may",
	"june",
	"july",
	"august",
	"september",
	"october",
	"november",
	"december",
}

func parseMonth(text string) time.Month {
	text = strings.ToLower(text)
	for i, month := range referenceMonths {
		if strings.Contains(month, text) {
			return time.January + time.Month(i)
		}
	}
	return -1
}

var (
	noiseRegex   = regexp.MustCompile(`(?i)\b(due|until|pst|pdt|mst|mdt|cst|cdt|est|edt|utc|gmt|pt|mt|ct|et)\b|@`)
	spaceRegex   = regexp.MustCompile(`\s+`)
	clockRegex   = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*([ap])\.?m?\.?\b|\b(\d{1,2}):(\d{2})\b`)
	weekdayRegex = regexp.MustCompile(`(?i)\b(?:sun|mon|tue|wed|thu|fri|sat)[a-z]*,?\s+([A-Za-z]{3,9})\.?\s*(\d{1,2})\b`)
	monthDay     = regexp.MustCompile(`(?i)\b([A-Za-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	slashDate    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	isoDate      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

type clock struct {
	hour, minute int
	found        bool
}

func extractClock(text string) (clock, string) {
	m := clockRegex.FindStringSubmatchIndex(text)
	if m == nil {
		return clock{}, text
	}

	sub := clockRegex.FindStringSubmatch(text)
	var hourStr, minStr, meridiem string
	if sub[1] != "" {
		hourStr, minStr, meridiem = sub[1], sub[2], strings.ToLower(sub[3])
	} else {
		hourStr, minStr = sub[4], sub[5]
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour > 23 {
		return clock{}, text
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil || minute > 59 {
		return clock{}, text
	}

	if meridiem == "p" && hour != 12 {
		hour += 12
	}
	if meridiem == "a" && hour == 12 {
		hour = 0
	}

	// cut the matched clock out so it cannot confuse date scanning
	rest := text[:m[0]] + " " + text[m[1]:]
	return clock{hour: hour, minute: minute, found: true}, rest
}

func clean(fragment string) string {
	s := noiseRegex.ReplaceAllString(fragment, " ")
	s = spaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func atClock(year int, month time.Month, day int, c clock) time.Time {
	if c.found {
		return time.Date(year, month, day, c.hour, c.minute, 0, 0, timezone.Location)
	}
	return time.Date(year, month, day, 23, 59, 0, 0, timezone.Location)
}

// resolveYearless builds an instant from a month/day lacking a year:
// assignments are upcoming, so a date already behind the reference
// instant rolls forward to the next year.
func resolveYearless(now time.Time, month time.Month, day int, c clock) time.Time {
	t := atClock(now.Year(), month, day, c)
	if t.Before(now) {
		t = atClock(now.Year()+1, month, day, c)
	}
	return t
}

// Normalize parses a free-text due-date fragment relative to now.
//
// The precedence chain is fixed: noise stripping, relative-day literals,
// clock extraction, structural calendar shapes (weekday-month-day,
// month-day, MM/DD with optional year, YYYY-MM-DD), then a
// general-purpose parse as the last resort.
func Normalize(fragment string, now time.Time) (time.Time, error) {
	now = now.In(timezone.Location)
	s := clean(fragment)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, fragment)
	}

	c, s := extractClock(s)
	lower := strings.ToLower(s)

	if strings.Contains(lower, "today") || strings.Contains(lower, "tomorrow") {
		day := now.Day()
		if strings.Contains(lower, "tomorrow") {
			day++
		}
		if c.found {
			return time.Date(now.Year(), now.Month(), day, c.hour, c.minute, 0, 0, timezone.Location), nil
		}
		return time.Date(now.Year(), now.Month(), day, 23, 59, 59, 0, timezone.Location), nil
	}

	if m := weekdayRegex.FindStringSubmatch(s); m != nil {
		month := parseMonth(m[1])
		day, err := strconv.Atoi(m[2])
		if month > 0 && err == nil && day >= 1 && day <= 31 {
			return resolveYearless(now, month, day, c), nil
		}
	}

	for _, m := range monthDay.FindAllStringSubmatch(s, -1) {
		month := parseMonth(m[1])
		if month <= 0 {
			continue
		}
		day, err := strconv.Atoi(m[2])
		if err != nil || day < 1 || day > 31 {
			continue
		}
		return resolveYearless(now, month, day, c), nil
	}

	if m := slashDate.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			if m[3] == "" {
				return resolveYearless(now, time.Month(month), day, c), nil
			}
			year, _ := strconv.Atoi(m[3])
			if year < 100 {
				if year < 50 {
					year += 2000
				} else {
					year += 1900
				}
			}
			return atClock(year, time.Month(month), day, c), nil
		}
	}

	if m := isoDate.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return atClock(year, time.Month(month), day, c), nil
		}
	}

	parsed, err := dateparse.ParseIn(s, timezone.Location)
	if err != nil || parsed.Year() < 1971 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, fragment)
	}
	if !c.found {
		parsed = time.Date(
			parsed.Year(), parsed.Month(), parsed.Day(),
			23, 59, 59, int(999*time.Millisecond), timezone.Location,
		)
	}
	return parsed, nil
}
