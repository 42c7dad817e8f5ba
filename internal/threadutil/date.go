// Package threadutil holds small date and timestamp helpers shared by the
// builder, continuation merger, and renderer — the parts of the pipeline
// that need to recognize or normalize a timestamp token without owning the
// line-classification regexes themselves.
package threadutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/solvaholic/slacknotes/internal/message"
)

var (
	weekdayNames = map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
		"saturday": time.Saturday,
	}
	monthNames = map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June, "july": time.July,
		"august": time.August, "september": time.September, "october": time.October,
		"november": time.November, "december": time.December,
	}

	monthDayYear = regexp.MustCompile(`^([A-Za-z]+) (\d{1,2})(?:st|nd|rd|th)?(?:,\s*(\d{4}))?$`)

	// recognizedTimestamp matches any of the timestamp shapes the classifier
	// recognizes at the start of a string: bare, AM/PM, bracketed, linked,
	// or dated.
	recognizedTimestamp = regexp.MustCompile(`^(\[?\d{1,2}:\d{2}(\s*[AP]M)?\]?|\[[A-Z][a-z]+ \d{1,2}(st|nd|rd|th)?(,\s*\d{4})? at \d{1,2}:\d{2}\s*[AP]M\])`)

	// anyTimestamp recognizes the same shapes anywhere in a block of text,
	// for tallying occurrences rather than testing a single token's prefix.
	anyTimestamp = regexp.MustCompile(`\[?\d{1,2}:\d{2}(\s*[AP]M)?\]?|\[[A-Z][a-z]+ \d{1,2}(st|nd|rd|th)?(,\s*\d{4})? at \d{1,2}:\d{2}\s*[AP]M\]`)
)

// ParseDateSeparator interprets an IS_DATE_SEPARATOR line's text — a weekday
// name, "Today"/"Yesterday", or "Month D[, YYYY]" — against now, returning
// the resolved calendar date. Unrecognized separators leave the previous
// context's date in place (propagation, per spec.md §9's resolved Open
// Question: a date separator that can't be parsed shouldn't erase context
// that's already anchored).
func ParseDateSeparator(token string, fallback *message.CalendarDate) *message.CalendarDate {
	now := time.Now()
	t := strings.TrimSpace(token)

	switch strings.ToLower(t) {
	case "today":
		return dateOf(now)
	case "yesterday":
		return dateOf(now.AddDate(0, 0, -1))
	}

	if wd, ok := weekdayNames[strings.ToLower(t)]; ok {
		d := now
		for d.Weekday() != wd {
			d = d.AddDate(0, 0, -1)
		}
		return dateOf(d)
	}

	if m := monthDayYear.FindStringSubmatch(t); m != nil {
		if mo, ok := monthNames[strings.ToLower(m[1])]; ok {
			day, _ := strconv.Atoi(m[2])
			year := now.Year()
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
			}
			return &message.CalendarDate{Year: year, Month: int(mo), Day: day}
		}
	}

	return fallback
}

func dateOf(t time.Time) *message.CalendarDate {
	return &message.CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// LooksLikeTimestampToken reports whether s begins with a timestamp pattern
// the classifier recognizes. Used by the continuation merger's candidacy
// test, which must fire on the raw captured token regardless of whether
// parseSlackTimes has already normalized it for display (spec.md §9).
func LooksLikeTimestampToken(s string) bool {
	return recognizedTimestamp.MatchString(strings.TrimSpace(s))
}

// CountTimestamps returns the number of timestamp-shaped tokens found
// anywhere in text, for the catastrophic-fallback summary line.
func CountTimestamps(text string) int {
	return len(anyTimestamp.FindAllString(text, -1))
}

// NormalizeTimestamp renders raw into a canonical "3:04 PM" display form
// when it can be parsed. tz (IANA name; empty means host-local) is the
// location the clock time is parsed in; no conversion is made, so the
// displayed time is the same for every tz.
// On any parse failure it returns raw unchanged, matching the data model's
// "normalized but may be the raw token on failure" contract (spec.md §3).
func NormalizeTimestamp(raw string, tz string) string {
	cleaned := strings.Trim(raw, "[]")
	cleaned = stripTrailingLink(cleaned)

	loc := time.Local
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{"3:04 PM", "15:04"} {
		if parsed, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return parsed.Format("3:04 PM")
		}
	}

	if m := regexp.MustCompile(`at (\d{1,2}:\d{2}\s*[AP]M)$`).FindStringSubmatch(cleaned); m != nil {
		if parsed, err := time.ParseInLocation("3:04 PM", m[1], loc); err == nil {
			return parsed.Format("3:04 PM")
		}
	}

	return raw
}

func stripTrailingLink(s string) string {
	if i := strings.Index(s, "]("); i >= 0 {
		return s[:i]
	}
	return s
}
