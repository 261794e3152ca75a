// Package dateutils parses the date-like period labels used in budget exports.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts accepted for period labels
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutSwiss    = "02.01.2006"
	DateLayoutISOMonth = "2006-01"
	DateLayoutMonth    = "01.2006"
)

// PeriodFormats is tried in order by ParsePeriod. Month-only layouts resolve to the
// first day of the month.
var PeriodFormats = []string{
	DateLayoutISO,
	DateLayoutSwiss,
	DateLayoutISOMonth,
	DateLayoutMonth,
	"2.1.2006",
	"2006/01/02",
	"2006/01",
	"01/2006",
	"January 2006",
	"Jan 2006",
	"2 January 2006",
	"02 Jan 2006",
}

var spaces = regexp.MustCompile(`\s+`)

// CleanDateString trims s and collapses inner whitespace.
func CleanDateString(s string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ParsePeriod parses a period label such as "2025-03", "31.01.2025" or "Mar 2025".
func ParsePeriod(label string) (time.Time, error) {
	clean := CleanDateString(label)
	for _, layout := range PeriodFormats {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse period date: %s", label)
}

// ParsePeriods parses every label. ok is false as soon as one label is not a date.
func ParsePeriods(labels []string) (map[string]time.Time, bool) {
	out := make(map[string]time.Time, len(labels))
	for _, l := range labels {
		t, err := ParsePeriod(l)
		if err != nil {
			return nil, false
		}
		out[l] = t
	}
	return out, true
}

// ToISODate formats date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
