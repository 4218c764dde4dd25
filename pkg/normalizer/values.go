// pkg/normalizer/values.go
package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Punctuation stripped from string cells. Dates and times keep their
// separators until parsed; spot lengths arrive as ":30" in some files.
var punctuationMarks = []string{":", "/", "$", ",", "'", "\""}

var whitespaceRE = regexp.MustCompile(`\s+`)

// collapseWhitespace trims the value and collapses internal whitespace
// runs to a single space.
func collapseWhitespace(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// stripPunctuation removes the known punctuation marks and redundant
// whitespace from a string cell.
func stripPunctuation(s string) string {
	for _, mark := range punctuationMarks {
		s = strings.ReplaceAll(s, mark, "")
	}
	return collapseWhitespace(s)
}

// Each post-log file ships dates in whatever format its traffic system
// produces, so parsing tries every layout seen to date. Market files
// carry the aired time inside the date cell, hence the datetime forms.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/06",
	"2006/01/02",
	"1-2-2006",
	"2006-1-2",
	"Jan 2, 2006",
	"2-Jan-06",
}

// parseDate coerces a date string to its date component (UTC midnight).
func parseDate(s string) (time.Time, error) {
	value := collapseWhitespace(s)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
	"3:04:05PM",
	"304PM",
	"1504",
	"150405",
}

// compactMeridiemRE matches the bare-meridiem form some traffic
// systems emit, e.g. "605A" for 6:05 AM.
var compactMeridiemRE = regexp.MustCompile(`^\d{3,6}[AP]$`)

// parseTime coerces a time-of-day string. The result carries only the
// time component; the date fields are the parse epoch.
func parseTime(s string) (time.Time, error) {
	value := strings.ToUpper(collapseWhitespace(s))
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	if compactMeridiemRE.MatchString(value) {
		value += "M"
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	// Market files sometimes carry a full datetime in the time cell.
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}

// parseLength coerces a spot length to whole seconds. Lengths arrive
// as "30", ":30", "00:30" or occasionally "30.0"; punctuation is
// stripped before conversion.
func parseLength(s string) (int, error) {
	value := stripPunctuation(s)
	if value == "" {
		return 0, fmt.Errorf("empty length value")
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int(f), nil
	}
	return 0, fmt.Errorf("unparseable length %q", s)
}
