// Package dates resolves bank-specific date tokens into calendar dates.
package dates

import (
	"strings"
	"time"
)

// Convention is an ordered list of Go time layouts a bank prints dates in.
// Order is priority: the first layout that parses wins.
type Convention struct {
	Name    string
	Layouts []string
}

// Built-in conventions.
var (
	// DDMMMYYYY is "22-MAY-2023".
	DDMMMYYYY = Convention{Name: "DD-MMM-YYYY", Layouts: []string{"2-Jan-2006"}}
	// DDMMYY is "01-08-23".
	DDMMYY = Convention{Name: "DD-MM-YY", Layouts: []string{"2-1-06"}}
	// DDMMYYYY is "01-08-2023".
	DDMMYYYY = Convention{Name: "DD-MM-YYYY", Layouts: []string{"2-1-2006"}}
	// SlashDayFirst is "27/06/24" or "27/06/2024", and only then "06/27/2024".
	// Day-first must precede month-first or "02/06/2023" reads as February 6.
	SlashDayFirst = Convention{Name: "DD/MM/YY", Layouts: []string{"2/1/06", "2/1/2006", "1/2/2006"}}
	// Tabular is the priority list for CSV and Excel uploads.
	Tabular = Convention{Name: "tabular", Layouts: []string{
		"2006-01-02",
		"2/1/2006",
		"2/1/06",
		"1/2/2006",
		"2-1-2006",
		"2 Jan 2006",
		"2-Jan-2006",
	}}
)

// fallbackLayouts are tried after a convention's own layouts.
var fallbackLayouts = []string{
	"2006-01-02",
	"2-1-2006",
	"2 Jan 2006",
}

// Resolve converts a raw date token using c, then the fixed fallbacks.
// ok is false when nothing parses; callers must not substitute a default.
func Resolve(raw string, c Convention) (time.Time, bool) {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range c.Layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Resolve is Resolve(raw, c).
func (c Convention) Resolve(raw string) (time.Time, bool) {
	return Resolve(raw, c)
}

// Format renders a date in ISO-8601 calendar form.
func Format(t time.Time) string {
	return t.Format("2006-01-02")
}
