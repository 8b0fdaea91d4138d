package statement

import (
	"regexp"
	"time"

	"github.com/cleared-dev/stmtflow/internal/dates"
)

const datePat = `(\d{1,2}/\d{1,2}/\d{4})`

// labeled statement-date patterns, most specific first. The period pattern
// captures start and end; the end date is used.
var labeledDates = []*regexp.Regexp{
	regexp.MustCompile(`(?i)date of issue\s*:?\s*` + datePat),
	regexp.MustCompile(`(?i)statement date\s*:?\s*` + datePat),
	regexp.MustCompile(`(?i)generated on\s*:?\s*` + datePat),
	regexp.MustCompile(`(?i)` + datePat + `\s+to\s+` + datePat),
	regexp.MustCompile(`(?i)as on\s*:?\s*` + datePat),
	regexp.MustCompile(`(?i)\bdate\s*:?\s*` + datePat),
}

var anyDate = regexp.MustCompile(`\b` + datePat + `\b`)

var dayFirst = dates.Convention{Name: "DD/MM/YYYY", Layouts: []string{"2/1/2006"}}

// ResolveDate extracts the statement reference date: a labeled issue,
// period-end or "as on" date, else the latest dd/mm/yyyy date in the text.
func ResolveDate(text string) (time.Time, bool) {
	for _, re := range labeledDates {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[len(m)-1]
		if t, ok := dates.Resolve(raw, dayFirst); ok {
			return t, true
		}
	}

	var latest time.Time
	for _, m := range anyDate.FindAllStringSubmatch(text, -1) {
		t, ok := dates.Resolve(m[1], dayFirst)
		if ok && t.After(latest) {
			latest = t
		}
	}
	return latest, !latest.IsZero()
}
