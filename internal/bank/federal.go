package bank

import (
	"github.com/cleared-dev/stmtflow/internal/dates"
	"github.com/cleared-dev/stmtflow/internal/keyword"
)

const federalDate = `\d{1,2}-[A-Za-z]{3}-\d{4}`

// Federal prints each transaction across two lines:
//
//	22-MAY-2023 22-MAY-2023 UPI IN/314256789012/RAVI KUMAR
//	TFR S81234567 1,000.00 5,340.01 Cr
//
// The trailing Cr/Dr belongs to the running balance, not the row.
func Federal() *Profile {
	return newProfile(Profile{
		Name:    "federal",
		Display: "Federal Bank",
		Keywords: []Keyword{
			{"federal bank limited", 5},
			{"federal bank", 3},
			{"federal towers", 4},
			{"fdrl", 3},
			{"fdrlinbb", 4},
		},
		Bonuses: []Bonus{{"federal bank", "statement", 8}},
		Dates:   dates.DDMMMYYYY,
		Rules: []LineRule{
			rule("federal-single", 10, RoleTransaction,
				`(?i)^(?P<date>`+federalDate+`)\s+`+federalDate+`\s+(?P<desc>.+?)\s*TFR\s+(?P<ref>S\d+)\s+(?P<amount>`+amt+`)\s+(?P<balance>`+amt+`)\s+(?P<marker>Cr|Dr)$`),
			rule("federal-header", 20, RoleContext,
				`^(?P<date>`+federalDate+`)\s+`+federalDate+`\s+(?P<desc>.+)$`),
			rule("federal-tfr", 30, RoleContinuation,
				`(?i)^(?P<desc>.*?TFR\s+(?P<ref>[A-Z0-9]+))\s+(?P<amount>`+amt+`)\s+(?P<balance>`+amt+`)\s+(?P<marker>Cr|Dr)\b`),
		},
		// Newer e-statements use the columnar slash-date layout.
		Fallback: ptr(rule("federal-columnar", 90, RoleTransaction,
			`^(?P<date>`+slashDate+`)\s+(?P<desc>.+?)\s+(?P<ref>\d{8,})\s+`+slashDate+`\s+(?P<amount>`+amt+`)\s+(?P<balance>`+amt+`)$`).
			withDates(dates.SlashDayFirst)),
		MinLineLength: 15,
		DenyList: keyword.New(
			"corporate office", "statement of account", "opening balance", "closing balance",
			"grand total", "abbreviations used", "disclaimer", "communication address",
			"customer id", "branch name", "date value date", "particulars",
			"statement from", "statement period", "account open date",
		),
		TrustMarker: false,
	})
}
