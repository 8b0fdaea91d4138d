package bank

import (
	"github.com/cleared-dev/stmtflow/internal/dates"
	"github.com/cleared-dev/stmtflow/internal/keyword"
)

// GenericName is the registry key of the fallback profile.
const GenericName = "generic"

var genericDates = dates.Convention{
	Name:    "DD/MM/YYYY",
	Layouts: []string{"2/1/2006", "2/1/06", "2-1-2006", "2-1-06", "1/2/2006"},
}

// Generic handles statements from banks without a dedicated profile. It
// relies on explicit Dr/Cr markers.
func Generic() *Profile {
	return newProfile(Profile{
		Name:    GenericName,
		Display: "Generic",
		Dates:   genericDates,
		Rules: []LineRule{
			rule("generic-dated", 10, RoleTransaction,
				`(?i)^(?P<date>\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(?P<desc>.+?)\s+(?P<amount>`+amt+`)\s+(?P<marker>Dr|Cr)\b`),
			rule("generic-balance", 20, RoleContinuation,
				`(?i)^(?P<desc>.+?)\s+(?P<amount>`+amt+`)\s+(?P<balance>`+amt+`)\s+(?P<marker>Dr|Cr)\b`),
		},
		Fallback: ptr(rule("generic-loose", 90, RoleTransaction,
			`^(?P<date>\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(?P<desc>.*?)\s*(?P<amount>`+signedAmt+`)(?:\s+(?P<balance>`+amt+`))?\D*$`)),
		MinLineLength: 15,
		DenyList: keyword.New(
			"statement of account", "opening balance", "closing balance", "account number",
			"grand total", "brought forward", "carried forward", "statement from",
			"statement period", "account open date",
		),
		TrustMarker: true,
	})
}
