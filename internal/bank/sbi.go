package bank

import (
	"github.com/cleared-dev/stmtflow/internal/dates"
	"github.com/cleared-dev/stmtflow/internal/keyword"
)

const (
	sbiAmt      = `\d[\d,]*\.?\d*`
	sbiLongDate = `\d{2}\s+[A-Za-z]{3}\s+\d{4}`
	sbiDate     = `\d{2}-\d{2}-\d{2,4}`
)

// SBI statements put debits and credits in separate columns with "-" for the
// empty one, so the column a figure lands in decides the direction:
//
//	100.00 - 01 JUN 2024 TRANSFER TO 4897695162091 -UPI/DR/415388277978/MOHAMMAD 9.13
//	- 500.00 03 JUN 2024 TRANSFER FROM 4897695162091 -UPI/CR/4153/RAVI 509.13
func SBI() *Profile {
	return newProfile(Profile{
		Name:    "sbi",
		Display: "State Bank of India",
		Keywords: []Keyword{
			{"state bank of india", 5},
			{"state bank", 3},
			{"sbi", 2},
			{"sbin0", 3},
		},
		Bonuses: []Bonus{{"state bank of india", "account number", 8}},
		Dates:   dates.DDMMYY,
		Rules: []LineRule{
			rule("sbi-debit-first", 10, RoleTransaction,
				`^(?P<amount>`+sbiAmt+`)\s*-\s*(?P<date>`+sbiLongDate+`)\s+(?P<desc>.+?)\s+(?P<balance>`+sbiAmt+`)$`).
				withMarker("Dr"),
			rule("sbi-credit-first", 20, RoleTransaction,
				`^-\s+(?P<amount>`+sbiAmt+`)\s+(?P<date>`+sbiLongDate+`)\s+(?P<desc>.+?)\s+(?P<balance>`+sbiAmt+`)$`).
				withMarker("Cr"),
			rule("sbi-debit-column", 30, RoleTransaction,
				`^(?P<date>`+sbiDate+`)\s+(?P<desc>.+?)\s+(?P<amount>`+amt+`)\s+-\s+(?P<balance>`+amt+`)(?:\s+(?:Dr|Cr))?$`).
				withMarker("Dr"),
			rule("sbi-credit-column", 40, RoleTransaction,
				`^(?P<date>`+sbiDate+`)\s+(?P<desc>.+?)\s+-\s+(?P<amount>`+amt+`)\s+(?P<balance>`+amt+`)(?:\s+(?:Dr|Cr))?$`).
				withMarker("Cr"),
			rule("sbi-marked", 50, RoleTransaction,
				`(?i)^(?P<date>`+sbiDate+`)\s+(?P<desc>.+?)\s+(?P<amount>`+amt+`)\s+(?:(?P<balance>`+amt+`)\s+)?(?P<marker>Dr|Cr)$`),
			rule("sbi-plain", 60, RoleTransaction,
				`^(?P<date>`+sbiLongDate+`)\s+(?P<desc>.+?)\s+(?P<amount>`+sbiAmt+`)\s+(?P<balance>`+sbiAmt+`)$`),
		},
		Fallback: ptr(rule("sbi-loose", 90, RoleTransaction,
			`^(?P<date>\d{1,2}[-/ ](?:\d{1,2}|[A-Za-z]{3})[-/ ]\d{2,4})\s+(?P<desc>.*?)\s*(?P<amount>`+amt+`)(?:\s+(?P<balance>`+amt+`))?\D*$`)),
		MinLineLength: 20,
		DenyList: keyword.New(
			"account name", "account number", "ifsc code", "micr code", "customer id",
			"nominee registered", "date credit balance details", "ref no./cheque no",
			"drawing power", "interest rate", "cif no", "ckyc no", "opening balance",
			"closing balance", "txn date", "statement from", "account open date",
		),
		TrustMarker: true,
	})
}
