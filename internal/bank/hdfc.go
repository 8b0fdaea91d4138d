package bank

import (
	"github.com/cleared-dev/stmtflow/internal/dates"
	"github.com/cleared-dev/stmtflow/internal/keyword"
)

// HDFC rows: Date | Narration | Chq./Ref.No. | Value Dt | Withdrawal | Deposit | Closing Balance.
// Only one of withdrawal/deposit survives text extraction, so direction
// comes from Dr/Cr suffixes, signs or the classifier.
func HDFC() *Profile {
	return newProfile(Profile{
		Name:    "hdfc",
		Display: "HDFC Bank",
		Keywords: []Keyword{
			{"hdfc bank limited", 5},
			{"housing development finance corporation", 5},
			{"hdfc bank", 4},
			{"hdfc0", 3},
		},
		Bonuses: []Bonus{{"hdfc bank", "statement", 8}},
		Dates:   dates.SlashDayFirst,
		Rules: []LineRule{
			rule("hdfc-full", 10, RoleTransaction,
				`^(?P<date>\d{2}/\d{2}/\d{2,4})\s+(?P<desc>.+?)\s+(?P<ref>\d{10,})\s+\d{2}/\d{2}/\d{2,4}\s+(?P<amount>`+amt+`)\s+(?P<balance>`+amt+`)$`),
			rule("hdfc-marked", 20, RoleTransaction,
				`(?i)^(?P<date>\d{2}/\d{2}/\d{2,4})\s+(?P<desc>.+?)\s+(?P<amount>`+amt+`)\s*(?P<marker>Dr|Cr)\b(?:\s+(?P<balance>`+amt+`)(?:\s*(?:Dr|Cr))?)?$`),
			rule("hdfc-ref", 30, RoleTransaction,
				`^(?P<date>\d{2}/\d{2}/\d{2,4})\s+(?P<desc>.+?)\s+(?P<ref>\d{8,})\s+(?P<amount>`+signedAmt+`)\s+(?P<balance>`+amt+`)$`),
			rule("hdfc-simple", 40, RoleTransaction,
				`^(?P<date>\d{2}/\d{2}/\d{2,4})\s+(?P<desc>.+?)\s+(?P<amount>`+signedAmt+`)\s+(?P<balance>`+amt+`)$`),
		},
		Fallback: ptr(rule("hdfc-loose", 90, RoleTransaction,
			`^(?P<date>`+slashDate+`)\s+(?P<desc>.*?)\s*(?P<amount>`+signedAmt+`)\s+(?P<balance>`+amt+`)\D*$`)),
		MinLineLength: 15,
		DenyList: keyword.New(
			"statement of account", "account number", "account no :", "branch :", "customer name",
			"ifsc code", "opening balance", "closing balance", "generated on", "cheque no",
			"chq./ref.no", "value dt", "withdrawal amt", "deposit amt", "joint holders",
			"nomination", "phone no", "cust id", "account status", "statement summary",
			"dr count", "cr count", "statement from", "account open date", "a/c open date",
			"od limit", "currency :", "email :",
		),
		TrustMarker: true,
	})
}
