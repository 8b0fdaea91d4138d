package bank

import (
	"github.com/cleared-dev/stmtflow/internal/dates"
	"github.com/cleared-dev/stmtflow/internal/keyword"
)

const axisAmt = `\d[\d,]*\.\d{2}`

// Axis rows run the date straight into the narration and end with a branch
// code: "01-06-2024UPI/P2A/415212/RAVI KUMAR 2,000.00 12,500.00 4080".
func Axis() *Profile {
	return newProfile(Profile{
		Name:    "axis",
		Display: "Axis Bank",
		Keywords: []Keyword{
			{"axis bank limited", 5},
			{"axis account no", 4},
			{"statement of axis account", 5},
			{"axis bank", 4},
			{"utib", 3},
		},
		Bonuses: []Bonus{{"statement of axis account", "", 10}},
		Dates:   dates.DDMMYYYY,
		Rules: []LineRule{
			rule("axis-branch", 10, RoleTransaction,
				`^(?P<date>\d{2}-\d{2}-\d{4})\s*(?P<desc>.+?)\s+(?P<amount>`+axisAmt+`)\s+(?P<balance>`+axisAmt+`)\s+(?P<ref>\d+)$`),
			rule("axis-plain", 20, RoleTransaction,
				`^(?P<date>\d{2}-\d{2}-\d{4})\s*(?P<desc>.+?)\s+(?P<amount>`+axisAmt+`)\s+(?P<balance>`+axisAmt+`)$`),
		},
		Fallback: ptr(rule("axis-loose", 90, RoleTransaction,
			`^(?P<date>\d{2}-\d{2}-\d{4})\s*(?P<desc>.*?)\s*(?P<amount>`+axisAmt+`)(?:\s+(?P<balance>`+axisAmt+`))?\D*$`)),
		MinLineLength: 15,
		DenyList: keyword.New(
			"statement of account", "account number", "joint holder", "customer id",
			"customer name", "branch :", "ifsc code", "micr code", "registered mobile",
			"registered email", "scheme :", "ckyc number", "nominee", "opening balance",
			"closing balance", "statement summary", "transaction codes", "request from",
			"please contact the branch", "tran date", "statement from", "account open date",
		),
		TrustMarker: false,
	})
}
