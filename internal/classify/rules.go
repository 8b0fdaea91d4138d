// Package classify decides income versus expense for statement lines.
package classify

import "github.com/shopspring/decimal"

// Rules is the replaceable rule table behind the classifier. Vocabularies are
// matched at word starts, case-insensitively; a trailing "*" on a term makes
// it a word prefix.
type Rules struct {
	IncomeKeywords     []string
	ExpenseKeywords    []string
	CompanyTokens      []string
	UPIPrefixes        []string
	MerchantTokens     []string
	UPIPersonThreshold decimal.Decimal
	MagnitudeThreshold decimal.Decimal
}

// DefaultRules reproduces the observed Indian retail banking vocabulary.
func DefaultRules() Rules {
	return Rules{
		IncomeKeywords: []string{
			"salary", "sal cr", "interest paid", "int.pd", "credit interest", "interest credit",
			"dividend", "refund", "cashback", "received", "bonus", "reversal",
			"upi in", "upi credit", "transfer from", "neft cr", "imps cr",
		},
		ExpenseKeywords: []string{
			"atm", "atw-", "eaw-", "nwd-", "pos ", "withdrawal", "cash wdl", "bill payment",
			"billpay", "emi", "penalty", "purchase", "recharge", "charges", "fee", "fees",
			"upi out", "upiout", "upi/dr", "transfer to", "payment to", "debit card",
		},
		CompanyTokens: []string{
			"pvt ltd", "pvt. ltd", "private limited", "p ltd", "technologies", "software",
			"solutions", "llp",
		},
		UPIPrefixes: []string{"upi-", "upi/", "upi "},
		MerchantTokens: []string{
			"store", "stores", "mart", "supermarket", "shop", "restaurant", "cafe", "hotel",
			"paytm*", "phonepe*", "bharatpe*", "razorpay*", "swiggy*", "zomato*", "amazon*",
			"flipkart*", "myntra*", "nykaa*", "bigbasket*", "blinkit*", "zepto*", "uber*",
			"ola", "rapido*", "irctc*", "jio*", "airtel*", "petrol", "fuel", "pharmacy",
			"medical", "merchant",
		},
		UPIPersonThreshold: decimal.NewFromInt(500),
		MagnitudeThreshold: decimal.NewFromInt(5000),
	}
}
