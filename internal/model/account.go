package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies ledger accounts.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
	AccountTypeCash     AccountType = "cash"
	AccountTypeOther    AccountType = "other"
)

// Account is a bank account transactions are imported into.
type Account struct {
	ID             string
	Name           string
	Type           AccountType
	Bank           string
	Number         string
	Currency       string
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	CreatedAt      time.Time
}

// AccountTypes lists the valid account types.
var AccountTypes = []AccountType{AccountTypeChecking, AccountTypeSavings, AccountTypeCredit, AccountTypeCash, AccountTypeOther}

// ParseAccountType validates an account type name. Empty means other.
func ParseAccountType(s string) (AccountType, bool) {
	if s == "" {
		return AccountTypeOther, true
	}
	for _, t := range AccountTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
