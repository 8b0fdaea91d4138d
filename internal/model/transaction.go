package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money for a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType accepts "income"/"expense" (and common bank spellings).
func ParseTransactionType(s string) (TransactionType, bool) {
	switch s {
	case "income", "Income", "INCOME", "credit", "Credit", "CREDIT", "cr", "Cr", "CR":
		return TypeIncome, true
	case "expense", "Expense", "EXPENSE", "debit", "Debit", "DEBIT", "dr", "Dr", "DR":
		return TypeExpense, true
	}
	return "", false
}

// ParsedTransaction is one canonical transaction extracted from a statement.
type ParsedTransaction struct {
	Date        time.Time
	Description string          // cleaned, bounded length
	Amount      decimal.Decimal // always > 0, 2 decimal places
	Type        TransactionType
	Category    string
	Reference   string
	SourceLine  string
	LineNumber  int
	BankType    string
	PatternUsed string
}

// StoredTransaction is a ParsedTransaction as persisted in the ledger.
type StoredTransaction struct {
	ID        string
	AccountID string
	RunID     string
	CreatedAt time.Time
	ParsedTransaction
}
