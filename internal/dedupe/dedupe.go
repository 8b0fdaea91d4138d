// Package dedupe decides whether a parsed transaction is already stored.
package dedupe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtflow/internal/model"
)

// DefaultPrefixLength is how many description runes take part in matching.
// Re-exports of a statement often differ only in trailing reference numbers.
const DefaultPrefixLength = 50

// Key returns the lower-cased first n runes of a description.
func Key(description string, n int) string {
	s := strings.ToLower(strings.TrimSpace(description))
	if n > 0 {
		if r := []rune(s); len(r) > n {
			s = string(r[:n])
		}
	}
	return s
}

// Lookup is the ledger query behind the guard.
type Lookup interface {
	FindExisting(ctx context.Context, accountID string, date time.Time, descKey string, amount decimal.Decimal) (bool, error)
}

// Guard matches candidates on account, date, amount and description key.
type Guard struct {
	lookup       Lookup
	PrefixLength int
}

// NewGuard returns a Guard using the default prefix length.
func NewGuard(l Lookup) *Guard {
	return &Guard{lookup: l, PrefixLength: DefaultPrefixLength}
}

// IsDuplicate reports whether txn is already stored for accountID.
func (g *Guard) IsDuplicate(ctx context.Context, accountID string, txn model.ParsedTransaction) (bool, error) {
	found, err := g.lookup.FindExisting(ctx, accountID, txn.Date, Key(txn.Description, g.PrefixLength), txn.Amount)
	if err != nil {
		return false, fmt.Errorf("looking up duplicates: %w", err)
	}
	return found, nil
}
