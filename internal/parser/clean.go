package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtflow/internal/model"
)

// DefaultDescriptionLimit caps cleaned descriptions, in runes.
const DefaultDescriptionLimit = 200

var (
	refToken   = regexp.MustCompile(`\b\d{8,}\b`)
	dateToken  = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	doubledSep = regexp.MustCompile(`([/-])[/-]+`)
	currency   = strings.NewReplacer("₹", "", "$", "", "Rs.", "", "Rs", "", "INR", "", ",", "", " ", "")
)

// ParseAmount reads a printed amount. Currency symbols, grouping commas and
// the sign are dropped; the result is positive and rounded to two places.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := currency.Replace(strings.TrimSpace(raw))
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", model.ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrInvalidAmount, raw)
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q is not positive", model.ErrInvalidAmount, raw)
	}
	return d, nil
}

// CleanDescription drops long reference numbers and date tokens, collapses
// whitespace and caps the result at limit runes. fallback is returned when
// nothing is left.
func CleanDescription(desc string, limit int, fallback string) string {
	desc = refToken.ReplaceAllString(desc, "")
	desc = dateToken.ReplaceAllString(desc, "")
	desc = doubledSep.ReplaceAllString(desc, "$1")
	desc = strings.Join(strings.Fields(desc), " ")
	desc = strings.Trim(desc, " -/")
	if limit > 0 {
		if r := []rune(desc); len(r) > limit {
			desc = strings.TrimSpace(string(r[:limit]))
		}
	}
	if desc == "" {
		return fallback
	}
	return desc
}
