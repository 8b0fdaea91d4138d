package classify

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtflow/internal/keyword"
	"github.com/cleared-dev/stmtflow/internal/model"
)

// Layer identifies which rule produced a verdict.
type Layer int

const (
	LayerMarker Layer = iota + 1
	LayerKeyword
	LayerCompany
	LayerUPI
	LayerMagnitude
)

func (l Layer) String() string {
	switch l {
	case LayerMarker:
		return "marker"
	case LayerKeyword:
		return "keyword"
	case LayerCompany:
		return "company"
	case LayerUPI:
		return "upi"
	case LayerMagnitude:
		return "magnitude"
	}
	return "unknown"
}

// Verdict is a classification with the layer and term that decided it.
type Verdict struct {
	Type   model.TransactionType
	Layer  Layer
	Reason string
}

// personPayee matches UPI payees of the form "first last-handle".
var personPayee = regexp.MustCompile(`^[a-z]+(?: [a-z]+)*-[a-z0-9._]+`)

// Classifier applies Rules in strict layer order. Safe for concurrent use.
type Classifier struct {
	rules     Rules
	income    *keyword.Set
	expense   *keyword.Set
	company   *keyword.Set
	merchants *keyword.Set
	prefixes  []string
}

// New compiles a rule table.
func New(r Rules) *Classifier {
	prefixes := make([]string, 0, len(r.UPIPrefixes))
	for _, p := range r.UPIPrefixes {
		if p = strings.ToLower(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return &Classifier{
		rules:     r,
		income:    keyword.New(r.IncomeKeywords...),
		expense:   keyword.New(r.ExpenseKeywords...),
		company:   keyword.New(r.CompanyTokens...),
		merchants: keyword.New(r.MerchantTokens...),
		prefixes:  prefixes,
	}
}

// Rules returns the table the classifier was built from.
func (c *Classifier) Rules() Rules { return c.rules }

// Classify returns income or expense. It always returns a verdict.
// marker should be empty unless the bank prints column-accurate Dr/Cr markers.
func (c *Classifier) Classify(description string, amount decimal.Decimal, marker string) model.TransactionType {
	return c.Explain(description, amount, marker).Type
}

// Explain classifies and reports the deciding layer.
func (c *Classifier) Explain(description string, amount decimal.Decimal, marker string) Verdict {
	if t, ok := markerType(marker); ok {
		return Verdict{Type: t, Layer: LayerMarker, Reason: strings.TrimSpace(marker)}
	}

	if term, ok := c.income.Find(description); ok {
		return Verdict{Type: model.TypeIncome, Layer: LayerKeyword, Reason: term}
	}
	if term, ok := c.expense.Find(description); ok {
		return Verdict{Type: model.TypeExpense, Layer: LayerKeyword, Reason: term}
	}

	if term, ok := c.company.Find(description); ok {
		return Verdict{Type: model.TypeIncome, Layer: LayerCompany, Reason: term}
	}

	if v, ok := c.upi(description, amount); ok {
		return v
	}

	amount = amount.Abs()
	if amount.GreaterThanOrEqual(c.rules.MagnitudeThreshold) {
		return Verdict{Type: model.TypeIncome, Layer: LayerMagnitude, Reason: ">= " + c.rules.MagnitudeThreshold.String()}
	}
	return Verdict{Type: model.TypeExpense, Layer: LayerMagnitude, Reason: "< " + c.rules.MagnitudeThreshold.String()}
}

func (c *Classifier) upi(description string, amount decimal.Decimal) (Verdict, bool) {
	lower := strings.ToLower(strings.TrimSpace(description))
	var payee string
	found := false
	for _, p := range c.prefixes {
		if strings.HasPrefix(lower, p) {
			payee = strings.TrimSpace(lower[len(p):])
			found = true
			break
		}
	}
	if !found {
		return Verdict{}, false
	}

	if term, ok := c.merchants.Find(payee); ok {
		return Verdict{Type: model.TypeExpense, Layer: LayerUPI, Reason: "merchant " + term}, true
	}
	if strings.Contains(payee, "@") || personPayee.MatchString(payee) {
		if amount.Abs().GreaterThanOrEqual(c.rules.UPIPersonThreshold) {
			return Verdict{Type: model.TypeIncome, Layer: LayerUPI, Reason: "person >= " + c.rules.UPIPersonThreshold.String()}, true
		}
		return Verdict{Type: model.TypeExpense, Layer: LayerUPI, Reason: "person < " + c.rules.UPIPersonThreshold.String()}, true
	}
	return Verdict{}, false
}

func markerType(marker string) (model.TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(marker)) {
	case "dr", "debit", "d", "withdrawal":
		return model.TypeExpense, true
	case "cr", "credit", "c", "deposit":
		return model.TypeIncome, true
	}
	return "", false
}
