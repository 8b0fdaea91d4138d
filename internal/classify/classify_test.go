package classify

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/stmtflow/internal/model"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestClassify_Scenarios(t *testing.T) {
	c := New(DefaultRules())

	v := c.Explain("UPI-BEHARA SRI SAI ARJUN-SAIARJUN1202@OK", amt("1000.00"), "")
	assert.Equal(t, model.TypeIncome, v.Type)
	assert.Equal(t, LayerUPI, v.Layer)

	v = c.Explain("ATW-416021XXXXXX2625-P3ENHE44-HYDERABAD", amt("8000.00"), "")
	assert.Equal(t, model.TypeExpense, v.Type)
	assert.Equal(t, LayerKeyword, v.Layer)
	assert.Equal(t, "atw-", v.Reason)
}

func TestClassify_Layers(t *testing.T) {
	c := New(DefaultRules())

	tests := []struct {
		name   string
		desc   string
		amount string
		marker string
		want   model.TransactionType
		layer  Layer
	}{
		{"marker dr", "SALARY FOR JUNE", "50000.00", "Dr", model.TypeExpense, LayerMarker},
		{"marker credit", "ATM CASH", "100.00", "CREDIT", model.TypeIncome, LayerMarker},
		{"unknown marker ignored", "ATM CASH", "100.00", "xx", model.TypeExpense, LayerKeyword},
		{"salary", "NEFT-ACME SALARY JUN", "100.00", "", model.TypeIncome, LayerKeyword},
		{"interest", "Interest Paid till 30-Jun", "12.00", "", model.TypeIncome, LayerKeyword},
		{"refund", "AMAZON REFUND 4411", "250.00", "", model.TypeIncome, LayerKeyword},
		{"pos", "POS 4411XXXX BIGBAZAAR", "9000.00", "", model.TypeExpense, LayerKeyword},
		{"emi", "EMI 12 OF 24 LOAN", "9000.00", "", model.TypeExpense, LayerKeyword},
		{"atm not inside word", "TREATMENT CHARGE CLINIC", "9000.00", "", model.TypeIncome, LayerMagnitude},
		{"company", "NEFT-ACME TECHNOLOGIES PVT LTD", "300.00", "", model.TypeIncome, LayerCompany},
		{"upi merchant", "UPI-RELIANCE MART-MART@ICICI", "5000.00", "", model.TypeExpense, LayerUPI},
		{"upi merchant prefix", "UPI/PAYTMQR2810/GROCERY", "50.00", "", model.TypeExpense, LayerUPI},
		{"upi person small", "UPI-RAVI KUMAR-RAVIK@OKAXIS", "499.99", "", model.TypeExpense, LayerUPI},
		{"upi person at threshold", "UPI-RAVI KUMAR-RAVIK@OKAXIS", "500.00", "", model.TypeIncome, LayerUPI},
		{"upi person without handle", "UPI-RAVI KUMAR-9876543210", "700.00", "", model.TypeIncome, LayerUPI},
		{"upi unknown falls through", "UPI 1234567", "7000.00", "", model.TypeIncome, LayerMagnitude},
		{"magnitude high", "BY CLG 00912", "5000.00", "", model.TypeIncome, LayerMagnitude},
		{"magnitude low", "BY CLG 00912", "4999.99", "", model.TypeExpense, LayerMagnitude},
		{"empty", "", "1.00", "", model.TypeExpense, LayerMagnitude},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Explain(tt.desc, amt(tt.amount), tt.marker)
			assert.Equal(t, tt.want, v.Type)
			assert.Equal(t, tt.layer, v.Layer, "reason %q", v.Reason)
		})
	}
}

func TestClassify_KeywordBeatsMarkerlessUPI(t *testing.T) {
	c := New(DefaultRules())
	// "upi/dr" is an explicit expense keyword even for large transfers.
	assert.Equal(t, model.TypeExpense, c.Classify("UPI/DR/4567/RAVI KUMAR", amt("20000"), ""))
}

func TestClassify_CustomRules(t *testing.T) {
	r := DefaultRules()
	r.MagnitudeThreshold = decimal.NewFromInt(100)
	r.IncomeKeywords = append(r.IncomeKeywords, "stipend")
	c := New(r)

	assert.Equal(t, model.TypeIncome, c.Classify("BY CLG", amt("150"), ""))
	assert.Equal(t, model.TypeIncome, c.Classify("MONTHLY STIPEND", amt("10"), ""))
	assert.Equal(t, "100", c.Rules().MagnitudeThreshold.String())
}

func TestClassify_EmptyRulesStillDecide(t *testing.T) {
	c := New(Rules{})
	assert.Equal(t, model.TypeIncome, c.Classify("anything", amt("1"), ""))
	assert.Equal(t, model.TypeExpense, c.Classify("anything", amt("1"), "dr"))
}

func TestClassify_Total(t *testing.T) {
	c := New(DefaultRules())
	rng := rand.New(rand.NewPCG(42, 1024))
	words := []string{
		"UPI-", "UPI/", "ATM", "salary", "ravi", "kumar", "@okaxis", "store", "pvt ltd",
		"NEFT", "IMPS", "refund", "-", "/", "123456789", "paytm", "x", "", " ", "Cr", "Dr",
	}
	markers := []string{"", "", "", "Cr", "Dr", "credit", "debit", "??"}

	for i := 0; i < 10000; i++ {
		var b strings.Builder
		for n := rng.IntN(6); n >= 0; n-- {
			b.WriteString(words[rng.IntN(len(words))])
			if rng.IntN(2) == 0 {
				b.WriteByte(' ')
			}
		}
		amount := decimal.New(rng.Int64N(10_000_000)+1, -2)
		got := c.Classify(b.String(), amount, markers[rng.IntN(len(markers))])
		if got != model.TypeIncome && got != model.TypeExpense {
			t.Fatalf("Classify(%q, %s) = %q", b.String(), amount, got)
		}
	}
}
