// Package bank holds the per-bank statement profiles: detection keywords,
// ordered line rules and date conventions.
package bank

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cleared-dev/stmtflow/internal/dates"
	"github.com/cleared-dev/stmtflow/internal/keyword"
)

// Role says what a matched line contributes.
type Role int

const (
	// RoleTransaction lines carry a complete transaction.
	RoleTransaction Role = iota
	// RoleContext lines set the carry-over date and description and emit nothing.
	RoleContext
	// RoleContinuation lines carry amounts and take their date and description
	// from the carry-over state, or the statement date when none is set.
	RoleContinuation
)

func (r Role) String() string {
	switch r {
	case RoleContext:
		return "context"
	case RoleContinuation:
		return "continuation"
	default:
		return "transaction"
	}
}

// Capture group names a LineRule pattern may use.
const (
	GroupDate    = "date"
	GroupDesc    = "desc"
	GroupRef     = "ref"
	GroupAmount  = "amount"
	GroupBalance = "balance"
	GroupMarker  = "marker"
)

// Fields are the raw strings a LineRule extracted from one line.
type Fields struct {
	Date        string
	Description string
	Reference   string
	Amount      string
	Balance     string
	Marker      string
}

// LineRule is one regular expression with its field mapping. The mapping is
// carried by named capture groups (see the Group constants).
type LineRule struct {
	Name     string
	Priority int
	Pattern  *regexp.Regexp
	Role     Role
	Marker   string            // implied marker when the matched column fixes direction
	Dates    *dates.Convention // overrides the profile convention when set
}

// Match applies the rule to a line.
func (r *LineRule) Match(line string) (Fields, bool) {
	m := r.Pattern.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, false
	}
	get := func(name string) string {
		if i := r.Pattern.SubexpIndex(name); i > 0 {
			return m[i]
		}
		return ""
	}
	f := Fields{
		Date:        get(GroupDate),
		Description: get(GroupDesc),
		Reference:   get(GroupRef),
		Amount:      get(GroupAmount),
		Balance:     get(GroupBalance),
		Marker:      get(GroupMarker),
	}
	if f.Marker == "" {
		f.Marker = r.Marker
	}
	return f, true
}

// Keyword is a weighted detection term.
type Keyword struct {
	Term   string
	Weight int
}

// Bonus adds Weight when Term and Companion both appear.
type Bonus struct {
	Term      string
	Companion string
	Weight    int
}

// Profile describes one issuing bank. Profiles are built once by the
// registry constructors and must not be modified afterwards.
type Profile struct {
	Name          string // registry key, e.g. "hdfc"
	Display       string // e.g. "HDFC Bank"
	Keywords      []Keyword
	Bonuses       []Bonus
	Dates         dates.Convention
	Rules         []LineRule // sorted by Priority
	Fallback      *LineRule  // tried when no rule matches a candidate line
	MinLineLength int
	DenyList      *keyword.Set
	TrustMarker   bool // Dr/Cr markers on this bank's rows are column-accurate

	keywords *keyword.Set
	weights  map[string]int
}

// ResolveDate resolves a raw date token with the profile convention.
func (p *Profile) ResolveDate(raw string) (time.Time, bool) {
	return dates.Resolve(raw, p.Dates)
}

// ConventionFor returns the date convention for a rule of this profile.
func (p *Profile) ConventionFor(r *LineRule) dates.Convention {
	if r != nil && r.Dates != nil {
		return *r.Dates
	}
	return p.Dates
}

func newProfile(p Profile) *Profile {
	for i := range p.Rules {
		validateRule(p.Name, &p.Rules[i])
	}
	if p.Fallback != nil {
		validateRule(p.Name, p.Fallback)
	}
	terms := make([]string, 0, len(p.Keywords))
	p.weights = make(map[string]int, len(p.Keywords))
	for _, k := range p.Keywords {
		terms = append(terms, k.Term)
		p.weights[strings.ToLower(k.Term)] += k.Weight
	}
	p.keywords = keyword.New(terms...)
	sort.SliceStable(p.Rules, func(i, j int) bool { return p.Rules[i].Priority < p.Rules[j].Priority })
	return &p
}

// validateRule panics on rules missing the groups their role needs. Rules
// are static tables, so this fires at startup or in tests.
func validateRule(profile string, r *LineRule) {
	need := []string{GroupDesc}
	switch r.Role {
	case RoleTransaction:
		need = append(need, GroupDate, GroupAmount)
	case RoleContext:
		need = append(need, GroupDate)
	case RoleContinuation:
		need = append(need, GroupAmount)
	}
	for _, g := range need {
		if r.Pattern.SubexpIndex(g) < 0 {
			panic(fmt.Sprintf("bank %s: rule %s: missing group %q", profile, r.Name, g))
		}
	}
}

func rule(name string, priority int, role Role, pattern string) LineRule {
	return LineRule{Name: name, Priority: priority, Role: role, Pattern: regexp.MustCompile(pattern)}
}

func (r LineRule) withMarker(m string) LineRule {
	r.Marker = m
	return r
}

func (r LineRule) withDates(c dates.Convention) LineRule {
	r.Dates = &c
	return r
}

func ptr(r LineRule) *LineRule { return &r }

// Shared pattern fragments.
const (
	amt       = `[\d,]+\.\d{2}`
	signedAmt = `-?[\d,]+\.\d{2}`
	slashDate = `\d{1,2}/\d{1,2}/\d{2,4}`
)
