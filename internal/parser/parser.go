// Package parser turns normalized statement lines into transactions using a
// bank profile's line rules.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cleared-dev/stmtflow/internal/bank"
	"github.com/cleared-dev/stmtflow/internal/model"
	"github.com/cleared-dev/stmtflow/internal/statement"
)

var (
	dateShaped   = regexp.MustCompile(`\d{1,2}[-/ ](?:\d{1,2}|[A-Za-z]{3})[-/ ]\d{2,4}`)
	amountShaped = regexp.MustCompile(`\d[\d,]*\.\d{2}\b`)
)

// HasAmount reports whether text holds an amount-shaped token.
func HasAmount(text string) bool {
	return amountShaped.MatchString(text)
}

// RawMatch is a line a rule accepted, before conversion.
type RawMatch struct {
	Line   statement.Line
	Rule   *bank.LineRule
	Fields bank.Fields
	// Carried is set for continuation lines: Date was taken from the
	// preceding context line or the statement date, and Description already
	// includes the carried description.
	Carried     bool
	Date        time.Time
	Description string
}

// Marker returns the Dr/Cr marker of the match. A negative amount with no
// printed marker implies Dr.
func (m RawMatch) Marker() string {
	if m.Fields.Marker != "" {
		return m.Fields.Marker
	}
	if strings.HasPrefix(strings.TrimSpace(m.Fields.Amount), "-") {
		return "Dr"
	}
	return ""
}

// Session holds the carry-over state of one statement parse. A Session
// belongs to a single import and must not be shared.
type Session struct {
	profile          *bank.Profile
	statementDate    time.Time
	DescriptionLimit int

	carryDate time.Time
	carryDesc string
}

// NewSession starts a parse of one statement. statementDate may be zero.
func NewSession(p *bank.Profile, statementDate time.Time) *Session {
	return &Session{profile: p, statementDate: statementDate, DescriptionLimit: DefaultDescriptionLimit}
}

// Profile returns the bank profile in use.
func (s *Session) Profile() *bank.Profile { return s.profile }

// Parse matches a line against the profile rules. It returns
// model.ErrStructural for lines that carry no transaction (including context
// lines, whose date and description are remembered) and
// model.ErrPatternMismatch for candidate lines no rule accepted.
func (s *Session) Parse(l statement.Line) (RawMatch, error) {
	p := s.profile
	if utf8.RuneCountInString(l.Text) < p.MinLineLength {
		return RawMatch{}, model.ErrStructural
	}
	if p.DenyList.Contains(l.Text) {
		return RawMatch{}, model.ErrStructural
	}

	for i := range p.Rules {
		r := &p.Rules[i]
		f, ok := r.Match(l.Text)
		if !ok {
			continue
		}
		return s.apply(l, r, f)
	}

	// Only lines holding both a date and an amount are candidates; header
	// and summary lines with one of the two are skipped like boilerplate.
	if !dateShaped.MatchString(l.Text) || !amountShaped.MatchString(l.Text) {
		return RawMatch{}, model.ErrStructural
	}
	if p.Fallback != nil {
		if f, ok := p.Fallback.Match(l.Text); ok {
			return s.apply(l, p.Fallback, f)
		}
	}
	return RawMatch{}, model.ErrPatternMismatch
}

func (s *Session) apply(l statement.Line, r *bank.LineRule, f bank.Fields) (RawMatch, error) {
	m := RawMatch{Line: l, Rule: r, Fields: f, Description: f.Description}
	switch r.Role {
	case bank.RoleContext:
		d, ok := s.profile.ConventionFor(r).Resolve(f.Date)
		if !ok {
			return RawMatch{}, fmt.Errorf("%w: %q", model.ErrDateResolution, f.Date)
		}
		s.carryDate, s.carryDesc = d, strings.TrimSpace(f.Description)
		return RawMatch{}, model.ErrStructural

	case bank.RoleContinuation:
		d := s.carryDate
		if d.IsZero() {
			d = s.statementDate
		}
		if d.IsZero() {
			return RawMatch{}, fmt.Errorf("%w: no date for continuation line", model.ErrDateResolution)
		}
		m.Carried, m.Date = true, d
		m.Description = strings.TrimSpace(s.carryDesc + " " + f.Description)
		s.carryDesc = ""
		return m, nil
	}

	// A transaction row resets the description carry; its date carries on
	// to following continuation rows.
	if d, ok := s.profile.ConventionFor(r).Resolve(f.Date); ok {
		s.carryDate = d
	}
	s.carryDesc = ""
	return m, nil
}

// Convert resolves the date, amount and description of a match.
func (s *Session) Convert(m RawMatch) (model.ParsedTransaction, error) {
	date := m.Date
	if !m.Carried {
		d, ok := s.profile.ConventionFor(m.Rule).Resolve(m.Fields.Date)
		if !ok {
			return model.ParsedTransaction{}, fmt.Errorf("%w: %q", model.ErrDateResolution, m.Fields.Date)
		}
		date = d
	}

	amount, err := ParseAmount(m.Fields.Amount)
	if err != nil {
		return model.ParsedTransaction{}, err
	}

	return model.ParsedTransaction{
		Date:        date,
		Description: CleanDescription(m.Description, s.DescriptionLimit, s.profile.Display+" transaction"),
		Amount:      amount,
		Reference:   strings.TrimSpace(m.Fields.Reference),
		SourceLine:  m.Line.Text,
		LineNumber:  m.Line.Number,
		BankType:    s.profile.Name,
		PatternUsed: m.Rule.Name,
	}, nil
}
