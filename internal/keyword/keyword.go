// Package keyword matches phrase vocabularies against free text.
//
// A term matches only where it starts a word, and a term ending in a letter
// must also end a word, so "atm" matches "ATM-CASH" but not "TREATMENT", and
// "hdfc0" still matches the IFSC code "HDFC0001234". Matching is
// case-insensitive and any run of whitespace in the text satisfies a space in
// a term. A trailing "*" drops the end-of-word requirement: "paytm*" matches
// "PAYTMQR2810".
package keyword

import (
	"regexp"
	"strings"
	"unicode"
)

// Set is an ordered, compiled list of terms. Safe for concurrent use.
type Set struct {
	terms []string
	res   []*regexp.Regexp
}

// New compiles terms into a Set. Blank terms are ignored.
func New(terms ...string) *Set {
	s := &Set{}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimLeft(t, " "))
		if strings.Trim(t, " *") == "" {
			continue
		}
		s.terms = append(s.terms, t)
		s.res = append(s.res, compile(t))
	}
	return s
}

func compile(term string) *regexp.Regexp {
	prefix := strings.HasSuffix(term, "*")
	term = strings.TrimSuffix(term, "*")
	var b strings.Builder
	b.WriteString(`(?i)(?:^|[^\p{L}\p{N}])`)
	for i, part := range strings.Split(term, " ") {
		if i > 0 {
			b.WriteString(`\s+`)
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	last := []rune(term)[len([]rune(term))-1]
	if !prefix && unicode.IsLetter(last) {
		b.WriteString(`(?:$|[^\p{L}])`)
	}
	return regexp.MustCompile(b.String())
}

// Find returns the first term, in declaration order, present in text.
func (s *Set) Find(text string) (string, bool) {
	if s == nil {
		return "", false
	}
	for i, re := range s.res {
		if re.MatchString(text) {
			return s.terms[i], true
		}
	}
	return "", false
}

// All returns every term present in text, in declaration order.
func (s *Set) All(text string) []string {
	if s == nil {
		return nil
	}
	var found []string
	for i, re := range s.res {
		if re.MatchString(text) {
			found = append(found, s.terms[i])
		}
	}
	return found
}

// Contains reports whether any term is present in text.
func (s *Set) Contains(text string) bool {
	_, ok := s.Find(text)
	return ok
}

// Has reports whether the single term is present in text.
func Has(text, term string) bool {
	return New(term).Contains(text)
}

// Terms returns the normalized terms in declaration order.
func (s *Set) Terms() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.terms...)
}

// Len returns the number of terms.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}
