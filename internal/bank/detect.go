package bank

import (
	"strings"

	"github.com/cleared-dev/stmtflow/internal/keyword"
)

// Detection is the outcome of scoring a statement against every profile.
type Detection struct {
	Profile *Profile
	Score   int
	Scores  map[string]int
}

// Detect returns the best-matching profile for a statement, or Generic
// when no bank keyword is present. It never fails.
func (r *Registry) Detect(text string) *Profile {
	return r.DetectScores(text).Profile
}

// DetectScores scores text against every registered profile. The highest
// nonzero score wins and ties go to the earlier-declared profile.
func (r *Registry) DetectScores(text string) Detection {
	lower := strings.ToLower(text)
	d := Detection{Profile: r.generic, Scores: make(map[string]int, len(r.ordered))}
	for _, p := range r.ordered {
		s := Score(p, lower)
		d.Scores[p.Name] = s
		if s > d.Score {
			d.Score = s
			d.Profile = p
		}
	}
	return d
}

// Score sums the weights of p's keywords present in text plus any
// satisfied bonuses.
func Score(p *Profile, text string) int {
	score := 0
	for _, term := range p.keywords.All(text) {
		score += p.weights[term]
	}
	if score == 0 {
		return 0
	}
	for _, b := range p.Bonuses {
		if keyword.Has(text, b.Term) && (b.Companion == "" || keyword.Has(text, b.Companion)) {
			score += b.Weight
		}
	}
	return score
}
