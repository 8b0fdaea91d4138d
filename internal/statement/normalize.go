// Package statement turns raw statement text into numbered lines and finds
// the statement's reference date.
package statement

import (
	"regexp"
	"strings"
)

// Line is one non-empty physical line of a statement.
type Line struct {
	Number int // 1-based position in the original text
	Text   string
}

var (
	spaceRun  = regexp.MustCompile(`[ \t\x{00A0}\x{2007}\x{202F}\f\v]+`)
	pageLine  = regexp.MustCompile(`(?i)^page\s*(no\.?|number)?\s*[:.]?\s*\d+(\s*(of|/)\s*\d+)?$`)
	ruleLine  = regexp.MustCompile(`^[-=_*~.\s]{3,}$`)
	boilerRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^this is a (computer|system) generated`),
		regexp.MustCompile(`(?i)does not require (a )?signature`),
		regexp.MustCompile(`(?i)^\*+\s*end of statement`),
		regexp.MustCompile(`(?i)^end of statement`),
		regexp.MustCompile(`(?i)^contents of this statement will be considered correct`),
	}
)

// Normalize splits text into trimmed, non-empty lines with whitespace runs
// collapsed, dropping boilerplate common to every bank.
func Normalize(text string) []Line {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	for i, r := range raw {
		t := strings.TrimSpace(spaceRun.ReplaceAllString(strings.TrimSuffix(r, "\r"), " "))
		if t == "" || IsBoilerplate(t) {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Text: t})
	}
	return lines
}

// IsBoilerplate reports whether a normalized line is a page marker, a rule
// line or a standard footer.
func IsBoilerplate(line string) bool {
	if pageLine.MatchString(line) || ruleLine.MatchString(line) {
		return true
	}
	for _, re := range boilerRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Texts returns just the text of each line.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

// FromTexts numbers plain strings from 1.
func FromTexts(texts []string) []Line {
	out := make([]Line, 0, len(texts))
	for i, t := range texts {
		out = append(out, Line{Number: i + 1, Text: t})
	}
	return out
}
