// Package id generates import run IDs and transaction references.
package id

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// refPrefixLen is how many description characters a reference keeps.
const refPrefixLen = 10

// NewRunID returns a random ID for one import run.
func NewRunID() string {
	return uuid.NewString()
}

// Short returns the first block of a run ID for display.
func Short(runID string) string {
	if i := strings.IndexByte(runID, '-'); i > 0 {
		return runID[:i]
	}
	return runID
}

// Reference creates a reference like "hdfc_20240627_UPIBEHARAS" for rows
// whose statement line printed none.
func Reference(bank string, date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > refPrefixLen {
		prefix = prefix[:refPrefixLen]
	}
	return fmt.Sprintf("%s_%s_%s", strings.ToLower(bank), date.Format("20060102"), prefix)
}
