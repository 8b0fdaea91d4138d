package model

import (
	"errors"
	"fmt"
	"time"
)

// Error taxonomy for the import pipeline. Test with errors.Is.
var (
	// ErrStructural marks lines that are skipped silently: too short,
	// boilerplate, or carrying no transaction data.
	ErrStructural = errors.New("structural line")
	// ErrPatternMismatch marks candidate lines no rule could match.
	ErrPatternMismatch = errors.New("no pattern matched")
	// ErrDateResolution marks lines whose date token could not be resolved.
	ErrDateResolution = errors.New("unresolvable date")
	// ErrInvalidAmount marks lines whose amount is missing, malformed or not positive.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrPersistence marks a failed commit. Fatal for the whole batch.
	ErrPersistence = errors.New("persistence failed")
	// ErrNoTransactions marks an import that found no rows and no rejected
	// lines, usually a wrong bank or a failed text extraction.
	ErrNoTransactions = errors.New("no transaction data found")
)

// LineError records why a single statement line was rejected.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// ImportResult aggregates one import call.
type ImportResult struct {
	RunID             string
	AccountID         string
	Source            string
	Bank              string
	StatementDate     time.Time // zero when none was found
	DryRun            bool // nothing was written; Transactions lists what would be
	Created           int
	SkippedDuplicates int
	Errors            []LineError
	Transactions      []ParsedTransaction // admitted, in statement order
}

// Failed reports how many lines were rejected.
func (r *ImportResult) Failed() int { return len(r.Errors) }
