// Package runlog keeps an append-only CSV record of import runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one import run.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Account   string
	Source    string
	Bank      string
	Created   int
	Skipped   int
	Errors    int
	DryRun    bool
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,run_id,account,source,bank,created,skipped,errors,dry_run"

const (
	numFields    = 9
	logDir       = "logs"
	logFile      = "logs/import-log.csv"
	colTimestamp = 0
	colRunID     = 1
	colAccount   = 2
	colSource    = 3
	colBank      = 4
	colCreated   = 5
	colSkipped   = 6
	colErrors    = 7
	colDryRun    = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colAccount] = e.Account
	row[colSource] = e.Source
	row[colBank] = e.Bank
	row[colCreated] = strconv.Itoa(e.Created)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colErrors] = strconv.Itoa(e.Errors)
	row[colDryRun] = strconv.FormatBool(e.DryRun)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var counts [3]int
	for i, col := range []int{colCreated, colSkipped, colErrors} {
		if counts[i], err = strconv.Atoi(record[col]); err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
	}
	dry, err := strconv.ParseBool(record[colDryRun])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing dry_run %q: %w", record[colDryRun], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Account:   record[colAccount],
		Source:    record[colSource],
		Bank:      record[colBank],
		Created:   counts[0],
		Skipped:   counts[1],
		Errors:    counts[2],
		DryRun:    dry,
	}, nil
}

// Append writes entries to <repoRoot>/logs/import-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/import-log.csv.
// Returns nil if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
