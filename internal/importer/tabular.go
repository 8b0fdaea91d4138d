package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/stmtflow/internal/bank"
	"github.com/cleared-dev/stmtflow/internal/dates"
	"github.com/cleared-dev/stmtflow/internal/model"
	"github.com/cleared-dev/stmtflow/internal/parser"
)

// Row is one spreadsheet or CSV row.
type Row struct {
	Number int // 1-based
	Cells  []string
}

// Table is tabular upload data. Positional columns are date, description,
// amount, type and category; a header row may name them in any order.
type Table struct {
	Format string // "csv" or "xlsx"
	Rows   []Row
	// SerialDates is set when date cells may hold spreadsheet serial numbers.
	SerialDates bool
}

// ReadCSV reads a CSV upload. A UTF-8 byte order mark is ignored.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	t := &Table{Format: "csv"}
	for i, rec := range records {
		if i == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\uFEFF")
		}
		t.Rows = append(t.Rows, Row{Number: i + 1, Cells: rec})
	}
	return t, nil
}

// ReadXLSX reads the first sheet of a workbook with raw cell values.
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	t := &Table{Format: "xlsx", SerialDates: true}
	for i, cells := range rows {
		t.Rows = append(t.Rows, Row{Number: i + 1, Cells: cells})
	}
	return t, nil
}

const (
	colDate = iota
	colDesc
	colAmount
	colType
	colCategory
	numCols
)

// columns maps logical columns to cell indexes; -1 is absent.
type columns [numCols]int

var positional = columns{0, 1, 2, 3, 4}

var headerNames = [numCols][]string{
	colDate:     {"date"},
	colDesc:     {"desc", "narration", "particulars", "details", "remarks"},
	colAmount:   {"amount"},
	colType:     {"type", "dr/cr", "cr/dr"},
	colCategory: {"category"},
}

// headerColumns maps a header row. ok is false when the row is not a header
// naming at least date, description and amount.
func headerColumns(cells []string) (columns, bool) {
	cols := columns{-1, -1, -1, -1, -1}
	for i, c := range cells {
		c = strings.ToLower(strings.TrimSpace(c))
		for col, names := range headerNames {
			if cols[col] >= 0 {
				continue
			}
			for _, n := range names {
				if strings.Contains(c, n) {
					cols[col] = i
					break
				}
			}
			if cols[col] == i {
				break
			}
		}
	}
	return cols, cols[colDate] >= 0 && cols[colDesc] >= 0 && cols[colAmount] >= 0
}

// ImportTable imports CSV or spreadsheet rows under the requested bank, or
// the generic profile when the bank is auto. Rows without a type are
// classified from their description and amount.
func (im *Importer) ImportTable(ctx context.Context, req Request, t *Table) (*model.ImportResult, error) {
	profile := im.banks.Generic()
	if name := strings.TrimSpace(req.Bank); name != "" && !strings.EqualFold(name, BankAuto) {
		p, err := im.ResolveProfile(name, "")
		if err != nil {
			return nil, err
		}
		profile = p
	}
	res := im.newResult(req, profile.Name)
	log := im.runLogger(ctx, res)

	rows := t.Rows
	cols := positional
	if len(rows) > 0 {
		if _, isDate := tableDate(cell(rows[0].Cells, colDate), t.SerialDates); !isDate {
			if hc, ok := headerColumns(rows[0].Cells); ok {
				cols = hc
				rows = rows[1:]
			}
		}
	}

	var txns []model.ParsedTransaction
	for _, r := range rows {
		if blank(r.Cells) {
			continue
		}
		txn, typed, err := im.convertRow(r, cols, t, profile)
		if err != nil {
			res.Errors = append(res.Errors, model.LineError{Line: r.Number, Text: strings.Join(r.Cells, ","), Err: err})
			log.Debug().Int("row", r.Number).Err(err).Msg("rejected")
			continue
		}
		if !typed {
			txn.Type = im.classifier.Classify(txn.Description, txn.Amount, "")
		}
		txns = append(txns, txn)
	}

	if len(txns) == 0 && len(res.Errors) == 0 {
		return im.empty(log, res, nil)
	}
	return im.commit(ctx, log, res, txns)
}

func (im *Importer) convertRow(r Row, cols columns, t *Table, p *bank.Profile) (model.ParsedTransaction, bool, error) {
	get := func(col int) string {
		if cols[col] < 0 || cols[col] >= len(r.Cells) {
			return ""
		}
		return strings.TrimSpace(r.Cells[cols[col]])
	}

	rawDate, desc, rawAmount := get(colDate), get(colDesc), get(colAmount)
	if rawDate == "" || desc == "" || rawAmount == "" {
		return model.ParsedTransaction{}, false,
			fmt.Errorf("%w: need date, description and amount", model.ErrPatternMismatch)
	}

	date, ok := tableDate(rawDate, t.SerialDates)
	if !ok {
		return model.ParsedTransaction{}, false, fmt.Errorf("%w: %q", model.ErrDateResolution, rawDate)
	}

	if strings.HasPrefix(rawAmount, "-") || strings.HasPrefix(rawAmount, "(") {
		return model.ParsedTransaction{}, false, fmt.Errorf("%w: %q is not positive", model.ErrInvalidAmount, rawAmount)
	}
	amount, err := parser.ParseAmount(rawAmount)
	if err != nil {
		return model.ParsedTransaction{}, false, err
	}

	txn := model.ParsedTransaction{
		Date:        date,
		Description: parser.CleanDescription(desc, im.DescriptionLimit, p.Display+" transaction"),
		Amount:      amount,
		Category:    get(colCategory),
		SourceLine:  strings.Join(r.Cells, ","),
		LineNumber:  r.Number,
		BankType:    p.Name,
		PatternUsed: t.Format + "-row",
	}

	typed := false
	if raw := get(colType); raw != "" {
		typ, ok := model.ParseTransactionType(strings.ToLower(raw))
		if !ok {
			return model.ParsedTransaction{}, false, fmt.Errorf("%w: transaction type %q", model.ErrPatternMismatch, raw)
		}
		txn.Type, typed = typ, true
	}
	return txn, typed, nil
}

// tableDate resolves a tabular date cell, accepting spreadsheet serial
// numbers when serial is set.
func tableDate(raw string, serial bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if d, ok := dates.Tabular.Resolve(raw); ok {
		return d, true
	}
	if !serial {
		return time.Time{}, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 1 || f > 2958465 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
