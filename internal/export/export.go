// Package export writes stored transactions as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/stmtflow/internal/model"
)

// Header is the export column header.
const Header = "date,description,amount,type,category,bank,reference"

const dateFormat = "2006-01-02"

// Formats lists the supported export formats.
var Formats = []string{"csv", "xlsx"}

// Marshal converts a transaction to an export row.
func Marshal(t model.StoredTransaction) []string {
	return []string{
		t.Date.Format(dateFormat),
		t.Description,
		t.Amount.StringFixed(2),
		string(t.Type),
		t.Category,
		t.BankType,
		t.Reference,
	}
}

// WriteCSV writes transactions (including header) as CSV.
func WriteCSV(w io.Writer, txns []model.StoredTransaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(Marshal(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SheetName is the worksheet holding exported transactions.
const SheetName = "Transactions"

// WriteXLSX writes transactions as a single-sheet workbook. Dates are real
// date cells and amounts are numbers, so the sheet sorts and sums natively.
func WriteXLSX(w io.Writer, txns []model.StoredTransaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("creating date style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	for c, h := range strings.Split(Header, ",") {
		if err := setCell(f, c+1, 1, h); err != nil {
			return err
		}
	}

	for i, t := range txns {
		row := i + 2
		amount, _ := t.Amount.Round(2).Float64()
		values := []any{t.Date, t.Description, amount, string(t.Type), t.Category, t.BankType, t.Reference}
		for c, v := range values {
			if err := setCell(f, c+1, row, v); err != nil {
				return err
			}
		}
		if err := styleCell(f, 1, row, dateStyle); err != nil {
			return err
		}
		if err := styleCell(f, 3, row, amountStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 48); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("setting %s: %w", cell, err)
	}
	return nil
}

func styleCell(f *excelize.File, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, cell, cell, style)
}
