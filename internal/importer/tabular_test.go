package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/stmtflow/internal/model"
)

func TestImportTable_CSV(t *testing.T) {
	s, acct := newStore(t)
	f, err := os.Open(filepath.Join("..", "..", "testdata", "uploads.csv"))
	require.NoError(t, err)
	defer f.Close()

	table, err := ReadCSV(f)
	require.NoError(t, err)

	res, err := newImporter(s).ImportTable(testCtx(), Request{AccountID: acct.ID}, table)
	require.NoError(t, err)

	assert.Equal(t, "generic", res.Bank)
	assert.Equal(t, 3, res.Created)
	require.Len(t, res.Errors, 3)
	assert.ErrorIs(t, res.Errors[0], model.ErrDateResolution)
	assert.Equal(t, 5, res.Errors[0].Line)
	assert.ErrorIs(t, res.Errors[1], model.ErrInvalidAmount)
	assert.ErrorIs(t, res.Errors[2], model.ErrPatternMismatch)

	require.Len(t, res.Transactions, 3)
	salary, grocery, atm := res.Transactions[0], res.Transactions[1], res.Transactions[2]
	assert.Equal(t, model.TypeIncome, salary.Type)
	assert.Equal(t, "50000.00", salary.Amount.StringFixed(2))
	assert.Equal(t, "Salary", salary.Category)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), grocery.Date, "day-first before month-first")
	assert.Equal(t, model.TypeExpense, grocery.Type, "classified")
	assert.Equal(t, "csv-row", grocery.PatternUsed)
	assert.Equal(t, model.TypeExpense, atm.Type)
}

func TestImportTable_PositionalWithoutHeader(t *testing.T) {
	fl := &fakeLedger{}
	table, err := ReadCSV(strings.NewReader("\uFEFF2024-06-01,UPI-RAVI KUMAR-RAVIK@OKAXIS,700\n"))
	require.NoError(t, err)

	res, err := newImporter(fl).ImportTable(testCtx(), Request{AccountID: "a", Bank: "hdfc"}, table)
	require.NoError(t, err)
	require.Len(t, fl.created, 1)
	assert.Equal(t, "hdfc", res.Bank)
	assert.Equal(t, model.TypeIncome, fl.created[0].Type)
}

func TestImportTable_HeaderInAnyOrder(t *testing.T) {
	fl := &fakeLedger{}
	table, err := ReadCSV(strings.NewReader("Amount,Narration,Txn Date\n1200.00,Refund from store,27/06/2024\n"))
	require.NoError(t, err)

	_, err = newImporter(fl).ImportTable(testCtx(), Request{AccountID: "a"}, table)
	require.NoError(t, err)
	require.Len(t, fl.created, 1)
	assert.Equal(t, "Refund from store", fl.created[0].Description)
	assert.Equal(t, 27, fl.created[0].Date.Day())
	assert.Equal(t, model.TypeIncome, fl.created[0].Type)
}

func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	rows := [][]any{
		{"Date", "Description", "Amount", "Type"},
		{time.Date(2024, 6, 27, 0, 0, 0, 0, time.UTC), "UPI-BEHARA SRI SAI ARJUN-SAIARJUN1202@OK", 1000.0, ""},
		{"02/06/2023", "ATW-416021XXXXXX2625-P3ENHE44-HYDERABAD", "8,000.00", ""},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestImportFile_XLSX(t *testing.T) {
	fl := &fakeLedger{}
	path := filepath.Join(t.TempDir(), "upload.xlsx")
	writeWorkbook(t, path)

	res, err := newImporter(fl).ImportFile(testCtx(), Request{AccountID: "a"}, path)
	require.NoError(t, err)
	assert.Equal(t, "upload.xlsx", res.Source)
	assert.Empty(t, res.Errors)
	require.Len(t, fl.created, 2)

	upi, atw := fl.created[0], fl.created[1]
	assert.Equal(t, time.Date(2024, 6, 27, 0, 0, 0, 0, time.UTC), upi.Date)
	assert.Equal(t, model.TypeIncome, upi.Type)
	assert.Equal(t, "xlsx-row", upi.PatternUsed)
	assert.Equal(t, time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC), atw.Date)
	assert.Equal(t, model.TypeExpense, atw.Type)
	assert.Equal(t, "8000.00", atw.Amount.StringFixed(2))
}

func TestTableDate(t *testing.T) {
	d, ok := tableDate("45470", true)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 27, 0, 0, 0, 0, time.UTC), d)

	_, ok = tableDate("45470", false)
	assert.False(t, ok)

	_, ok = tableDate("yesterday", true)
	assert.False(t, ok)
}

func TestHeaderColumns(t *testing.T) {
	cols, ok := headerColumns([]string{"Txn Date", "Value Date", "Particulars", "Amount", "Dr/Cr", "Category"})
	require.True(t, ok)
	assert.Equal(t, columns{0, 2, 3, 4, 5}, cols)

	_, ok = headerColumns([]string{"foo", "bar"})
	assert.False(t, ok)
}

func TestImportTable_UnknownBank(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("2024-06-01,Salary,100\n"))
	require.NoError(t, err)
	_, err = newImporter(&fakeLedger{}).ImportTable(testCtx(), Request{AccountID: "a", Bank: "chase"}, table)
	assert.ErrorContains(t, err, `unknown bank "chase"`)
}

func TestImportTable_MalformedFirstRowIsReported(t *testing.T) {
	fl := &fakeLedger{}
	table, err := ReadCSV(strings.NewReader("yesterday,Salary,100\n2024-06-02,Grocery store,250.00\n"))
	require.NoError(t, err)

	res, err := newImporter(fl).ImportTable(testCtx(), Request{AccountID: "a"}, table)
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Line)
	assert.ErrorIs(t, res.Errors[0], model.ErrDateResolution)
	require.Len(t, fl.created, 1)
	assert.Equal(t, "Grocery store", fl.created[0].Description)
}

func TestImportTable_HeaderOnly(t *testing.T) {
	fl := &fakeLedger{}
	table, err := ReadCSV(strings.NewReader("Date,Description,Amount\n"))
	require.NoError(t, err)

	_, err = newImporter(fl).ImportTable(testCtx(), Request{AccountID: "a"}, table)
	assert.ErrorIs(t, err, model.ErrNoTransactions)
	assert.Empty(t, fl.created)
}
