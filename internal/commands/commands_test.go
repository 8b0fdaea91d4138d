package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/stmtflow/internal/commands"
	"github.com/cleared-dev/stmtflow/internal/config"
)

var statementPath = filepath.Join("..", "..", "testdata", "hdfc_statement.txt")

func runStmtflow(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runStmtflow(t, "init", dir, "--name", "Home", "--account", "Main:hdfc:340.01")
	require.NoError(t, err)
	require.Contains(t, out, "Initialized stmtflow workspace")
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initWorkspace(t)

	for _, d := range []string{"logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}
	assert.FileExists(t, filepath.Join(dir, "ledger.db"))
	assert.FileExists(t, filepath.Join(dir, ".gitignore"))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Home", cfg.Workspace.Name)
	require.Len(t, cfg.Accounts, 1)
	assert.Equal(t, "hdfc", cfg.Accounts[0].Bank)
	assert.Equal(t, "340.01", cfg.Accounts[0].OpeningBalance)

	out, err := runStmtflow(t, "accounts", "list", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Main")
	assert.Contains(t, out, "340.01 INR")
}

func TestInit_RepeatedAccountIsCreatedOnce(t *testing.T) {
	dir := t.TempDir()
	out, err := runStmtflow(t, "init", dir, "--name", "Home", "--log-level", "debug",
		"--account", "Main:hdfc", "--account", "main")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized stmtflow workspace")

	out, err = runStmtflow(t, "accounts", "list", "--repo", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Main")
}

func TestInit_Twice(t *testing.T) {
	dir := initWorkspace(t)
	_, err := runStmtflow(t, "init", dir, "--name", "Again")
	assert.ErrorContains(t, err, "already exists")
}

func TestInit_BadAccountSpec(t *testing.T) {
	_, err := runStmtflow(t, "init", t.TempDir(), "--name", "Home", "--account", "Main:hdfc:lots")
	assert.ErrorContains(t, err, "opening balance")
}

func TestImport_FileTwice(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runStmtflow(t, "import", "--repo", dir, "--account", "main", "--file", statementPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported hdfc_statement.txt into Main (bank: hdfc")
	assert.Contains(t, out, "created: 2, skipped duplicates: 0, errors: 0")
	assert.Contains(t, out, "Balance: -6659.99 INR")

	out, err = runStmtflow(t, "import", "--repo", dir, "--account", "Main", "--file", statementPath)
	require.NoError(t, err)
	assert.Contains(t, out, "created: 0, skipped duplicates: 2, errors: 0")
	assert.Contains(t, out, "Balance: -6659.99 INR")

	out, err = runStmtflow(t, "runs", "--repo", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "created=2 skipped=0 errors=0")
	assert.Contains(t, lines[1], "created=0 skipped=2 errors=0")
}

func TestImport_DryRun(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runStmtflow(t, "import", "--repo", dir, "--account", "Main", "--file", statementPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run: hdfc_statement.txt")
	assert.Contains(t, out, "2024-06-27  income")
	assert.Contains(t, out, "2024-06-08  expense")
	assert.NotContains(t, out, "Balance:")

	out, err = runStmtflow(t, "export", "--repo", dir, "--account", "Main")
	require.NoError(t, err)
	assert.Equal(t, "date,description,amount,type,category,bank,reference\n", out)

	out, err = runStmtflow(t, "runs", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "(dry run)")
}

func TestImport_Dir(t *testing.T) {
	dir := initWorkspace(t)
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "uploads.csv"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "uploads.csv"), data, 0o644))

	out, err := runStmtflow(t, "import", "--repo", dir, "--account", "Main", "--dir")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported uploads.csv into Main (bank: generic")
	assert.Contains(t, out, "created: 3, skipped duplicates: 0, errors: 3")
	assert.Contains(t, out, "line 5: unresolvable date")
	assert.FileExists(t, filepath.Join(dir, "import", "processed", "uploads.csv"))

	out, err = runStmtflow(t, "import", "--repo", dir, "--account", "Main", "--dir")
	require.NoError(t, err)
	assert.Contains(t, out, "No files to import.")
}

func TestImport_Errors(t *testing.T) {
	dir := initWorkspace(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no workspace", []string{"import", "--repo", t.TempDir(), "--account", "Main", "--file", statementPath}, "run 'stmtflow init' first"},
		{"unknown account", []string{"import", "--repo", dir, "--account", "Nope", "--file", statementPath}, "account not found"},
		{"unknown bank", []string{"import", "--repo", dir, "--account", "Main", "--bank", "chase", "--file", statementPath}, `unknown bank "chase"`},
		{"file and dir", []string{"import", "--repo", dir, "--account", "Main", "--file", statementPath, "--dir"}, "none of the others can be"},
		{"neither file nor dir", []string{"import", "--repo", dir, "--account", "Main"}, "at least one of the flags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runStmtflow(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDetect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stmt.txt")
	text := "The Federal Bank Ltd\nStatement Date: 30/06/2024\n27/06/24 UPI-BEHARA SRI SAI ARJUN-SAIARJUN1202@OK 0000417929428703 27/06/24 1,000.00 1,340.01\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	out, err := runStmtflow(t, "detect", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Bank: Federal Bank (federal)")
	assert.Contains(t, out, "Statement date: 2024-06-30")

	out, err = runStmtflow(t, "detect", "--file", statementPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Bank: HDFC Bank (hdfc)")
	assert.Contains(t, out, "Statement date: not found")
}

func TestAccountsAdd(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runStmtflow(t, "accounts", "add", "Wallet", "--repo", dir, "--type", "cash", "--opening-balance", "250")
	require.NoError(t, err)
	assert.Contains(t, out, "Added account Wallet")

	_, err = runStmtflow(t, "accounts", "add", "wallet", "--repo", dir)
	assert.ErrorContains(t, err, "account already exists")

	_, err = runStmtflow(t, "accounts", "add", "Broker", "--repo", dir, "--type", "brokerage")
	assert.ErrorContains(t, err, "unknown account type")

	out, err = runStmtflow(t, "accounts", "list", "--repo", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Main")
	assert.Contains(t, lines[2], "Wallet")
	assert.Contains(t, lines[2], "250.00 INR")
}

func TestExport(t *testing.T) {
	dir := initWorkspace(t)
	_, err := runStmtflow(t, "import", "--repo", dir, "--account", "Main", "--file", statementPath)
	require.NoError(t, err)

	out, err := runStmtflow(t, "export", "--repo", dir, "--account", "Main")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "2024-06-08,ATW-"))
	assert.Contains(t, lines[2], ",1000.00,income,,hdfc,0000417929428703")

	xlsx := filepath.Join(t.TempDir(), "main.xlsx")
	out, err = runStmtflow(t, "export", "--repo", dir, "--account", "Main", "--format", "xlsx", "--out", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 transactions")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = runStmtflow(t, "export", "--repo", dir, "--account", "Main", "--format", "pdf")
	assert.ErrorContains(t, err, `unknown format "pdf"`)
	_, err = runStmtflow(t, "export", "--repo", dir, "--account", "Main", "--format", "xlsx")
	assert.ErrorContains(t, err, "--out is required")
}

func TestRuns_Empty(t *testing.T) {
	out, err := runStmtflow(t, "runs", "--repo", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No imports yet.\n", out)
}
