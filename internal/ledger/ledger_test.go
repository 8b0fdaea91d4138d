package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtflow/internal/dedupe"
	"github.com/cleared-dev/stmtflow/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func txn(day int, desc, amount string, typ model.TransactionType) model.ParsedTransaction {
	return model.ParsedTransaction{
		Date:        time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      dec(amount),
		Type:        typ,
		BankType:    "hdfc",
		PatternUsed: "hdfc-full",
		SourceLine:  desc,
		LineNumber:  day,
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	_, err = s.CreateAccount(context.Background(), model.Account{Name: "Savings"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()
	accts, err := s.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accts, 1)
	assert.Equal(t, "Savings", accts[0].Name)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	a, err := s.CreateAccount(ctx, model.Account{
		Name: "HDFC Savings", Type: model.AccountTypeSavings, Bank: "hdfc", OpeningBalance: dec("340.01"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "INR", a.Currency)
	assert.True(t, a.Balance.Equal(dec("340.01")))

	_, err = s.CreateAccount(ctx, model.Account{Name: "hdfc savings"})
	assert.ErrorIs(t, err, ErrAccountExists)

	_, err = s.CreateAccount(ctx, model.Account{Name: "  "})
	assert.Error(t, err)

	byName, err := s.Account(ctx, "HDFC SAVINGS")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byName.ID)

	byID, err := s.Account(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "HDFC Savings", byID.Name)
	assert.Equal(t, model.AccountTypeSavings, byID.Type)

	_, err = s.Account(ctx, "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = s.CreateAccount(ctx, model.Account{Name: "Cash", Type: model.AccountTypeCash})
	require.NoError(t, err)
	accts, err := s.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 2)
	assert.Equal(t, "Cash", accts[0].Name)
}

func TestCreateBatch_FindExistingAndBalance(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	a, err := s.CreateAccount(ctx, model.Account{Name: "Main", OpeningBalance: dec("340.01")})
	require.NoError(t, err)

	batch := []model.ParsedTransaction{
		txn(27, "UPI-BEHARA SRI SAI ARJUN-SAIARJUN1202@OK", "1000.00", model.TypeIncome),
		txn(8, "ATW-416021XXXXXX2625-P3ENHE44-HYDERABAD", "8000.00", model.TypeExpense),
		txn(9, "SALARY JUNE", "10000.50", model.TypeIncome),
	}
	n, err := s.CreateBatch(ctx, a.ID, "run-1", batch)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	key := dedupe.Key(batch[0].Description, dedupe.DefaultPrefixLength)
	found, err := s.FindExisting(ctx, a.ID, batch[0].Date, key, dec("1000"))
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.FindExisting(ctx, a.ID, batch[0].Date, key, dec("1000.01"))
	require.NoError(t, err)
	assert.False(t, found)

	bal, err := s.RecalculateBalance(ctx, a.Name)
	require.NoError(t, err)
	assert.Equal(t, "3340.51", bal.StringFixed(2))

	again, err := s.Account(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "3340.51", again.Balance.StringFixed(2), "cached account must be refreshed")

	stored, err := s.Transactions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, 8, stored[0].Date.Day(), "ordered by date")
	assert.Equal(t, "run-1", stored[0].RunID)
	assert.Equal(t, model.TypeExpense, stored[0].Type)
	assert.Equal(t, "hdfc-full", stored[0].PatternUsed)
	assert.True(t, stored[2].Amount.Equal(dec("1000")))
}

func TestCreateBatch_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	a, err := s.CreateAccount(ctx, model.Account{Name: "Main"})
	require.NoError(t, err)

	bad := txn(2, "BROKEN", "1.00", model.TransactionType("unknown"))
	n, err := s.CreateBatch(ctx, a.ID, "run-1", []model.ParsedTransaction{
		txn(1, "FIRST", "1.00", model.TypeIncome),
		bad,
	})
	require.ErrorIs(t, err, model.ErrPersistence)
	assert.Zero(t, n)

	stored, err := s.Transactions(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCreateBatch_UnknownAccount(t *testing.T) {
	s := openStore(t)
	_, err := s.CreateBatch(context.Background(), "nope", "run-1", []model.ParsedTransaction{
		txn(1, "FIRST", "1.00", model.TypeIncome),
	})
	assert.ErrorIs(t, err, model.ErrPersistence)
}

func TestCreateBatch_Empty(t *testing.T) {
	n, err := openStore(t).CreateBatch(context.Background(), "any", "run", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
