package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtflow/internal/model"
)

const accountColumns = `id, name, type, bank, number, currency, opening_balance, balance, created_at`

// CreateAccount inserts a new account. ID, currency, type and created time
// are filled in when empty. The balance starts at the opening balance.
func (s *Store) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return model.Account{}, errors.New("account name is required")
	}
	if _, err := s.Account(ctx, a.Name); err == nil {
		return model.Account{}, fmt.Errorf("%w: %s", ErrAccountExists, a.Name)
	} else if !errors.Is(err, ErrAccountNotFound) {
		return model.Account{}, err
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Type == "" {
		a.Type = model.AccountTypeOther
	}
	if a.Currency == "" {
		a.Currency = "INR"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	a.OpeningBalance = a.OpeningBalance.Round(2)
	a.Balance = a.OpeningBalance

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Type), a.Bank, a.Number, a.Currency,
		a.OpeningBalance.StringFixed(2), a.Balance.StringFixed(2), a.CreatedAt.Format(timeLayout))
	if err != nil {
		return model.Account{}, fmt.Errorf("inserting account %s: %w", a.Name, err)
	}
	return a, nil
}

// Account finds an account by ID or by case-insensitive name.
func (s *Store) Account(ctx context.Context, ref string) (model.Account, error) {
	if v, ok := s.accounts.Get(accountKey(ref)); ok {
		return v.(model.Account), nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? OR name = ? COLLATE NOCASE LIMIT 1`,
		strings.TrimSpace(ref), strings.TrimSpace(ref))
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, ref)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("loading account %s: %w", ref, err)
	}

	s.accounts.Set(accountKey(a.ID), a, cache.DefaultExpiration)
	s.accounts.Set(accountKey(a.Name), a, cache.DefaultExpiration)
	return a, nil
}

// Accounts lists all accounts by name.
func (s *Store) Accounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("reading account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecalculateBalance sets the stored balance to opening balance plus income
// minus expense and returns it. The read and the write share one SQL
// transaction, so concurrent imports into an account cannot store a stale sum.
func (s *Store) RecalculateBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	a, err := s.Account(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("beginning balance update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	balance, err := sumBalance(ctx, tx, a.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = ? WHERE id = ?`, balance.StringFixed(2), a.ID); err != nil {
		return decimal.Zero, fmt.Errorf("storing balance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("committing balance: %w", err)
	}

	s.accounts.Delete(accountKey(a.ID))
	s.accounts.Delete(accountKey(a.Name))
	return balance, nil
}

// sumBalance computes opening + income - expense for an account inside tx.
// The opening balance is read in tx rather than from the cache.
func sumBalance(ctx context.Context, tx *sql.Tx, accountID string) (decimal.Decimal, error) {
	var opening string
	if err := tx.QueryRowContext(ctx, `SELECT opening_balance FROM accounts WHERE id = ?`, accountID).Scan(&opening); err != nil {
		return decimal.Zero, fmt.Errorf("reading opening balance: %w", err)
	}
	balance, err := decimal.NewFromString(opening)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing opening balance %q: %w", opening, err)
	}

	rows, err := tx.QueryContext(ctx, `SELECT amount, type FROM transactions WHERE account_id = ?`, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var amount, typ string
		if err := rows.Scan(&amount, &typ); err != nil {
			return decimal.Zero, fmt.Errorf("reading transaction: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing stored amount %q: %w", amount, err)
		}
		if model.TransactionType(typ) == model.TypeIncome {
			balance = balance.Add(d)
		} else {
			balance = balance.Sub(d)
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("summing transactions: %w", err)
	}
	return balance, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(sc scanner) (model.Account, error) {
	var (
		a                         model.Account
		typ, opening, bal, create string
	)
	if err := sc.Scan(&a.ID, &a.Name, &typ, &a.Bank, &a.Number, &a.Currency, &opening, &bal, &create); err != nil {
		return model.Account{}, err
	}
	a.Type = model.AccountType(typ)
	var err error
	if a.OpeningBalance, err = decimal.NewFromString(opening); err != nil {
		return model.Account{}, fmt.Errorf("parsing opening balance %q: %w", opening, err)
	}
	if a.Balance, err = decimal.NewFromString(bal); err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", bal, err)
	}
	if a.CreatedAt, err = time.Parse(timeLayout, create); err != nil {
		return model.Account{}, fmt.Errorf("parsing created_at %q: %w", create, err)
	}
	return a, nil
}

func accountKey(ref string) string {
	return "acct:" + strings.ToLower(strings.TrimSpace(ref))
}
