package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtflow/internal/dedupe"
	"github.com/cleared-dev/stmtflow/internal/model"
)

const transactionColumns = `id, account_id, run_id, date, description, amount, type, category,
	bank_type, pattern, source_line, line_number, reference, created_at`

// FindExisting reports whether a transaction with the same account, date,
// amount and description key is stored.
func (s *Store) FindExisting(ctx context.Context, accountID string, date time.Time, descKey string, amount decimal.Decimal) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM transactions WHERE account_id = ? AND date = ? AND amount = ? AND desc_key = ? LIMIT 1`,
		accountID, date.Format(dateLayout), amount.StringFixed(2), descKey).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("finding existing transaction: %w", err)
	}
	return true, nil
}

// CreateBatch inserts txns in one SQL transaction. Either every row is
// stored or none is; failures wrap model.ErrPersistence.
func (s *Store) CreateBatch(ctx context.Context, accountID, runID string, txns []model.ParsedTransaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning batch: %w", model.ErrPersistence, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions (`+transactionColumns+`, desc_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: preparing insert: %w", model.ErrPersistence, err)
	}
	defer stmt.Close()

	created := s.now().Format(timeLayout)
	for _, t := range txns {
		_, err := stmt.ExecContext(ctx,
			uuid.NewString(), accountID, runID, t.Date.Format(dateLayout), t.Description,
			t.Amount.StringFixed(2), string(t.Type), t.Category, t.BankType, t.PatternUsed,
			t.SourceLine, t.LineNumber, t.Reference, created,
			dedupe.Key(t.Description, s.KeyLength))
		if err != nil {
			return 0, fmt.Errorf("%w: inserting line %d: %w", model.ErrPersistence, t.LineNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing batch: %w", model.ErrPersistence, err)
	}
	return len(txns), nil
}

// Transactions lists an account's transactions by date, then insertion order.
func (s *Store) Transactions(ctx context.Context, accountID string) ([]model.StoredTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE account_id = ? ORDER BY date, rowid`, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []model.StoredTransaction
	for rows.Next() {
		var (
			t                     model.StoredTransaction
			date, amount, typ, at string
		)
		err := rows.Scan(&t.ID, &t.AccountID, &t.RunID, &date, &t.Description, &amount, &typ, &t.Category,
			&t.BankType, &t.PatternUsed, &t.SourceLine, &t.LineNumber, &t.Reference, &at)
		if err != nil {
			return nil, fmt.Errorf("reading transaction: %w", err)
		}
		if t.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		if t.CreatedAt, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", at, err)
		}
		t.Type = model.TransactionType(typ)
		out = append(out, t)
	}
	return out, rows.Err()
}
