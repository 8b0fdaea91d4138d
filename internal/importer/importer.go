// Package importer runs statements through detection, parsing,
// classification and duplicate checks, then commits them to the ledger as
// one batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtflow/internal/bank"
	"github.com/cleared-dev/stmtflow/internal/classify"
	"github.com/cleared-dev/stmtflow/internal/dedupe"
	"github.com/cleared-dev/stmtflow/internal/id"
	"github.com/cleared-dev/stmtflow/internal/logger"
	"github.com/cleared-dev/stmtflow/internal/model"
	"github.com/cleared-dev/stmtflow/internal/parser"
	"github.com/cleared-dev/stmtflow/internal/statement"
)

// BankAuto asks for the issuing bank to be detected from the text.
const BankAuto = "auto"

// Ledger is the store an import commits to.
type Ledger interface {
	dedupe.Lookup
	CreateBatch(ctx context.Context, accountID, runID string, txns []model.ParsedTransaction) (int, error)
	RecalculateBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// Importer is safe for concurrent use; every call owns its parse state.
type Importer struct {
	ledger     Ledger
	classifier *classify.Classifier
	banks      *bank.Registry
	Guard      *dedupe.Guard
	// DescriptionLimit caps stored descriptions, in runes.
	DescriptionLimit int
}

// New wires an Importer.
func New(l Ledger, c *classify.Classifier, r *bank.Registry) *Importer {
	return &Importer{
		ledger:           l,
		classifier:       c,
		banks:            r,
		Guard:            dedupe.NewGuard(l),
		DescriptionLimit: parser.DefaultDescriptionLimit,
	}
}

// Request says where imported rows go.
type Request struct {
	AccountID string
	Bank      string // a registered bank name, or "auto" / "" to detect
	Source    string // file name or label recorded with the run
	DryRun    bool
}

// Batch is one statement ready to import.
type Batch struct {
	Request
	Profile       *bank.Profile
	StatementDate time.Time // zero when unknown
	Lines         []statement.Line
}

// ResolveProfile picks the bank profile for a request: the named one, or the
// detected one for "auto".
func (im *Importer) ResolveProfile(name, text string) (*bank.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, BankAuto) {
		return im.banks.Detect(text), nil
	}
	p := im.banks.Get(name)
	if p == nil {
		return nil, fmt.Errorf("unknown bank %q (known: %s)", name, strings.Join(im.banks.Names(), ", "))
	}
	return p, nil
}

// ImportText imports extracted statement text.
func (im *Importer) ImportText(ctx context.Context, req Request, text string) (*model.ImportResult, error) {
	p, err := im.ResolveProfile(req.Bank, text)
	if err != nil {
		return nil, err
	}
	stmtDate, _ := statement.ResolveDate(text)
	return im.Import(ctx, Batch{
		Request:       req,
		Profile:       p,
		StatementDate: stmtDate,
		Lines:         statement.Normalize(text),
	})
}

// Import parses every line of b. Rejected lines are recorded and skipped;
// admitted rows are committed together. A non-nil error means nothing was
// committed and wraps model.ErrPersistence.
func (im *Importer) Import(ctx context.Context, b Batch) (*model.ImportResult, error) {
	res := im.newResult(b.Request, b.Profile.Name)
	res.StatementDate = b.StatementDate
	log := im.runLogger(ctx, res)

	sess := parser.NewSession(b.Profile, b.StatementDate)
	sess.DescriptionLimit = im.DescriptionLimit

	var txns []model.ParsedTransaction
	for _, l := range b.Lines {
		m, err := sess.Parse(l)
		var txn model.ParsedTransaction
		if err == nil {
			txn, err = sess.Convert(m)
		}
		if err != nil {
			if errors.Is(err, model.ErrStructural) {
				log.Trace().Int("line", l.Number).Msg("skipped")
				continue
			}
			res.Errors = append(res.Errors, model.LineError{Line: l.Number, Text: l.Text, Err: err})
			log.Debug().Int("line", l.Number).Err(err).Msg("rejected")
			continue
		}

		marker := ""
		if b.Profile.TrustMarker {
			marker = m.Marker()
		}
		v := im.classifier.Explain(txn.Description, txn.Amount, marker)
		txn.Type = v.Type
		log.Debug().Int("line", l.Number).Str("rule", txn.PatternUsed).
			Str("type", string(v.Type)).Stringer("layer", v.Layer).Msg("parsed")
		txns = append(txns, txn)
	}

	if len(txns) == 0 && len(res.Errors) == 0 {
		return im.empty(log, res, amountLines(b.Lines, sampleLines))
	}
	return im.commit(ctx, log, res, txns)
}

// sampleLines is how many amount-bearing lines an empty import reports.
const sampleLines = 3

func amountLines(lines []statement.Line, n int) []string {
	var out []string
	for _, l := range lines {
		if len(out) == n {
			break
		}
		if parser.HasAmount(l.Text) {
			out = append(out, fmt.Sprintf("line %d: %s", l.Number, l.Text))
		}
	}
	return out
}

// empty reports an import that produced neither rows nor rejected lines.
// Nothing is written.
func (im *Importer) empty(log zerolog.Logger, res *model.ImportResult, samples []string) (*model.ImportResult, error) {
	log.Warn().Strs("samples", samples).Msg("no transaction data found")
	if len(samples) == 0 {
		return res, fmt.Errorf("%w (bank %s)", model.ErrNoTransactions, res.Bank)
	}
	return res, fmt.Errorf("%w (bank %s); lines with amounts:\n  %s",
		model.ErrNoTransactions, res.Bank, strings.Join(samples, "\n  "))
}

func (im *Importer) newResult(req Request, bankName string) *model.ImportResult {
	return &model.ImportResult{
		RunID:     id.NewRunID(),
		AccountID: req.AccountID,
		Source:    req.Source,
		Bank:      bankName,
		DryRun:    req.DryRun,
	}
}

func (im *Importer) runLogger(ctx context.Context, res *model.ImportResult) zerolog.Logger {
	return logger.FromContext(ctx).With().
		Str("run_id", res.RunID).
		Str("bank", res.Bank).
		Str("source", res.Source).
		Logger()
}

// commit drops duplicates, stores the rest in one batch and refreshes the
// account balance.
func (im *Importer) commit(ctx context.Context, log zerolog.Logger, res *model.ImportResult, txns []model.ParsedTransaction) (*model.ImportResult, error) {
	admitted := make([]model.ParsedTransaction, 0, len(txns))
	for _, t := range txns {
		if t.Reference == "" {
			t.Reference = id.Reference(t.BankType, t.Date, t.Description)
		}
		dup, err := im.Guard.IsDuplicate(ctx, res.AccountID, t)
		if err != nil {
			return im.fail(log, res, err)
		}
		if dup {
			res.SkippedDuplicates++
			log.Debug().Int("line", t.LineNumber).Msg("duplicate")
			continue
		}
		admitted = append(admitted, t)
	}

	res.Transactions = admitted
	if res.DryRun {
		log.Info().Int("would_create", len(admitted)).Int("skipped", res.SkippedDuplicates).
			Int("errors", res.Failed()).Msg("dry run")
		return res, nil
	}

	n, err := im.ledger.CreateBatch(ctx, res.AccountID, res.RunID, admitted)
	if err != nil {
		return im.fail(log, res, err)
	}
	res.Created = n

	if n > 0 {
		if _, err := im.ledger.RecalculateBalance(ctx, res.AccountID); err != nil {
			log.Warn().Err(err).Msg("balance recalculation failed")
		}
	}

	for _, le := range res.Errors {
		log.Warn().Int("line", le.Line).Err(le.Err).Msg("line rejected")
	}
	log.Info().Int("created", res.Created).Int("skipped", res.SkippedDuplicates).
		Int("errors", res.Failed()).Msg("import committed")
	return res, nil
}

func (im *Importer) fail(log zerolog.Logger, res *model.ImportResult, err error) (*model.ImportResult, error) {
	res.Created = 0
	res.Transactions = nil
	if !errors.Is(err, model.ErrPersistence) {
		err = fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	log.Error().Err(err).Msg("import aborted")
	return res, err
}
