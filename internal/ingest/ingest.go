// Package ingest turns one raw bank message into at most one stored transaction.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/encoding"
	"github.com/MrJamesThe3rd/paisa/internal/hashing"
	"github.com/MrJamesThe3rd/paisa/internal/notify"
	"github.com/MrJamesThe3rd/paisa/internal/observability"
	"github.com/MrJamesThe3rd/paisa/internal/parser"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

var tracer = otel.Tracer("ingest")

// Outcome is why a message did or did not become a new transaction.
type Outcome string

const (
	OutcomeCreated        Outcome = "created"
	OutcomeDuplicate      Outcome = "duplicate"
	OutcomeNoMatch        Outcome = "no_match"
	OutcomeCreditRejected Outcome = "credit_rejected"
	OutcomeUnclassified   Outcome = "unclassified"
	OutcomeUnstableHash   Outcome = "unstable_hash"
)

// Stored reports whether a transaction exists for the message after ingestion.
func (o Outcome) Stored() bool {
	return o == OutcomeCreated || o == OutcomeDuplicate
}

type AccountResolver interface {
	Resolve(ctx context.Context, bankName, last4 string) (*uuid.UUID, error)
}

type Transactions interface {
	FindByHash(ctx context.Context, hash string) (*transaction.Transaction, error)
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

type Categorizer interface {
	Apply(ctx context.Context, f parser.Fields) (*uuid.UUID, error)
}

type UnparsedLogger interface {
	Log(raw, source string)
}

type Notifier interface {
	Dispatch(id uuid.UUID, kind notify.Kind)
}

// Candidate is a parsed message with its account resolved and its hash computed.
type Candidate struct {
	RawText   string
	Parser    string
	Fields    parser.Fields
	AccountID *uuid.UUID
	Hash      string
}

// AmbiguousAccount is true when the message did not say which account was used.
func (c *Candidate) AmbiguousAccount() bool {
	return c.AccountID == nil
}

type Result struct {
	Outcome          Outcome
	Transaction      *transaction.Transaction
	Parser           string
	AmbiguousAccount bool
}

type Deps struct {
	// Registry builds the ordered parser list for a clock; parser.Default in production.
	Registry func(now func() time.Time) []parser.Parser
	// Clock supplies the year for templates that omit it. Defaults to time.Now.
	Clock        func() time.Time
	Accounts     AccountResolver
	Transactions Transactions
	Rules        Categorizer
	// Uncategorized is assigned when no rule matches.
	Uncategorized uuid.UUID
	// Unparsed and Notifier may be nil.
	Unparsed UnparsedLogger
	Notifier Notifier
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

type Pipeline struct {
	registry      func(now func() time.Time) []parser.Parser
	parsers       []parser.Parser
	accounts      AccountResolver
	transactions  Transactions
	rules         Categorizer
	uncategorized uuid.UUID
	unparsed      UnparsedLogger
	notifier      Notifier
	logger        *zap.Logger
	metrics       *observability.Metrics
}

func NewPipeline(deps Deps) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Pipeline{
		registry:      deps.Registry,
		parsers:       deps.Registry(clock),
		accounts:      deps.Accounts,
		transactions:  deps.Transactions,
		rules:         deps.Rules,
		uncategorized: deps.Uncategorized,
		unparsed:      deps.Unparsed,
		notifier:      deps.Notifier,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
	}
}

// Run classifies, parses, resolves and hashes raw. It returns a candidate, or an outcome
// explaining the rejection. source labels the message in the unparsed log.
func (p *Pipeline) Run(ctx context.Context, raw, source string) (*Candidate, Outcome, error) {
	return p.run(ctx, raw, source, p.parsers)
}

func (p *Pipeline) run(ctx context.Context, raw, source string, parsers []parser.Parser) (*Candidate, Outcome, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.Run")
	defer span.End()

	text := encoding.NormalizeText(raw)

	switch ClassifyFlow(text) {
	case FlowCredit:
		return nil, OutcomeCreditRejected, nil
	case FlowUnknown:
		// Unknown phrasing from an unsupported bank is still worth a template.
		p.logUnparsed(raw, source)
		return nil, OutcomeUnclassified, nil
	}

	fields, name, ok := parser.Match(parsers, text)
	if !ok {
		p.logUnparsed(raw, source)
		return nil, OutcomeNoMatch, nil
	}

	span.SetAttributes(attribute.String("parser", name))

	accountID, err := p.accounts.Resolve(ctx, fields.BankName, fields.AccountLast4)
	if err != nil {
		return nil, "", fmt.Errorf("resolving account: %w", err)
	}

	hash, ok := hashing.Generate(hashing.Input{
		OccurredAt: fields.OccurredAt,
		Amount:     fields.Amount,
		AccountID:  accountID,
		BankName:   fields.BankName,
		Merchant:   fields.Merchant,
		Currency:   fields.Currency,
	})
	if !ok {
		p.logger.Warn("could not build a stable hash",
			zap.String("parser", name),
			zap.Bool("has_amount", fields.Amount.Valid),
			zap.Bool("has_timestamp", !fields.OccurredAt.IsZero()),
		)

		return nil, OutcomeUnstableHash, nil
	}

	return &Candidate{
		RawText:   raw,
		Parser:    name,
		Fields:    fields,
		AccountID: accountID,
		Hash:      hash,
	}, "", nil
}

// logUnparsed hands raw to the unparsed log, which keeps only finance-related text.
func (p *Pipeline) logUnparsed(raw, source string) {
	if p.unparsed != nil {
		p.unparsed.Log(raw, source)
	}
}

// Ingest runs the whole pipeline and stores the transaction. Only store failures are errors;
// every rejection is reported through Result.Outcome.
func (p *Pipeline) Ingest(ctx context.Context, raw, source string) (*Result, error) {
	return p.ingestWith(ctx, raw, source, p.parsers)
}

// IngestReceived is Ingest for a message received at a known past time, as in a backup
// import. Templates without a year take it from receivedAt instead of the clock.
func (p *Pipeline) IngestReceived(ctx context.Context, raw, source string, receivedAt time.Time) (*Result, error) {
	if receivedAt.IsZero() {
		return p.Ingest(ctx, raw, source)
	}

	return p.ingestWith(ctx, raw, source, p.registry(func() time.Time { return receivedAt }))
}

func (p *Pipeline) ingestWith(ctx context.Context, raw, source string, parsers []parser.Parser) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.Ingest")
	defer span.End()

	start := time.Now()

	res, err := p.ingest(ctx, raw, source, parsers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.metrics.RecordIngest("error", time.Since(start))
		p.logger.Error("ingest failed", zap.String("source", source), zap.Error(err))

		return nil, err
	}

	span.SetAttributes(attribute.String("outcome", string(res.Outcome)))
	p.metrics.RecordIngest(string(res.Outcome), time.Since(start))

	fields := []zap.Field{zap.String("outcome", string(res.Outcome)), zap.String("source", source)}
	if res.Parser != "" {
		fields = append(fields, zap.String("parser", res.Parser))
	}

	if res.Transaction != nil {
		fields = append(fields,
			zap.String("transaction_id", res.Transaction.ID.String()),
			zap.String("status", string(res.Transaction.Status)),
			zap.Bool("ambiguous_account", res.AmbiguousAccount),
		)
	}

	p.logger.Info("message ingested", fields...)

	return res, nil
}

func (p *Pipeline) ingest(ctx context.Context, raw, source string, parsers []parser.Parser) (*Result, error) {
	c, outcome, err := p.run(ctx, raw, source, parsers)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return &Result{Outcome: outcome}, nil
	}

	res := &Result{Parser: c.Parser, AmbiguousAccount: c.AmbiguousAccount()}

	existing, err := p.transactions.FindByHash(ctx, c.Hash)
	switch {
	case err == nil:
		res.Outcome, res.Transaction = OutcomeDuplicate, existing
		return res, nil
	case !errors.Is(err, transaction.ErrNotFound):
		return nil, fmt.Errorf("checking for duplicate: %w", err)
	}

	subID, err := p.rules.Apply(ctx, c.Fields)
	if err != nil {
		return nil, fmt.Errorf("applying rules: %w", err)
	}

	if subID == nil {
		subID = &p.uncategorized
	}

	tx, err := p.transactions.Create(ctx, transaction.CreateParams{
		UniqueHash:    c.Hash,
		RawText:       c.RawText,
		Amount:        c.Fields.Amount.Decimal,
		Currency:      c.Fields.Currency,
		Merchant:      c.Fields.Merchant,
		Description:   c.Fields.Description,
		Channel:       string(c.Fields.Channel),
		BankName:      c.Fields.BankName,
		OccurredAt:    c.Fields.OccurredAt,
		AccountID:     c.AccountID,
		SubcategoryID: *subID,
	})
	if errors.Is(err, transaction.ErrDuplicate) {
		// Another delivery of the same message won the insert.
		existing, err := p.transactions.FindByHash(ctx, c.Hash)
		if err != nil {
			return nil, fmt.Errorf("re-reading duplicate: %w", err)
		}

		res.Outcome, res.Transaction = OutcomeDuplicate, existing

		return res, nil
	}

	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	if p.notifier != nil {
		p.notifier.Dispatch(tx.ID, notify.KindNew)
	}

	res.Outcome, res.Transaction = OutcomeCreated, tx

	return res, nil
}
