// Package app opens the database and wires the domain services shared by every binary.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	accountStore "github.com/MrJamesThe3rd/paisa/internal/account/store"
	"github.com/MrJamesThe3rd/paisa/internal/category"
	categoryStore "github.com/MrJamesThe3rd/paisa/internal/category/store"
	"github.com/MrJamesThe3rd/paisa/internal/config"
	"github.com/MrJamesThe3rd/paisa/internal/database"
	"github.com/MrJamesThe3rd/paisa/internal/ingest"
	"github.com/MrJamesThe3rd/paisa/internal/observability"
	"github.com/MrJamesThe3rd/paisa/internal/parser"
	"github.com/MrJamesThe3rd/paisa/internal/rules"
	rulesStore "github.com/MrJamesThe3rd/paisa/internal/rules/store"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
	txStore "github.com/MrJamesThe3rd/paisa/internal/transaction/store"
	"github.com/MrJamesThe3rd/paisa/internal/unparsed"
)

type App struct {
	DB           *sql.DB
	Taxonomy     *category.Taxonomy
	Accounts     *account.Service
	Transactions *transaction.Service
	Rules        *rules.Service
	Engine       *rules.Engine
	Unparsed     *unparsed.Logger

	logger  *zap.Logger
	metrics *observability.Metrics
}

// Open connects, migrates, seeds the taxonomy and builds the services.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*App, error) {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	a, err := build(ctx, db, cfg, logger, metrics)
	if err != nil {
		db.Close()
		return nil, err
	}

	return a, nil
}

func build(ctx context.Context, db *sql.DB, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*App, error) {
	if err := database.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	categories := categoryStore.New(db)
	if err := categories.Seed(ctx, category.Defaults()); err != nil {
		return nil, fmt.Errorf("seeding categories: %w", err)
	}

	taxonomy, err := categories.LoadTaxonomy(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	fileRules, err := rules.LoadFile(cfg.Rules.File)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	mappings := rulesStore.New(db)

	engine, err := rules.NewEngine(taxonomy, append(rules.Builtin(), fileRules...), mappings, logger)
	if err != nil {
		return nil, fmt.Errorf("building rule engine: %w", err)
	}

	unparsedLog, err := unparsed.NewLogger(cfg.Unparsed.Dir, cfg.Unparsed.MaxFileSizeMB, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("opening unparsed log: %w", err)
	}

	accounts := account.NewService(accountStore.New(db), logger, metrics)

	return &App{
		DB:           db,
		Taxonomy:     taxonomy,
		Accounts:     accounts,
		Transactions: transaction.NewService(txStore.New(db), accounts, taxonomy),
		Rules:        rules.NewService(mappings, taxonomy),
		Engine:       engine,
		Unparsed:     unparsedLog,
		logger:       logger,
		metrics:      metrics,
	}, nil
}

// Pipeline builds the ingest pipeline. notifier may be nil.
func (a *App) Pipeline(notifier ingest.Notifier) *ingest.Pipeline {
	return ingest.NewPipeline(ingest.Deps{
		Registry:      parser.Default,
		Clock:         time.Now,
		Accounts:      a.Accounts,
		Transactions:  a.Transactions,
		Rules:         a.Engine,
		Uncategorized: a.Taxonomy.Uncategorized().ID,
		Unparsed:      a.Unparsed,
		Notifier:      notifier,
		Logger:        a.logger,
		Metrics:       a.metrics,
	})
}

func (a *App) Close() error {
	return a.DB.Close()
}
