package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/common"
	"github.com/joseph-ayodele/legalease/internal/extract"
	"github.com/joseph-ayodele/legalease/internal/gateway"
	"github.com/joseph-ayodele/legalease/internal/llm"
	"github.com/joseph-ayodele/legalease/internal/llm/gemini"
	"github.com/joseph-ayodele/legalease/internal/llm/openai"
	"github.com/joseph-ayodele/legalease/internal/ocr"
	"github.com/joseph-ayodele/legalease/internal/repository"
	"github.com/joseph-ayodele/legalease/internal/resource"
	"github.com/joseph-ayodele/legalease/internal/retry"
)

// app holds the long-lived collaborators shared by every session.
type app struct {
	gateway *gateway.Gateway
	views   *resource.Manager
	runs    repository.RunRepository // nil without DB_URL
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newSession builds an orchestrator with the configured tick and retry policy.
func (a *app) newSession(id string, notifier analysis.Notifier) *analysis.Orchestrator {
	opts := analysis.Options{
		SessionID:    id,
		TickInterval: cfg.Analysis.TickInterval,
		RiskRetry: retry.Policy{
			MaxAttempts: cfg.Analysis.RiskAttempts,
			Backoff:     retry.Linear(cfg.Analysis.RiskBackoffStep),
		},
		RunTimeout: cfg.Analysis.RunTimeout,
		Notifier:   notifier,
	}
	if a.runs != nil {
		opts.Observer = a.runs
	}
	return analysis.NewOrchestrator(a.gateway, a.views, opts, logger)
}

func buildApp(ctx context.Context, needLedger bool) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &app{}

	completer, err := newCompleter(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	analyzer := llm.NewClient(completer, llm.ClientOptions{Lenient: cfg.LLM.Lenient}, logger)
	extractor := extract.NewOCRAdapter(ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.Extract.Pdftotext,
		Pdftoppm:      cfg.Extract.Pdftoppm,
		Tesseract:     cfg.Extract.Tesseract,
		TesseractLang: cfg.Extract.TesseractLang,
		TessdataDir:   cfg.Extract.TessdataDir,
		DPI:           cfg.Extract.DPI,
		MaxPages:      cfg.Extract.MaxPages,
	}, logger), logger)
	a.gateway = gateway.New(analyzer, extractor, logger)

	store, closeStore, err := newBlobStore(ctx, cfg.Resource, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)
	a.views = resource.NewManager(store, cfg.Resource.TTL, logger)

	if needLedger && cfg.Database.DSN != "" {
		db, err := openLedger(ctx, cfg.Database, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.runs = repository.NewRunRepository(db, logger)
	}
	logger.Info("app.ready",
		"llm", completer.Name(),
		"view_store", cfg.Resource.Store,
		"ledger", a.runs != nil,
	)
	return a, nil
}

func newCompleter(ctx context.Context, c common.LLMConfig, logger *slog.Logger) (llm.Completer, error) {
	switch c.Provider {
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:       c.APIKey,
			BaseURL:      c.BaseURL,
			Model:        c.Model,
			Organization: c.OpenAIOrg,
			Temperature:  c.Temperature,
			MaxTokens:    c.MaxTokens,
			Timeout:      c.Timeout,
		}, logger), nil
	case "gemini":
		gc, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      c.APIKey,
			Model:       c.Model,
			Temperature: c.Temperature,
			MaxTokens:   c.MaxTokens,
			Timeout:     c.Timeout,
			BaseURL:     c.BaseURL,
		}, logger)
		if err != nil {
			return nil, err
		}
		return gc, nil
	}
	return nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("unknown LLM provider %q", c.Provider), common.ErrInvalidInput)
}

func newBlobStore(ctx context.Context, c common.ResourceConfig, logger *slog.Logger) (resource.BlobStore, func(), error) {
	if c.Store == "redis" {
		rs, err := resource.NewRedisStore(ctx, c.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis view store: %w", err)
		}
		return rs, func() {
			if err := rs.Close(); err != nil {
				logger.Warn("failed to close redis view store", "error", err)
			}
		}, nil
	}
	return resource.NewMemoryStore(c.TTL), func() {}, nil
}

func openLedger(ctx context.Context, c common.DatabaseConfig, logger *slog.Logger) (*repository.DB, error) {
	db, err := repository.Open(ctx, repository.Config{
		DSN:             c.DSN,
		MaxConns:        c.MaxConns,
		MinConns:        c.MinConns,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
		DialTimeout:     c.DialTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := db.HealthCheck(ctx, c.DialTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate run ledger: %w", err)
	}
	return db, nil
}
