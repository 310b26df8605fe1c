package main

import (
	"context"
	"log/slog"
	"os"

	"quotebuilder/internal/config"
	"quotebuilder/internal/domain/repositories"
	"quotebuilder/internal/drafts"
	"quotebuilder/internal/preview"
	"quotebuilder/internal/service"
	"quotebuilder/internal/storage"
)

// app is everything a command needs, built once per invocation
type app struct {
	docs     *service.DocumentService
	browser  *drafts.Browser
	renderer *preview.Renderer
	close    func() error
}

type appOpener func(ctx context.Context) (*app, error)

// openApp builds the app from the environment. Logs go to stderr at warn level
// so they don't mix with command output.
func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if cfg.LogLevel == "debug" || cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	logger, closeLog, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg, logger, nil)
	if err != nil {
		closeLog()
		return nil, err
	}

	a, err := newApp(store, cfg, logger)
	if err != nil {
		store.Close()
		closeLog()
		return nil, err
	}
	a.close = func() error {
		a.browser.Close()
		err := store.Close()
		closeLog()
		return err
	}
	return a, nil
}

func newApp(store repositories.DocumentStore, cfg *config.Config, logger *slog.Logger) (*app, error) {
	renderer, err := preview.NewRenderer(preview.Issuer{
		Name:      cfg.IssuerName,
		Initials:  cfg.IssuerInitials,
		Signatory: cfg.IssuerSignatory,
		Tagline:   cfg.IssuerTagline,
	}, nil)
	if err != nil {
		return nil, err
	}

	docs := service.NewDocumentService(store, logger)
	return &app{
		docs:     docs,
		browser:  drafts.NewBrowser(docs, renderer.Catalog(), cfg.SearchDebounce, logger),
		renderer: renderer,
		close:    func() error { return nil },
	}, nil
}
