package storage

import (
	"context"
	"fmt"
	"log/slog"

	"quotebuilder/internal/config"
	"quotebuilder/internal/domain/repositories"
	"quotebuilder/internal/metrics"
	"quotebuilder/internal/repository/local"
	"quotebuilder/internal/repository/postgres"
)

// Open builds the adapter from configuration. The local store must open; the
// remote store is best effort and a failure only pins the adapter to local mode.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*Adapter, error) {
	localStore, err := local.Open(local.Options{Path: cfg.LocalStorePath}, logger)
	if err != nil {
		return nil, err
	}

	remote, closeRemote := openRemote(ctx, cfg, logger)

	adapter := NewAdapter(remote, localStore, logger, m)
	adapter.onClose(localStore.Close)
	if closeRemote != nil {
		adapter.onClose(closeRemote)
	}

	return adapter, nil
}

func openRemote(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.DocumentStore, func() error) {
	if !cfg.RemoteEnabled() {
		logger.Info("remote store not configured, local mode active")
		return nil, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.RemoteConnectTimeout)
	defer cancel()

	pool, err := postgres.CreateConnectionPool(connectCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("remote store unreachable, local mode active for this process",
			"error", err,
			"class", postgres.ClassifyError(err),
		)
		return nil, nil
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	logger.Info("remote store connected", "table", tables.Documents)

	repo := postgres.NewDocumentRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})
	return repo, func() error {
		pool.Close()
		return nil
	}
}

// OpenLocal opens only the local store, for tools that must not touch the remote one.
func OpenLocal(cfg *config.Config, logger *slog.Logger) (*local.DocumentStore, error) {
	store, err := local.Open(local.Options{Path: cfg.LocalStorePath}, logger)
	if err != nil {
		return nil, fmt.Errorf("open local store at %s: %w", cfg.LocalStorePath, err)
	}
	return store, nil
}
