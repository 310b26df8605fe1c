// Package storage chooses between the remote and the local document store.
//
// The choice is made once, when the adapter is built: with a reachable remote
// store the adapter prefers it for every call and serves any failed call from
// the local store; without one it is pinned to the local store until restart.
package storage

import (
	"context"
	"log/slog"

	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/domain/repositories"
	"quotebuilder/internal/metrics"
)

// Mode reports which backend the adapter prefers
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Adapter implements repositories.DocumentStore over a preferred remote store and
// a local fallback.
type Adapter struct {
	remote  repositories.DocumentStore // nil in local-only mode
	local   repositories.DocumentStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	closers []func() error
}

// NewAdapter builds the adapter. A nil remote pins it to local-only mode.
func NewAdapter(remote, local repositories.DocumentStore, logger *slog.Logger, m *metrics.Metrics) *Adapter {
	a := &Adapter{remote: remote, local: local, logger: logger, metrics: m}
	logger.Info("document storage selected", "mode", a.Mode())
	return a
}

// Mode returns the backend chosen at construction
func (a *Adapter) Mode() Mode {
	if a.remote == nil {
		return ModeLocal
	}
	return ModeRemote
}

// Save never reports a remote failure: the record is stored locally instead.
func (a *Adapter) Save(ctx context.Context, rec *models.Record) (*models.Record, error) {
	if a.remote != nil {
		saved, err := a.remote.Save(ctx, rec)
		a.metrics.ObserveStorage(string(ModeRemote), "save", err)
		if err == nil {
			a.logger.Info("document saved", "id", saved.ID, "backend", ModeRemote)
			return saved, nil
		}
		a.fallback("save", rec.ID, err)
	}

	saved, err := a.local.Save(ctx, rec)
	a.metrics.ObserveStorage(string(ModeLocal), "save", err)
	if err != nil {
		return nil, err
	}
	a.logger.Info("document saved", "id", saved.ID, "backend", ModeLocal)
	return saved, nil
}

func (a *Adapter) GetByID(ctx context.Context, id string) (*models.Record, error) {
	if a.remote != nil {
		rec, err := a.remote.GetByID(ctx, id)
		a.metrics.ObserveStorage(string(ModeRemote), "get", err)
		if err == nil {
			return rec, nil
		}
		a.fallback("get", id, err)
	}

	rec, err := a.local.GetByID(ctx, id)
	a.metrics.ObserveStorage(string(ModeLocal), "get", err)
	return rec, err
}

func (a *Adapter) GetAll(ctx context.Context) ([]models.Record, error) {
	if a.remote != nil {
		recs, err := a.remote.GetAll(ctx)
		a.metrics.ObserveStorage(string(ModeRemote), "list", err)
		if err == nil {
			return recs, nil
		}
		a.fallback("list", "", err)
	}

	recs, err := a.local.GetAll(ctx)
	a.metrics.ObserveStorage(string(ModeLocal), "list", err)
	return recs, err
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	if a.remote != nil {
		err := a.remote.Delete(ctx, id)
		a.metrics.ObserveStorage(string(ModeRemote), "delete", err)
		if err == nil {
			a.logger.Info("document deleted", "id", id, "backend", ModeRemote)
			return nil
		}
		a.fallback("delete", id, err)
	}

	err := a.local.Delete(ctx, id)
	a.metrics.ObserveStorage(string(ModeLocal), "delete", err)
	if err != nil {
		return err
	}
	a.logger.Info("document deleted", "id", id, "backend", ModeLocal)
	return nil
}

// Close releases every backend opened for this adapter, newest first
func (a *Adapter) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *Adapter) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *Adapter) fallback(op, id string, err error) {
	a.metrics.Fallback(op)
	a.logger.Warn("remote store failed, using local store",
		"op", op,
		"id", id,
		"error", err,
	)
}
