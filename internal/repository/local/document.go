// Package local keeps document records in an embedded badger key-value store.
// The whole collection lives under one key as a JSON array, the same layout the
// browser build kept in localStorage, so exported collections load unchanged.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/domain/models"

	"github.com/dgraph-io/badger/v4"
)

// CollectionKey is the fixed key holding the serialized document array
const CollectionKey = "gq_documents"

// DocumentStore implements repositories.DocumentStore on badger
type DocumentStore struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time
}

// Options configures the badger database
type Options struct {
	// Path is the badger directory; ignored when InMemory is set
	Path     string
	InMemory bool
	// Now overrides the clock used for created_at/updated_at
	Now func() time.Time
}

// Open opens (or creates) the local store
func Open(opts Options, logger *slog.Logger) (*DocumentStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	// badger's own logger is chatty at INFO; our slog logger covers the operations
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &DocumentStore{db: db, logger: logger, now: now}, nil
}

// Close closes the database.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

// Save upserts by ID with a linear scan over the collection. An existing
// record keeps its created_at; updated_at is always refreshed.
func (s *DocumentStore) Save(ctx context.Context, rec *models.Record) (*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved := *rec
	err := s.db.Update(func(txn *badger.Txn) error {
		docs, err := s.load(txn)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		saved.UpdatedAt = now

		idx := indexOf(docs, rec.ID)
		if idx >= 0 {
			saved.CreatedAt = docs[idx].CreatedAt
			docs[idx] = saved
		} else {
			if saved.CreatedAt.IsZero() {
				saved.CreatedAt = now
			}
			docs = append(docs, saved)
		}

		return s.store(txn, docs)
	})
	if err != nil {
		return nil, fmt.Errorf("save document %s locally: %w", rec.ID, err)
	}

	s.logger.Debug("document saved locally", "id", saved.ID)
	return &saved, nil
}

// GetByID retrieves a document by ID
func (s *DocumentStore) GetByID(ctx context.Context, id string) (*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found *models.Record
	err := s.db.View(func(txn *badger.Txn) error {
		docs, err := s.load(txn)
		if err != nil {
			return err
		}
		if idx := indexOf(docs, id); idx >= 0 {
			found = &docs[idx]
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get document locally: %w", err)
	}
	if found == nil {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return found, nil
}

// GetAll returns the stored collection in insertion order
func (s *DocumentStore) GetAll(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var docs []models.Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		docs, err = s.load(txn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list documents locally: %w", err)
	}

	return docs, nil
}

// Delete rewrites the collection without the given ID
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		docs, err := s.load(txn)
		if err != nil {
			return err
		}

		kept := docs[:0]
		for _, d := range docs {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		return s.store(txn, kept)
	})
	if err != nil {
		return fmt.Errorf("delete document %s locally: %w", id, err)
	}

	s.logger.Debug("document deleted locally", "id", id)
	return nil
}

// Import replaces the whole collection with a serialized array, as exported from
// the browser's localStorage.
func (s *DocumentStore) Import(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var docs []models.Record
	if err := json.Unmarshal(data, &docs); err != nil {
		return 0, fmt.Errorf("%w: collection is not a JSON array of documents: %v", domain.ErrValidation, err)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return s.store(txn, docs)
	})
	if err != nil {
		return 0, fmt.Errorf("import documents: %w", err)
	}
	return len(docs), nil
}

// load reads the collection. A missing key or an unreadable value both yield an
// empty collection, the latter with a warning.
func (s *DocumentStore) load(txn *badger.Txn) ([]models.Record, error) {
	item, err := txn.Get([]byte(CollectionKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return []models.Record{}, nil
		}
		return nil, err
	}

	docs := []models.Record{}
	err = item.Value(func(val []byte) error {
		if jsonErr := json.Unmarshal(val, &docs); jsonErr != nil {
			s.logger.Warn("local collection unreadable, treating as empty", "error", jsonErr)
			docs = []models.Record{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func (s *DocumentStore) store(txn *badger.Txn, docs []models.Record) error {
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	return txn.Set([]byte(CollectionKey), data)
}

func indexOf(docs []models.Record, id string) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}
