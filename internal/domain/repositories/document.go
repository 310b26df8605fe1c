package repositories

import (
	"context"

	"quotebuilder/internal/domain/models"
)

// DocumentStore persists document records keyed by their ID.
// Both the remote table and the local key-value collection implement it, and so
// does the storage adapter that chooses between them.
type DocumentStore interface {
	// Save upserts the record and returns what was stored (timestamps filled in)
	Save(ctx context.Context, rec *models.Record) (*models.Record, error)

	// GetByID returns domain.ErrNotFound when no record has the ID
	GetByID(ctx context.Context, id string) (*models.Record, error)

	// GetAll returns every stored record in no guaranteed order
	GetAll(ctx context.Context) ([]models.Record, error)

	// Delete removes the record; deleting a missing ID is not an error
	Delete(ctx context.Context, id string) error
}
