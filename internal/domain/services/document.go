package services

import (
	"context"

	"quotebuilder/internal/domain/models"
)

// DocumentService handles persistence rules for proposals, budgets and contracts
type DocumentService interface {
	// Save validates the editing state and upserts it by ID
	Save(ctx context.Context, doc *models.Document) (*models.Record, error)

	// Get retrieves a stored record
	Get(ctx context.Context, id string) (*models.Record, error)

	// List returns every stored record in storage order
	List(ctx context.Context) ([]models.Record, error)

	// Delete removes a record; a missing ID is not an error
	Delete(ctx context.Context, id string) error

	// UpdateStatus moves a stored record to another commercial status
	UpdateStatus(ctx context.Context, id, status string) (*models.Record, error)
}
