package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"quotebuilder/internal/config"
	"quotebuilder/internal/domain"
	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/domain/repositories"
)

// DocumentService implements services.DocumentService over a DocumentStore
type DocumentService struct {
	store  repositories.DocumentStore
	logger *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(store repositories.DocumentStore, logger *slog.Logger) *DocumentService {
	return &DocumentService{
		store:  store,
		logger: logger,
	}
}

// Save validates doc and upserts its record. Incomplete drafts are accepted:
// only malformed values and oversized fields are rejected.
func (s *DocumentService) Save(ctx context.Context, doc *models.Document) (*models.Record, error) {
	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	rec := models.ToRecord(doc)
	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document stored",
		"id", saved.ID,
		"type", saved.Type,
		"status", saved.Status,
		"deliverables", len(saved.Content.Deliverables),
		"items", len(saved.Content.Items),
	)

	return saved, nil
}

func (s *DocumentService) Get(ctx context.Context, id string) (*models.Record, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Documento não encontrado")
		}
		return nil, err
	}
	return rec, nil
}

func (s *DocumentService) List(ctx context.Context) ([]models.Record, error) {
	return s.store.GetAll(ctx)
}

func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("document deleted", "id", id)
	return nil
}

// UpdateStatus accepts either spelling of the status ("approved" or "aprovado")
func (s *DocumentService) UpdateStatus(ctx context.Context, id, status string) (*models.Record, error) {
	next, ok := models.ParseStatus(status)
	if !ok {
		return nil, domain.Invalid(fmt.Sprintf("unknown status %q", status))
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := rec.Status
	rec.Status = models.StoredStatus(next)

	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document status changed", "id", id, "from", previous, "to", saved.Status)
	return saved, nil
}

func validateDocument(d *models.Document) error {
	return validation.ValidateStruct(d,
		validation.Field(&d.ID, validation.Required, validation.By(documentID)),
		validation.Field(&d.Type,
			validation.Required,
			validation.In(models.DocumentTypeProposal, models.DocumentTypeBudget, models.DocumentTypeContract),
		),
		validation.Field(&d.Status,
			validation.Required,
			validation.In(models.StatusDraft, models.StatusPending, models.StatusApproved, models.StatusRejected, models.StatusCancelled),
		),
		validation.Field(&d.IssueDate, validation.Date(models.DateLayout)),
		validation.Field(&d.ExpiryDate, validation.Date(models.DateLayout)),
		validation.Field(&d.Client, validation.By(validateClient)),
		validation.Field(&d.Project, validation.By(validateProject)),
		validation.Field(&d.Items,
			validation.Required,
			validation.Length(1, config.MaxLineItems),
			validation.Each(validation.By(validateLineItem)),
		),
		validation.Field(&d.Terms, validation.By(validateTerms)),
	)
}

func documentID(value interface{}) error {
	id, _ := value.(string)
	if !models.IsDocumentID(id) {
		return errors.New("must look like DOC-<timestamp>-<suffix>")
	}
	return nil
}

func validateClient(value interface{}) error {
	c, _ := value.(models.Client)
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Length(0, config.MaxShortFieldLength)),
		validation.Field(&c.ResponsibleParty, validation.Length(0, config.MaxShortFieldLength)),
		validation.Field(&c.Email, validation.Length(0, config.MaxShortFieldLength)),
		validation.Field(&c.TaxID, validation.Length(0, config.MaxShortFieldLength)),
		validation.Field(&c.Address, validation.Length(0, config.MaxShortFieldLength)),
	)
}

func validateProject(value interface{}) error {
	p, _ := value.(models.Project)
	return validation.ValidateStruct(&p,
		validation.Field(&p.Description, validation.Length(0, config.MaxLongFieldLength)),
		validation.Field(&p.Deliverables,
			validation.Required,
			validation.Length(1, config.MaxDeliverables),
			validation.Each(validation.By(validateDeliverable)),
		),
	)
}

func validateDeliverable(value interface{}) error {
	d, _ := value.(models.Deliverable)
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Length(0, config.MaxShortFieldLength)),
		validation.Field(&d.Kind, validation.In(
			models.DeliverableFeature,
			models.DeliverableFunctional,
			models.DeliverableNonFunctional,
			models.DeliverableTask,
		)),
		validation.Field(&d.Subitems,
			validation.Length(0, config.MaxSubitemsPerDeliverable),
			validation.Each(validation.By(validateSubitem)),
		),
	)
}

func validateSubitem(value interface{}) error {
	s, _ := value.(models.Subitem)
	return validation.ValidateStruct(&s,
		validation.Field(&s.Text, validation.Length(0, config.MaxSubitemTextLength)),
		validation.Field(&s.Kind, validation.In(models.SubitemFunctional, models.SubitemNonFunctional, models.SubitemNote)),
	)
}

func validateLineItem(value interface{}) error {
	item, _ := value.(models.LineItem)
	return validation.ValidateStruct(&item,
		validation.Field(&item.Description, validation.Length(0, config.MaxShortFieldLength)),
		validation.Field(&item.Quantity, validation.Min(0)),
		validation.Field(&item.UnitPrice, validation.By(nonNegative)),
	)
}

func validateTerms(value interface{}) error {
	t, _ := value.(models.Terms)
	return validation.ValidateStruct(&t,
		validation.Field(&t.ExecutionDeadline, validation.Length(0, config.MaxLongFieldLength)),
		validation.Field(&t.PaymentTerms, validation.Length(0, config.MaxLongFieldLength)),
		validation.Field(&t.AdditionalTerms, validation.Length(0, config.MaxLongFieldLength)),
		validation.Field(&t.Warranty, validation.Length(0, config.MaxLongFieldLength)),
	)
}

func nonNegative(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	default:
		return nil
	}
	if d.IsNegative() {
		return errors.New("must be no less than 0")
	}
	return nil
}
