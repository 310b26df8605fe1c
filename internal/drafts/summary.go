package drafts

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/preview"
)

// Summary is one row of the draft listing
type Summary struct {
	ID          string              `json:"id" yaml:"id"`
	Type        models.DocumentType `json:"type" yaml:"type"`
	TypeLabel   string              `json:"typeLabel" yaml:"type_label"`
	Status      models.Status       `json:"status" yaml:"status"`
	StatusLabel string              `json:"statusLabel" yaml:"status_label"`
	ClientName  string              `json:"clientName" yaml:"client_name"`
	Date        string              `json:"date" yaml:"date"`
	Total       string              `json:"total" yaml:"total"`
	TotalValue  float64             `json:"totalValue" yaml:"total_value"`
	CreatedAt   time.Time           `json:"createdAt" yaml:"created_at"`
}

// Summarize builds the listing row for rec. The date is the issue date, or the
// creation date for records that never had one.
func Summarize(rec *models.Record, c *preview.Catalog) Summary {
	docType, ok := models.ParseDocumentType(rec.Type)
	if !ok {
		docType = models.DocumentTypeProposal
	}
	status, ok := models.ParseStatus(rec.Status)
	if !ok {
		status = models.StatusDraft
	}

	client := rec.Client.Name
	if strings.TrimSpace(client) == "" {
		client = c.Fallbacks.ClientName
	}

	date := rec.IssueDate
	if date == "" && !rec.CreatedAt.IsZero() {
		date = rec.CreatedAt.Format(models.DateLayout)
	}

	return Summary{
		ID:          rec.ID,
		Type:        docType,
		TypeLabel:   c.TypeShort(docType),
		Status:      status,
		StatusLabel: c.StatusLabel(status),
		ClientName:  client,
		Date:        preview.FormatDate(date),
		Total:       preview.FormatCurrency(decimal.NewFromFloat(rec.Total)),
		TotalValue:  rec.Total,
		CreatedAt:   rec.CreatedAt,
	}
}

func SummarizeAll(records []models.Record, c *preview.Catalog) []Summary {
	out := make([]Summary, len(records))
	for i := range records {
		out[i] = Summarize(&records[i], c)
	}
	return out
}
