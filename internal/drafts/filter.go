// Package drafts lists, searches, opens and deletes stored documents.
package drafts

import (
	"fmt"
	"sort"
	"strings"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/domain/models"
)

// Filter narrows a listing. A zero Type matches every type; Query is matched
// as typed, case-insensitively, against the client name and the document ID.
type Filter struct {
	Type  models.DocumentType
	Query string
}

// ParseFilter builds a Filter from user input. The type may be given in either
// spelling ("budget" or "orcamento"); blank means all types.
func ParseFilter(docType, query string) (Filter, error) {
	f := Filter{Query: query}
	if strings.TrimSpace(docType) == "" {
		return f, nil
	}
	t, ok := models.ParseDocumentType(docType)
	if !ok {
		return Filter{}, domain.Invalid(fmt.Sprintf("unknown document type %q", docType))
	}
	f.Type = t
	return f, nil
}

// Match reports whether rec passes the filter
func (f Filter) Match(rec *models.Record) bool {
	if f.Type != "" {
		t, ok := models.ParseDocumentType(rec.Type)
		if !ok || t != f.Type {
			return false
		}
	}

	q := strings.ToLower(f.Query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Client.Name), q) ||
		strings.Contains(strings.ToLower(rec.ID), q)
}

// Apply filters records and sorts them newest first by creation time. The input
// slice is not modified.
func Apply(records []models.Record, f Filter) []models.Record {
	out := make([]models.Record, 0, len(records))
	for i := range records {
		if f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
