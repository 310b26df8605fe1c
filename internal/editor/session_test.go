package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/domain/models"
)

var testNow = time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

// stubRenderer prints the parts of the document the tests look at
type stubRenderer struct {
	calls int
}

func (r *stubRenderer) Render(doc *models.Document) (string, error) {
	r.calls++
	return fmt.Sprintf("%s|%s|%s|%s", doc.ID, doc.Type, doc.Client.Name, doc.GrandTotal().StringFixed(2)), nil
}

type memStore struct {
	mu      sync.Mutex
	records map[string]*models.Record
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*models.Record{}}
}

func (m *memStore) Save(_ context.Context, doc *models.Document) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	rec := models.ToRecord(doc)
	rec.CreatedAt = testNow
	rec.UpdatedAt = testNow
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memStore) Get(_ context.Context, id string) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.NotFound("Documento não encontrado")
	}
	copied := *rec
	return &copied, nil
}

func newTestSession(t *testing.T) (*Session, *stubRenderer, *memStore) {
	t.Helper()
	renderer := &stubRenderer{}
	store := newMemStore()
	seq := 0
	s, err := NewSession("sess-1", renderer, store, slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func(time.Time) string {
			seq++
			return fmt.Sprintf("DOC-TEST-%06d", seq)
		}),
	)
	require.NoError(t, err)
	return s, renderer, store
}

func TestNewSessionDefaults(t *testing.T) {
	s, renderer, _ := newTestSession(t)
	snap := s.Snapshot()

	assert.Equal(t, "DOC-TEST-000001", snap.Document.ID)
	assert.Equal(t, models.DocumentTypeProposal, snap.Document.Type)
	assert.Equal(t, "2025-03-15", snap.Document.IssueDate)
	assert.Equal(t, "2025-04-14", snap.Document.ExpiryDate)
	assert.Equal(t, models.StatusDraft, snap.Document.Status)
	require.Len(t, snap.Document.Items, 1)
	assert.Equal(t, 1, snap.Document.Items[0].Quantity)
	require.Len(t, snap.Document.Project.Deliverables, 1)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, "DOC-TEST-000001|proposal||0.00", snap.Preview)
}

func TestSetFieldRerenders(t *testing.T) {
	s, _, _ := newTestSession(t)

	snap, err := s.SetField("client.name", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", snap.Document.Client.Name)
	assert.Contains(t, s.Preview(), "|Acme|")
	assert.Equal(t, 0, snap.StructureVersion)

	snap, err = s.SetField("documentType", "contrato")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentTypeContract, snap.Document.Type)
}

func TestSetFieldRejectsUnknownField(t *testing.T) {
	s, renderer, _ := newTestSession(t)
	before := renderer.calls

	_, err := s.SetField("client.phone", "123")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.SetField("documentType", "invoice")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, models.DocumentTypeProposal, s.Snapshot().Document.Type)
	assert.Equal(t, before, renderer.calls)
}

func TestLineItemTotals(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := s.SetLineItemField(0, "description", "Desenvolvimento")
	require.NoError(t, err)
	_, err = s.SetLineItemField(0, "quantity", "2")
	require.NoError(t, err)
	snap, err := s.SetLineItemField(0, "unitPrice", "1500")
	require.NoError(t, err)

	assert.Equal(t, "3000", snap.LineTotals[0].String())
	assert.Equal(t, "3000", snap.GrandTotal.String())
	assert.Contains(t, snap.Preview, "|3000.00")

	snap, err = s.AddLineItem()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.StructureVersion)
	_, err = s.SetLineItemField(1, "unitPrice", "250,50")
	require.NoError(t, err)
	snap, err = s.SetLineItemField(1, "quantity", "abc")
	require.NoError(t, err)

	assert.Equal(t, 0, snap.Document.Items[1].Quantity)
	assert.Equal(t, "3000", snap.GrandTotal.String())
}

func TestRemoveLastRowIsRejected(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := s.RemoveLineItem(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Mantenha pelo menos um item", err.Error())

	_, err = s.RemoveDeliverable(0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Mantenha pelo menos um entregável", err.Error())

	snap := s.Snapshot()
	assert.Len(t, snap.Document.Items, 1)
	assert.Len(t, snap.Document.Project.Deliverables, 1)
	assert.Equal(t, 0, snap.StructureVersion)
}

func TestRemoveRows(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := s.AddLineItem()
	require.NoError(t, err)
	_, err = s.SetLineItemField(1, "description", "Hospedagem")
	require.NoError(t, err)
	snap, err := s.RemoveLineItem(0)
	require.NoError(t, err)
	require.Len(t, snap.Document.Items, 1)
	assert.Equal(t, "Hospedagem", snap.Document.Items[0].Description)

	_, err = s.RemoveLineItem(5)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeliverablesAndSubitems(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := s.SetDeliverableField(0, "title", "Autenticação")
	require.NoError(t, err)
	_, err = s.SetDeliverableField(0, "kind", "task")
	require.NoError(t, err)
	_, err = s.SetDeliverableField(0, "kind", "epic")
	assert.ErrorIs(t, err, domain.ErrValidation)

	snap, err := s.AddSubitem(0)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.StructureVersion)
	require.Len(t, snap.Document.Project.Deliverables[0].Subitems, 1)
	assert.Equal(t, models.SubitemFunctional, snap.Document.Project.Deliverables[0].Subitems[0].Kind)

	snap, err = s.SetSubitemField(0, 0, "kind", "note")
	require.NoError(t, err)
	assert.Equal(t, models.SubitemNote, snap.Document.Project.Deliverables[0].Subitems[0].Kind)

	snap, err = s.RemoveSubitem(0, 0)
	require.NoError(t, err)
	assert.Empty(t, snap.Document.Project.Deliverables[0].Subitems)
	assert.Equal(t, models.DeliverableTask, snap.Document.Project.Deliverables[0].Kind)

	_, err = s.SetSubitemField(0, 0, "text", "x")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApplyFormat(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.AddSubitem(0)
	require.NoError(t, err)
	_, err = s.SetSubitemField(0, 0, "text", "Login com email")
	require.NoError(t, err)

	snap, sel, err := s.ApplyFormat(0, 0, Selection{Start: 10, End: 15}, FormatBold)
	require.NoError(t, err)
	assert.Equal(t, "Login com **email**", snap.Document.Project.Deliverables[0].Subitems[0].Text)
	assert.Equal(t, Selection{Start: 10, End: 19}, sel)

	_, _, err = s.ApplyFormat(0, 0, Selection{Start: 3, End: 3}, FormatItalic)
	require.Error(t, err)
	assert.Equal(t, "Selecione um texto para formatar", err.Error())
	assert.Equal(t, "Login com **email**", s.Snapshot().Document.Project.Deliverables[0].Subitems[0].Text)
}

func TestResetStartsNewDocument(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.SetField("client.name", "Acme")
	require.NoError(t, err)

	snap, err := s.Reset()
	require.NoError(t, err)

	assert.Equal(t, "DOC-TEST-000002", snap.Document.ID)
	assert.Empty(t, snap.Document.Client.Name)
	assert.Equal(t, 1, snap.StructureVersion)
}

func TestSaveAndLoad(t *testing.T) {
	s, _, store := newTestSession(t)
	_, err := s.SetField("client.name", "Acme")
	require.NoError(t, err)
	_, err = s.SetDeliverableField(0, "title", "Site")
	require.NoError(t, err)

	rec, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DOC-TEST-000001", rec.ID)
	assert.Equal(t, "proposta", rec.Type)
	assert.Equal(t, testNow, s.Snapshot().Document.CreatedAt)

	_, err = s.Reset()
	require.NoError(t, err)

	snap, err := s.Load(context.Background(), "DOC-TEST-000001")
	require.NoError(t, err)
	assert.Equal(t, "DOC-TEST-000001", snap.Document.ID)
	assert.Equal(t, "Acme", snap.Document.Client.Name)
	assert.Contains(t, snap.Preview, "DOC-TEST-000001|proposal|Acme")
	assert.Len(t, store.records, 1)
}

func TestLoadMissingKeepsState(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.SetField("client.name", "Acme")
	require.NoError(t, err)

	_, err = s.Load(context.Background(), "DOC-NOPE-000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Acme", s.Snapshot().Document.Client.Name)
}

func TestSaveFailureKeepsState(t *testing.T) {
	s, _, store := newTestSession(t)
	store.saveErr = errors.New("disk full")
	_, err := s.SetField("client.name", "Acme")
	require.NoError(t, err)

	_, err = s.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Acme", s.Snapshot().Document.Client.Name)
}

func TestSnapshotIsDetached(t *testing.T) {
	s, _, _ := newTestSession(t)
	snap := s.Snapshot()
	snap.Document.Items[0].Description = "mutated"
	snap.Document.Project.Deliverables[0].Title = "mutated"

	fresh := s.Snapshot()
	assert.Empty(t, fresh.Document.Items[0].Description)
	assert.Empty(t, fresh.Document.Project.Deliverables[0].Title)
}
