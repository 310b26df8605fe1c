package drafts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/editor"
	"quotebuilder/internal/preview"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixtures() []models.Record {
	return []models.Record{
		{ID: "DOC-AAA-000001", Type: "proposta", Client: models.ClientRecord{Name: "Acme Ltda"}, Total: 3000, Status: "rascunho", IssueDate: "2025-03-01", CreatedAt: base},
		{ID: "DOC-BBB-000002", Type: "orcamento", Client: models.ClientRecord{Name: "Beta Corp"}, Total: 1234.5, Status: "aprovado", CreatedAt: base.Add(48 * time.Hour)},
		{ID: "DOC-CCC-000003", Type: "contrato", Client: models.ClientRecord{Name: ""}, Status: "pendente", IssueDate: "2025-03-02", CreatedAt: base.Add(24 * time.Hour)},
	}
}

type fakeStore struct {
	mu      sync.Mutex
	records []models.Record
	deleted []string
	lists   int
	listErr error
}

func (f *fakeStore) List(context.Context) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Record(nil), f.records...), nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	kept := f.records[:0]
	for _, r := range f.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func newTestBrowser(t *testing.T, store Store, delay time.Duration) *Browser {
	t.Helper()
	c, err := preview.DefaultCatalog()
	require.NoError(t, err)
	b := NewBrowser(store, c, delay, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(b.Close)
	return b
}

func ids(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter sorts newest first", Filter{}, []string{"DOC-BBB-000002", "DOC-CCC-000003", "DOC-AAA-000001"}},
		{"type filter", Filter{Type: models.DocumentTypeBudget}, []string{"DOC-BBB-000002"}},
		{"client name case-insensitive", Filter{Query: "ACME"}, []string{"DOC-AAA-000001"}},
		{"id substring", Filter{Query: "ccc"}, []string{"DOC-CCC-000003"}},
		{"type and query", Filter{Type: models.DocumentTypeProposal, Query: "beta"}, []string{}},
		{"blank query is not trimmed", Filter{Query: " "}, []string{"DOC-BBB-000002", "DOC-AAA-000001"}},
		{"trailing space is part of the query", Filter{Query: "acme "}, []string{"DOC-AAA-000001"}},
		{"surrounding spaces can exclude", Filter{Query: " beta"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(fixtures(), tt.filter)))
		})
	}
}

func TestApplyDoesNotReorderInput(t *testing.T) {
	in := fixtures()
	Apply(in, Filter{})
	assert.Equal(t, "DOC-AAA-000001", in[0].ID)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("orcamento", "x")
	require.NoError(t, err)
	assert.Equal(t, Filter{Type: models.DocumentTypeBudget, Query: "x"}, f)

	f, err = ParseFilter("", "")
	require.NoError(t, err)
	assert.Equal(t, Filter{}, f)

	_, err = ParseFilter("invoice", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSummarize(t *testing.T) {
	c, err := preview.DefaultCatalog()
	require.NoError(t, err)
	recs := fixtures()

	s := Summarize(&recs[1], c)
	assert.Equal(t, "Orçamento", s.TypeLabel)
	assert.Equal(t, "Beta Corp", s.ClientName)
	assert.Equal(t, "03/03/2025", s.Date, "falls back to the creation date")
	assert.Equal(t, "R$\u00a01.234,50", s.Total)
	assert.Equal(t, models.StatusApproved, s.Status)

	s = Summarize(&recs[2], c)
	assert.Equal(t, "Cliente não informado", s.ClientName)
	assert.Equal(t, "Contrato", s.TypeLabel)
	assert.Equal(t, "R$\u00a00,00", s.Total)
}

func TestBrowserDelete(t *testing.T) {
	store := &fakeStore{records: fixtures()}
	b := newTestBrowser(t, store, time.Millisecond)

	var prompts []string
	decline := ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		prompts = append(prompts, prompt)
		return false, nil
	})
	deleted, err := b.Delete(context.Background(), "DOC-AAA-000001", decline)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, store.deleted)
	assert.Equal(t, []string{DeletePrompt}, prompts)

	var listed []Summary
	b.OnResults(func(s []Summary, err error) { listed = s })
	accept := ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	deleted, err = b.Delete(context.Background(), "DOC-AAA-000001", accept)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"DOC-AAA-000001"}, store.deleted)
	assert.Len(t, listed, 2, "listing refreshes after delete")
}

func TestBrowserConfirmError(t *testing.T) {
	store := &fakeStore{records: fixtures()}
	b := newTestBrowser(t, store, time.Millisecond)

	failing := ConfirmFunc(func(context.Context, string) (bool, error) { return false, errors.New("stdin closed") })
	_, err := b.Delete(context.Background(), "DOC-AAA-000001", failing)
	require.Error(t, err)
	assert.Empty(t, store.deleted)
}

func TestBrowserDebouncedSearch(t *testing.T) {
	store := &fakeStore{records: fixtures()}
	b := newTestBrowser(t, store, 50*time.Millisecond)

	results := make(chan []Summary, 4)
	b.OnResults(func(s []Summary, err error) { results <- s })

	b.SetQuery("b")
	b.SetQuery("be")
	b.SetQuery("beta")

	select {
	case got := <-results:
		require.Len(t, got, 1)
		assert.Equal(t, "DOC-BBB-000002", got[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced refresh never ran")
	}

	select {
	case <-results:
		t.Fatal("only one refresh expected for a burst of keystrokes")
	case <-time.After(150 * time.Millisecond):
	}
	assert.Equal(t, 1, store.lists)
}

func TestBrowserSetTypeRefreshesImmediately(t *testing.T) {
	store := &fakeStore{records: fixtures()}
	b := newTestBrowser(t, store, time.Hour)

	got, err := b.SetType(context.Background(), models.DocumentTypeContract)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DOC-CCC-000003", got[0].ID)
	assert.Equal(t, models.DocumentTypeContract, b.Filter().Type)
}

func TestBrowserListError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("boom")}
	b := newTestBrowser(t, store, time.Millisecond)

	_, err := b.List(context.Background(), Filter{})
	assert.Error(t, err)
}

type stubLoader struct {
	err error
}

func (l stubLoader) Load(_ context.Context, id string) (*editor.Snapshot, error) {
	if l.err != nil {
		return nil, l.err
	}
	return &editor.Snapshot{Document: &models.Document{ID: id}}, nil
}

func TestBrowserOpen(t *testing.T) {
	b := newTestBrowser(t, &fakeStore{}, time.Millisecond)

	snap, err := b.Open(context.Background(), stubLoader{}, "DOC-AAA-000001")
	require.NoError(t, err)
	assert.Equal(t, "DOC-AAA-000001", snap.Document.ID)

	_, err = b.Open(context.Background(), stubLoader{err: domain.NotFound("Documento não encontrado")}, "DOC-X")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDebouncerStop(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { runs.Add(1) })
	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}
