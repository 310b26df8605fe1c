package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebuilder/internal/config"
	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/drafts"
	"quotebuilder/internal/repository/local"
)

type fixture struct {
	store *local.DocumentStore
	ids   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := local.Open(local.Options{InMemory: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{store: store}
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, client := range []string{"Padaria Central", "Oficina Norte"} {
		at := base.Add(time.Duration(i) * time.Hour)
		doc := models.NewDocument(models.NewDocumentID(at), at)
		doc.Client.Name = client
		doc.Items[0] = models.LineItem{Description: "Serviço", Quantity: 2, UnitPrice: decimal.NewFromInt(100)}
		_, err := store.Save(context.Background(), models.ToRecord(doc))
		require.NoError(t, err)
		f.ids = append(f.ids, doc.ID)
	}
	return f
}

func (f *fixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	open := func(context.Context) (*app, error) {
		cfg := &config.Config{SearchDebounce: 5 * time.Millisecond, IssuerName: "Estúdio Teste"}
		return newApp(f.store, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	var out bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestDraftsList(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "drafts", "ls", "-o", "json")
	require.NoError(t, err)

	var summaries []drafts.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "Oficina Norte", summaries[0].ClientName, "newest first")

	out, err = f.run(t, "", "drafts", "ls", "--query", "padaria")
	require.NoError(t, err)
	assert.Contains(t, out, "Padaria Central")
	assert.NotContains(t, out, "Oficina Norte")

	_, err = f.run(t, "", "drafts", "ls", "--type", "memo")
	assert.Error(t, err)
}

func TestDraftsRemoveAsksFirst(t *testing.T) {
	f := newFixture(t)
	id := f.ids[0]

	out, err := f.run(t, "n\n", "drafts", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, drafts.DeletePrompt)
	assert.NotContains(t, out, "Deleted")
	_, err = f.store.GetByID(context.Background(), id)
	require.NoError(t, err)

	out, err = f.run(t, "s\n", "drafts", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)
	_, err = f.store.GetByID(context.Background(), id)
	assert.Error(t, err)

	out, err = f.run(t, "", "drafts", "rm", "--yes", f.ids[1])
	require.NoError(t, err)
	assert.NotContains(t, out, drafts.DeletePrompt)
}

func TestDraftsStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "", "drafts", "status", f.ids[0], "aprovado")
	require.NoError(t, err)

	rec, err := f.store.GetByID(context.Background(), f.ids[0])
	require.NoError(t, err)
	assert.Equal(t, "aprovado", rec.Status)

	_, err = f.run(t, "", "drafts", "status", f.ids[0], "archived")
	assert.Error(t, err)
}

func TestDraftsSearch(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "ofi\noficina\n", "drafts", "search", "-o", "yaml")
	require.NoError(t, err)
	// initial listing has both, the final one only the match
	assert.Contains(t, out, "Padaria Central")
	last := out[strings.LastIndex(out, "- id:"):]
	assert.Contains(t, last, "Oficina Norte")
}

func TestRender(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "render", f.ids[0], "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Padaria Central")
	assert.NotContains(t, out, "<div")

	out, err = f.run(t, "", "render", f.ids[0], "--format", "print")
	require.NoError(t, err)
	assert.Contains(t, out, "window.onload")

	_, err = f.run(t, "", "render", f.ids[0], "--format", "pdf")
	assert.Error(t, err)

	_, err = f.run(t, "", "render", "DOC-1-missing")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := (&fixture{}).run(t, "", "version", "-o", "json")
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info.Version)
}
