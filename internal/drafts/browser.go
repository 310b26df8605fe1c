package drafts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/editor"
	"quotebuilder/internal/preview"
)

// DeletePrompt is the question asked before a draft is deleted
const DeletePrompt = "Tem certeza que deseja excluir este rascunho? Esta ação não pode ser desfeita."

// Store is the part of the document service the browser uses
type Store interface {
	List(ctx context.Context) ([]models.Record, error)
	Delete(ctx context.Context, id string) error
}

// Loader replaces an editor's document with a stored one
type Loader interface {
	Load(ctx context.Context, id string) (*editor.Snapshot, error)
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Browser is the draft listing: a current filter, a debounced search box and a
// listener that receives every refreshed listing.
type Browser struct {
	store   Store
	catalog *preview.Catalog
	logger  *slog.Logger
	timeout time.Duration

	mu       sync.Mutex
	filter   Filter
	listener func([]Summary, error)

	search *Debouncer
}

// NewBrowser creates a browser whose search refreshes after delay without typing
func NewBrowser(store Store, catalog *preview.Catalog, delay time.Duration, logger *slog.Logger) *Browser {
	b := &Browser{
		store:   store,
		catalog: catalog,
		logger:  logger,
		timeout: 30 * time.Second,
	}
	b.search = NewDebouncer(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		_, _ = b.Refresh(ctx)
	})
	return b
}

// OnResults registers the function that receives refreshed listings
func (b *Browser) OnResults(fn func([]Summary, error)) {
	b.mu.Lock()
	b.listener = fn
	b.mu.Unlock()
}

// List fetches every record and applies f, newest first
func (b *Browser) List(ctx context.Context, f Filter) ([]Summary, error) {
	records, err := b.store.List(ctx)
	if err != nil {
		b.logger.Error("failed to load drafts", "error", err)
		return nil, err
	}
	return SummarizeAll(Apply(records, f), b.catalog), nil
}

// SetQuery updates the search text. The listing refreshes once typing pauses.
func (b *Browser) SetQuery(q string) {
	b.mu.Lock()
	b.filter.Query = q
	b.mu.Unlock()
	b.search.Trigger()
}

// SetType changes the type filter and refreshes right away
func (b *Browser) SetType(ctx context.Context, t models.DocumentType) ([]Summary, error) {
	b.mu.Lock()
	b.filter.Type = t
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// Filter returns the current filter
func (b *Browser) Filter() Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Refresh lists with the current filter and notifies the listener
func (b *Browser) Refresh(ctx context.Context) ([]Summary, error) {
	b.mu.Lock()
	f := b.filter
	listener := b.listener
	b.mu.Unlock()

	summaries, err := b.List(ctx, f)
	if listener != nil {
		listener(summaries, err)
	}
	return summaries, err
}

// Open loads a stored document into the editor. A missing ID leaves the editor
// as it was.
func (b *Browser) Open(ctx context.Context, into Loader, id string) (*editor.Snapshot, error) {
	snap, err := into.Load(ctx, id)
	if err != nil {
		b.logger.Warn("failed to open draft", "id", id, "error", err)
		return nil, err
	}
	return snap, nil
}

// Delete removes a draft after confirmation and refreshes the listing. A
// declined confirmation is not an error: nothing happens and deleted is false.
func (b *Browser) Delete(ctx context.Context, id string, confirm Confirmer) (deleted bool, err error) {
	ok, err := confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		return false, err
	}
	if !ok {
		b.logger.Debug("draft deletion declined", "id", id)
		return false, nil
	}

	if err := b.store.Delete(ctx, id); err != nil {
		return false, err
	}

	if _, err := b.Refresh(ctx); err != nil {
		b.logger.Warn("listing refresh after delete failed", "error", err)
	}
	return true, nil
}

// Close cancels a pending search refresh
func (b *Browser) Close() {
	b.search.Stop()
}
