// Package editor holds the in-memory editing state of one document and keeps its
// preview current. Every mutating call updates the state and re-renders before
// it returns.
package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/domain/models"
)

// Renderer produces the preview HTML for a document
type Renderer interface {
	Render(doc *models.Document) (string, error)
}

// Store is the persistence the session needs
type Store interface {
	Save(ctx context.Context, doc *models.Document) (*models.Record, error)
	Get(ctx context.Context, id string) (*models.Record, error)
}

// Session is one editor: a document, its rendered preview and a structure
// version that changes whenever rows are added or removed. Operations are
// serialized by a mutex.
type Session struct {
	mu               sync.Mutex
	id               string
	doc              *models.Document
	preview          string
	structureVersion int

	renderer Renderer
	store    Store
	logger   *slog.Logger
	now      func() time.Time
	newID    func(time.Time) string
}

type Option func(*Session)

// WithClock overrides the clock used for new document dates and IDs
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator overrides document ID generation
func WithIDGenerator(fn func(time.Time) string) Option {
	return func(s *Session) { s.newID = fn }
}

// NewSession starts a session on a fresh document
func NewSession(id string, renderer Renderer, store Store, logger *slog.Logger, opts ...Option) (*Session, error) {
	s := &Session{
		id:       id,
		renderer: renderer,
		store:    store,
		logger:   logger.With("session_id", id),
		now:      time.Now,
		newID:    models.NewDocumentID,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = s.blankDocument()
	if err := s.render(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// DocumentID returns the ID of the document currently being edited
func (s *Session) DocumentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.ID
}

// Preview returns the HTML rendered after the last operation
func (s *Session) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Snapshot is a consistent, detached view of the session
type Snapshot struct {
	SessionID        string            `json:"sessionId"`
	Document         *models.Document  `json:"document"`
	LineTotals       []decimal.Decimal `json:"lineTotals"`
	GrandTotal       decimal.Decimal   `json:"grandTotal"`
	Preview          string            `json:"preview"`
	StructureVersion int               `json:"structureVersion"`
}

func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() *Snapshot {
	snap := &Snapshot{
		SessionID:        s.id,
		Document:         s.doc.Clone(),
		LineTotals:       make([]decimal.Decimal, len(s.doc.Items)),
		GrandTotal:       s.doc.GrandTotal(),
		Preview:          s.preview,
		StructureVersion: s.structureVersion,
	}
	for i, item := range s.doc.Items {
		snap.LineTotals[i] = item.Total()
	}
	return snap
}

// Reset discards the current document and starts a new one with a new ID
func (s *Session) Reset() (*Snapshot, error) {
	return s.mutate(true, func(d *models.Document) error {
		*d = *s.blankDocument()
		return nil
	})
}

// Load replaces the document with a stored one. On any error the current
// document is kept as it is.
func (s *Session) Load(ctx context.Context, documentID string) (*Snapshot, error) {
	rec, err := s.store.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	loaded := models.FromRecord(rec)
	snap, err := s.mutate(true, func(d *models.Document) error {
		*d = *loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document loaded", "id", documentID)
	return snap, nil
}

// Save stores the document as it is when Save is called. The lock is not held
// during I/O: edits made meanwhile stay in memory and the stored record is the
// snapshot, so concurrent saves resolve as last writer wins.
func (s *Session) Save(ctx context.Context) (*models.Record, error) {
	s.mu.Lock()
	doc := s.doc.Clone()
	s.mu.Unlock()

	saved, err := s.store.Save(ctx, doc)
	if err != nil {
		s.logger.Error("save failed", "id", doc.ID, "error", err)
		return nil, err
	}

	s.mu.Lock()
	if s.doc.ID == saved.ID {
		s.doc.CreatedAt = saved.CreatedAt
		s.doc.UpdatedAt = saved.UpdatedAt
	}
	s.mu.Unlock()

	return saved, nil
}

// mutate runs fn on a copy of the document and commits it only if fn succeeds,
// so a rejected edit leaves the state untouched.
func (s *Session) mutate(structural bool, fn func(d *models.Document) error) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	s.doc = next
	if structural {
		s.structureVersion++
	}
	if err := s.render(); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

func (s *Session) render() error {
	html, err := s.renderer.Render(s.doc)
	if err != nil {
		s.logger.Error("preview render failed", "id", s.doc.ID, "error", err)
		return err
	}
	s.preview = html
	return nil
}

func (s *Session) blankDocument() *models.Document {
	now := s.now()
	return models.NewDocument(s.newID(now), now)
}

func invalid(msg string) error {
	return domain.Invalid(msg)
}
