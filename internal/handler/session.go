package handler

import (
	"context"
	"log/slog"
	"net/http"

	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/drafts"
	"quotebuilder/internal/editor"
	"quotebuilder/internal/httputil"
)

// Printer renders the standalone, print-ready document
type Printer interface {
	RenderPrint(doc *models.Document) (string, error)
}

// DraftOpener loads a stored draft into an editor
type DraftOpener interface {
	Open(ctx context.Context, into drafts.Loader, id string) (*editor.Snapshot, error)
}

// SessionHandler exposes editor sessions over HTTP
type SessionHandler struct {
	sessions *editor.Registry
	opener   DraftOpener
	printer  Printer
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *editor.Registry, opener DraftOpener, printer Printer, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		opener:   opener,
		printer:  printer,
		logger:   logger,
	}
}

type valueRequest struct {
	Value string `json:"value"`
}

type formatRequest struct {
	Format editor.Format `json:"format"`
	Start  int           `json:"start"`
	End    int           `json:"end"`
}

type formatResponse struct {
	*editor.Snapshot
	Selection editor.Selection `json:"selection"`
}

// Register mounts the session routes on mux
func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", h.CreateSession)
	mux.HandleFunc("GET /api/sessions/{sid}", h.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{sid}", h.CloseSession)
	mux.HandleFunc("POST /api/sessions/{sid}/reset", h.Reset)
	mux.HandleFunc("PUT /api/sessions/{sid}/fields/{field}", h.SetField)

	mux.HandleFunc("POST /api/sessions/{sid}/items", h.AddItem)
	mux.HandleFunc("PUT /api/sessions/{sid}/items/{index}/{field}", h.SetItemField)
	mux.HandleFunc("DELETE /api/sessions/{sid}/items/{index}", h.RemoveItem)

	mux.HandleFunc("POST /api/sessions/{sid}/deliverables", h.AddDeliverable)
	mux.HandleFunc("PUT /api/sessions/{sid}/deliverables/{index}/{field}", h.SetDeliverableField)
	mux.HandleFunc("DELETE /api/sessions/{sid}/deliverables/{index}", h.RemoveDeliverable)

	mux.HandleFunc("POST /api/sessions/{sid}/deliverables/{index}/subitems", h.AddSubitem)
	mux.HandleFunc("PUT /api/sessions/{sid}/deliverables/{index}/subitems/{sub}/{field}", h.SetSubitemField)
	mux.HandleFunc("DELETE /api/sessions/{sid}/deliverables/{index}/subitems/{sub}", h.RemoveSubitem)
	mux.HandleFunc("POST /api/sessions/{sid}/deliverables/{index}/subitems/{sub}/format", h.ApplyFormat)

	mux.HandleFunc("POST /api/sessions/{sid}/save", h.Save)
	mux.HandleFunc("POST /api/sessions/{sid}/load/{id}", h.Load)
	mux.HandleFunc("GET /api/sessions/{sid}/preview", h.Preview)
	mux.HandleFunc("GET /api/sessions/{sid}/print", h.Print)
}

// CreateSession opens an editor on a blank document
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create()
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, s.Snapshot())
}

// GetSession returns the current snapshot
// GET /api/sessions/{sid}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, s.Snapshot())
}

// CloseSession drops the session, discarding unsaved edits
// DELETE /api/sessions/{sid}
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(r.PathValue("sid")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset starts a new document in the session
// POST /api/sessions/{sid}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondSnapshot(w, func() (*editor.Snapshot, error) { return s.Reset() })
}

// SetField updates a scalar field
// PUT /api/sessions/{sid}/fields/{field}
func (h *SessionHandler) SetField(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req valueRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	field := r.PathValue("field")
	respondSnapshot(w, func() (*editor.Snapshot, error) { return s.SetField(field, req.Value) })
}

// POST /api/sessions/{sid}/items
func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondSnapshot(w, s.AddLineItem)
}

// PUT /api/sessions/{sid}/items/{index}/{field}
func (h *SessionHandler) SetItemField(w http.ResponseWriter, r *http.Request) {
	s, idx, ok := h.sessionAt(w, r, "index")
	if !ok {
		return
	}
	var req valueRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	field := r.PathValue("field")
	respondSnapshot(w, func() (*editor.Snapshot, error) { return s.SetLineItemField(idx[0], field, req.Value) })
}

// DELETE /api/sessions/{sid}/items/{index}
func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, idx, ok := h.sessionAt(w, r, "index")
	if !ok {
		return
	}
	respondSnapshot(w, func() (*editor.Snapshot, error) { return s.RemoveLineItem(idx[0]) })
}

// POST /api/sessions/{sid}/deliverables
func (h *SessionHandler) AddDeliverable(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondSnapshot(w, s.AddDeliverable)
}

// PUT /api/sessions/{sid}/deliverables/{index}/{field}
func (h *SessionHandler) SetDeliverableField(w http.ResponseWriter, r *http.Request) {
	s, idx, ok := h.sessionAt(w, r, "index")
	if !ok {
		return
	}
	var req valueRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	field := r.PathValue("field")
	respondSnapshot(w, func() (*editor.Snapshot, error) { return s.SetDeliverableField(idx[0], field, req.Value) })
}

// DELETE /api/sessions/{sid}/deliverables/{index}
func (h *SessionHandler) RemoveDeliverable(w http.ResponseWriter, r *http.Request) {
	s, idx, ok := h.sessionAt(w, r, "index")
	if !ok {
		return
	}
	respondSnapshot(w, func() (*editor.Snapshot, error) { return s.RemoveDeliverable(idx[0]) })
}

// POST /api/sessions/{sid}/deliverables/{index}/subitems
func (h *SessionHandler) AddSubitem(w http.ResponseWriter, r *http.Request) {
	s, idx, ok := h.sessionAt(w, r, "index")
	if !ok {
		return
	}
	respondSnapshot(w, func() (*editor.Snapshot, error) { return s.AddSubitem(idx[0]) })
}

// PUT /api/sessions/{sid}/deliverables/{index}/subitems/{sub}/{field}
func (h *SessionHandler) SetSubitemField(w http.ResponseWriter, r *http.Request) {
	s, idx, ok := h.sessionAt(w, r, "index", "sub")
	if !ok {
		return
	}
	var req valueRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	field := r.PathValue("field")
	respondSnapshot(w, func() (*editor.Snapshot, error) { return s.SetSubitemField(idx[0], idx[1], field, req.Value) })
}

// DELETE /api/sessions/{sid}/deliverables/{index}/subitems/{sub}
func (h *SessionHandler) RemoveSubitem(w http.ResponseWriter, r *http.Request) {
	s, idx, ok := h.sessionAt(w, r, "index", "sub")
	if !ok {
		return
	}
	respondSnapshot(w, func() (*editor.Snapshot, error) { return s.RemoveSubitem(idx[0], idx[1]) })
}

// ApplyFormat wraps the selected text of a subitem and returns the new selection
// POST /api/sessions/{sid}/deliverables/{index}/subitems/{sub}/format
func (h *SessionHandler) ApplyFormat(w http.ResponseWriter, r *http.Request) {
	s, idx, ok := h.sessionAt(w, r, "index", "sub")
	if !ok {
		return
	}
	var req formatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	sel := editor.Selection{Start: req.Start, End: req.End}
	snap, after, err := s.ApplyFormat(idx[0], idx[1], sel, req.Format)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, formatResponse{Snapshot: snap, Selection: after})
}

// Save stores the document and returns the stored record
// POST /api/sessions/{sid}/save
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	rec, err := s.Save(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rec)
}

// Load replaces the session's document with a stored draft
// POST /api/sessions/{sid}/load/{id}
func (h *SessionHandler) Load(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	snap, err := h.opener.Open(r.Context(), s, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, snap)
}

// Preview returns the rendered preview fragment
// GET /api/sessions/{sid}/preview
func (h *SessionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.RespondHTML(w, http.StatusOK, s.Preview())
}

// Print returns a standalone document that opens the print dialog on load
// GET /api/sessions/{sid}/print
func (h *SessionHandler) Print(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	html, err := h.printer.RenderPrint(s.Snapshot().Document)
	if err != nil {
		h.logger.Error("print render failed", "session_id", s.ID(), "error", err)
		handleError(w, err)
		return
	}
	httputil.RespondHTML(w, http.StatusOK, html)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	s, err := h.sessions.Get(r.PathValue("sid"))
	if err != nil {
		handleError(w, err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) sessionAt(w http.ResponseWriter, r *http.Request, names ...string) (*editor.Session, []int, bool) {
	s, ok := h.session(w, r)
	if !ok {
		return nil, nil, false
	}
	idx, err := pathIndexes(r, names...)
	if err != nil {
		handleError(w, err)
		return nil, nil, false
	}
	return s, idx, true
}

func respondSnapshot(w http.ResponseWriter, op func() (*editor.Snapshot, error)) {
	snap, err := op()
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, snap)
}
