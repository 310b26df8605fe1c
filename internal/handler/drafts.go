package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/domain/models"
	"quotebuilder/internal/domain/services"
	"quotebuilder/internal/drafts"
	"quotebuilder/internal/httputil"
)

// DraftBrowser lists and deletes drafts
type DraftBrowser interface {
	List(ctx context.Context, f drafts.Filter) ([]drafts.Summary, error)
	Delete(ctx context.Context, id string, confirm drafts.Confirmer) (bool, error)
}

// Exporter renders a stored document in its export formats
type Exporter interface {
	Render(doc *models.Document) (string, error)
	RenderPrint(doc *models.Document) (string, error)
	RenderMarkdown(doc *models.Document) (string, error)
}

// DraftHandler handles stored document HTTP requests
type DraftHandler struct {
	docService services.DocumentService
	browser    DraftBrowser
	exporter   Exporter
	logger     *slog.Logger
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(docService services.DocumentService, browser DraftBrowser, exporter Exporter, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{
		docService: docService,
		browser:    browser,
		exporter:   exporter,
		logger:     logger,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

// Register mounts the draft routes on mux
func (h *DraftHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/drafts", h.ListDrafts)
	mux.HandleFunc("GET /api/drafts/{id}", h.GetDraft)
	mux.HandleFunc("DELETE /api/drafts/{id}", h.DeleteDraft)
	mux.HandleFunc("PATCH /api/drafts/{id}/status", h.UpdateStatus)
	mux.HandleFunc("GET /api/drafts/{id}/export", h.Export)
}

// ListDrafts returns draft summaries, newest first
// GET /api/drafts?type=&q=
func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	f, err := drafts.ParseFilter(r.URL.Query().Get("type"), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	summaries, err := h.browser.List(r.Context(), f)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// GetDraft returns the stored record
// GET /api/drafts/{id}
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	rec, err := h.docService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rec)
}

// DeleteDraft removes a draft. Deletion only happens with confirm=true; without
// it the request succeeds and nothing is deleted.
// DELETE /api/drafts/{id}?confirm=true
func (h *DraftHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	confirm := drafts.ConfirmFunc(func(context.Context, string) (bool, error) {
		return confirmed, nil
	})

	deleted, err := h.browser.Delete(r.Context(), r.PathValue("id"), confirm)
	if err != nil {
		handleError(w, err)
		return
	}
	if deleted {
		h.logger.Info("draft deleted", "id", r.PathValue("id"), "request_id", httputil.GetRequestID(r))
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus changes the status of a stored draft
// PATCH /api/drafts/{id}/status
func (h *DraftHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	rec, err := h.docService.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rec)
}

// Export renders a stored draft
// GET /api/drafts/{id}/export?format=html|print|markdown
func (h *DraftHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}

	var render func(*models.Document) (string, error)
	contentType := "text/html"
	switch format {
	case "html":
		render = h.exporter.Render
	case "print":
		render = h.exporter.RenderPrint
	case "markdown":
		render = h.exporter.RenderMarkdown
		contentType = "text/markdown"
	default:
		handleError(w, domain.Invalid("format must be html, print or markdown"))
		return
	}

	rec, err := h.docService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	out, err := render(models.FromRecord(rec))
	if err != nil {
		h.logger.Error("export failed", "id", rec.ID, "format", format, "error", err)
		handleError(w, err)
		return
	}
	httputil.RespondText(w, http.StatusOK, contentType, out)
}
