package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/model"
)

// PageService defines permission-checked page operations.
type PageService interface {
	Create(ctx context.Context, actor, owner, filename string) error
	Update(ctx context.Context, actor, owner, filename, title, markdown string) error
	Delete(ctx context.Context, actor, owner, filename string) error
	Get(ctx context.Context, owner, filename string) (model.Page, *model.PageRef, error)
	List(ctx context.Context) ([]model.PageRef, error)
}

// Page handles HTTP endpoints for pages.
type Page struct {
	pageService    PageService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewPage creates a new Page handler.
func NewPage(pageService PageService, contextManager model.ContextManager, logger *logger.Logger) *Page {
	return &Page{
		pageService:    pageService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type updatePageRequest struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

type pageRefResponse struct {
	Owner    string `json:"owner"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
}

type pageResponse struct {
	Owner    string           `json:"owner"`
	Filename string           `json:"filename"`
	Title    string           `json:"title"`
	Markdown string           `json:"markdown"`
	HTML     string           `json:"html"`
	Date     int64            `json:"date"`
	DateISO  string           `json:"date_iso"`
	Next     *pageRefResponse `json:"next,omitempty"`
}

type pageListResponse struct {
	Pages []pageRefResponse `json:"pages"`
}

// Create inserts an empty page under the owner named in the path.
func (h *Page) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.contextManager.GetUsernameFromContext(r.Context())
	owner, filename := r.PathValue("owner"), r.PathValue("filename")

	if err := h.pageService.Create(r.Context(), actor, owner, filename); err != nil {
		h.logger.Error("Page handler: create failed",
			"owner", owner, "file", filename, "actor", actor, "error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Update replaces a page's title and markdown.
func (h *Page) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.contextManager.GetUsernameFromContext(r.Context())
	owner, filename := r.PathValue("owner"), r.PathValue("filename")

	var req updatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	if err := h.pageService.Update(r.Context(), actor, owner, filename, req.Title, req.Markdown); err != nil {
		h.logger.Error("Page handler: update failed",
			"owner", owner, "file", filename, "actor", actor, "error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a page.
func (h *Page) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.contextManager.GetUsernameFromContext(r.Context())
	owner, filename := r.PathValue("owner"), r.PathValue("filename")

	if err := h.pageService.Delete(r.Context(), actor, owner, filename); err != nil {
		h.logger.Error("Page handler: delete failed",
			"owner", owner, "file", filename, "actor", actor, "error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get reads a page with its next-page navigation hint.
func (h *Page) Get(w http.ResponseWriter, r *http.Request) {
	owner, filename := r.PathValue("owner"), r.PathValue("filename")

	page, next, err := h.pageService.Get(r.Context(), owner, filename)
	if err != nil {
		writeError(w, err)
		return
	}

	dateISO, err := formatDate(page.Date)
	if err != nil {
		h.logger.Error("Page handler: stored date out of range",
			"owner", owner, "file", filename, "date", page.Date)
		writeError(w, err)
		return
	}

	resp := pageResponse{
		Owner:    page.Owner,
		Filename: page.Filename,
		Title:    page.Title,
		Markdown: page.Markdown,
		HTML:     page.HTML,
		Date:     page.Date,
		DateISO:  dateISO,
	}
	if next != nil {
		resp.Next = &pageRefResponse{Owner: next.Owner, Filename: next.Filename, Title: next.Title}
	}
	writeJSON(w, http.StatusOK, resp)
}

// formatDate renders a stored Unix timestamp as an ISO 8601 date. Dates
// outside the representable year range are rejected rather than rendered
// nonsensically.
func formatDate(unix int64) (string, error) {
	t := time.Unix(unix, 0).UTC()
	if t.Year() < 0 || t.Year() > 9999 {
		return "", model.ErrInvalidTimestamp
	}
	return t.Format(time.DateOnly), nil
}

// List returns every page for the home workspace.
func (h *Page) List(w http.ResponseWriter, r *http.Request) {
	refs, err := h.pageService.List(r.Context())
	if err != nil {
		h.logger.Error("Page handler: list failed", "error", err.Error())
		writeError(w, err)
		return
	}

	resp := pageListResponse{Pages: make([]pageRefResponse, 0, len(refs))}
	for _, ref := range refs {
		resp.Pages = append(resp.Pages, pageRefResponse{
			Owner:    ref.Owner,
			Filename: ref.Filename,
			Title:    ref.Title,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
