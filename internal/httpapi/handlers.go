package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avasseur/mdstudio"
)

// maxBodySize bounds request bodies; documents are interactive text, not
// uploads.
const maxBodySize = 10 << 20

// exportFormats maps the URL format segment to content type and extension.
var exportFormats = map[string]struct {
	contentType string
	extension   string
}{
	"markdown": {"text/markdown; charset=utf-8", "md"},
	"html":     {"text/html; charset=utf-8", "html"},
	"pdf":      {"application/pdf", "pdf"},
	"docx":     {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx"},
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"document": s.session.Document(),
		"status":   s.session.Status(),
	})
}

func (s *Server) handlePutContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.session.SetContent(req.Content)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var doc mdstudio.Document
	if !decodeBody(w, r, &doc) {
		return
	}
	if err := s.session.ApplySettings(doc); err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.session.InsertContent(req.Content)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	content, ok := s.session.Undo()
	writeJSON(w, http.StatusOK, map[string]any{"content": content, "ok": ok})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	content, ok := s.session.Redo()
	writeJSON(w, http.StatusOK, map[string]any{"content": content, "ok": ok})
}

// handleRender produces the annotated preview fragment for the session's
// current content and installs the line index used by click-to-sync.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	svc := s.pool.Acquire()
	defer s.pool.Release(svc)

	res, err := svc.Render(r.Context(), s.session.Document().Content)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.session.SetLineIndex(res.Lines)
	writeJSON(w, http.StatusOK, map[string]any{"html": res.HTML, "lines": res.Lines})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": s.session.Status()})
}

// handleExport flushes the session and streams the document in the
// requested format as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	meta, ok := exportFormats[format]
	if !ok {
		jsonError(w, "unknown export format: "+format, http.StatusNotFound)
		return
	}

	if err := s.session.Flush(); err != nil {
		s.log.Warn().Err(err).Msg("flush before export failed")
	}
	doc := s.session.Document()

	svc := s.pool.Acquire()
	defer s.pool.Release(svc)

	ctx := r.Context()
	var payload []byte
	var err error
	switch format {
	case "markdown":
		payload = svc.ExportMarkdown(doc)
	case "html":
		payload, err = svc.ExportHTML(ctx, doc)
	case "pdf":
		payload, err = svc.ExportPDF(ctx, doc)
	case "docx":
		payload, err = svc.ExportDOCX(ctx, doc)
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		jsonError(w, err.Error(), exportErrorStatus(err))
		return
	}

	filename := exportFilename(doc.Title, meta.extension)
	w.Header().Set("Content-Type", meta.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(payload)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets := s.session.Presets()
	if presets == nil {
		presets = []mdstudio.Preset{}
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *Server) handleAddPreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.session.AddPreset(req.Name, req.Content)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleRemovePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.RemovePreset(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, mdstudio.ErrPresetNotFound) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	switch mode := mdstudio.ViewMode(req.Mode); mode {
	case mdstudio.ViewSplit, mdstudio.ViewEditor, mdstudio.ViewPreview:
		s.session.SetView(mode)
		w.WriteHeader(http.StatusNoContent)
	default:
		jsonError(w, "unknown view mode: "+req.Mode, http.StatusUnprocessableEntity)
	}
}

func (s *Server) handleSyncMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.session.SetClickToSync(req.Active)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSyncScroll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Origin mdstudio.PaneID `json:"origin"`
		From   mdstudio.Pane   `json:"from"`
		To     mdstudio.Pane   `json:"to"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Origin != mdstudio.PaneEditor && req.Origin != mdstudio.PanePreview {
		jsonError(w, "unknown pane: "+string(req.Origin), http.StatusUnprocessableEntity)
		return
	}
	target, ok := s.session.Scroll(req.Origin, req.From, req.To)
	writeJSON(w, http.StatusOK, map[string]any{"target": target, "ok": ok})
}

// handleSyncClick maps a click in either pane to a position in the other.
// An editor click answers with the annotated preview line to highlight; a
// preview click answers with an estimated editor scroll offset.
func (s *Server) handleSyncClick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pane  mdstudio.PaneID `json:"pane"`
		Caret int             `json:"caret"`
		Line  int             `json:"line"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	switch req.Pane {
	case mdstudio.PaneEditor:
		line, ok := s.session.ResolveEditorClick(req.Caret)
		writeJSON(w, http.StatusOK, map[string]any{
			"line":        line,
			"ok":          ok,
			"highlightMs": mdstudio.HighlightDuration / time.Millisecond,
		})
	case mdstudio.PanePreview:
		offset, ok := s.session.ResolvePreviewClick(req.Line)
		writeJSON(w, http.StatusOK, map[string]any{"offset": offset, "ok": ok})
	default:
		jsonError(w, "unknown pane: "+string(req.Pane), http.StatusUnprocessableEntity)
	}
}

// exportErrorStatus maps export failures to HTTP statuses: a missing or
// crashed external tool is a 503, an invalid document a 422.
func exportErrorStatus(err error) int {
	if errors.Is(err, mdstudio.ErrExporterUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusUnprocessableEntity
}

// exportFilename derives a safe attachment filename from the document
// title.
func exportFilename(title, extension string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "document"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	return name + "." + extension
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
