package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brunobiangulo/quizpdf"
	"github.com/brunobiangulo/quizpdf/quiz"
	"github.com/brunobiangulo/quizpdf/render"
)

const maxUpload = 100 << 20 // 100MB

type handler struct {
	engine quizpdf.Engine
	// uploadDir keeps files uploaded to /ingest so later updates can
	// re-read them.
	uploadDir string
}

func newHandler(e quizpdf.Engine, uploadDir string) *handler {
	return &handler{engine: e, uploadDir: uploadDir}
}

// newRouter wires the routes behind the middleware chain:
// recovery -> cors -> auth -> request id -> logging -> routes.
func newRouter(h *handler, apiKey, corsOrigins string) http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(corsMiddleware(corsOrigins))
	r.Use(authMiddleware(apiKey))
	r.Use(middleware.RequestID)
	r.Use(logMiddleware)

	r.Post("/parse", h.handleParse)
	r.Post("/ingest", h.handleIngest)
	r.Post("/update-all", h.handleUpdateAll)
	r.Get("/documents", h.handleListDocuments)
	r.Get("/documents/{id}/quiz", h.handleGetQuiz)
	r.Get("/documents/{id}/verify", h.handleVerify)
	r.Delete("/documents/{id}", h.handleDeleteDocument)
	r.Get("/search", h.handleSearch)
	r.Get("/questions/{id}/similar", h.handleSimilar)
	r.Get("/stats", h.handleStats)
	r.Get("/health", h.handleHealth)
	return r
}

// resolveInput returns the PDF named by a request: either a multipart
// upload or a JSON body with a path. Uploads are saved under keepDir, or
// to a temporary directory removed by cleanup when keepDir is empty.
func resolveInput(r *http.Request, keepDir string) (path string, opts map[string]string, cleanup func(), status int, msg string) {
	cleanup = func() {}

	if err := r.ParseMultipartForm(maxUpload); err == nil {
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()

			// Sanitise filename to prevent path traversal.
			safeName := filepath.Base(header.Filename)
			dir := keepDir
			if dir == "" {
				dir, err = os.MkdirTemp("", "quizpdf-upload-")
				if err != nil {
					slog.Error("creating temp dir", "error", err)
					return "", nil, cleanup, http.StatusInternalServerError, "failed to process file"
				}
				tmp := dir
				cleanup = func() { os.RemoveAll(tmp) }
			} else if err := os.MkdirAll(dir, 0755); err != nil {
				slog.Error("creating upload dir", "dir", dir, "error", err)
				return "", nil, cleanup, http.StatusInternalServerError, "failed to process file"
			}

			tmpPath := filepath.Join(dir, safeName)
			dst, err := os.Create(tmpPath)
			if err != nil {
				slog.Error("creating temp file", "error", err)
				return "", nil, cleanup, http.StatusInternalServerError, "failed to process file"
			}
			if _, err := io.Copy(dst, file); err != nil {
				dst.Close()
				slog.Error("saving uploaded file", "error", err)
				return "", nil, cleanup, http.StatusInternalServerError, "failed to save file"
			}
			dst.Close()
			return tmpPath, nil, cleanup, 0, ""
		}
	}

	var req struct {
		Path    string            `json:"path"`
		Options map[string]string `json:"options,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", nil, cleanup, http.StatusBadRequest, "invalid request: expected multipart file or JSON with 'path'"
	}
	if req.Path == "" {
		return "", nil, cleanup, http.StatusBadRequest, "path is required"
	}

	// Validate that path is a real file (prevents directory traversal probing).
	absPath, err := filepath.Abs(req.Path)
	if err != nil {
		return "", nil, cleanup, http.StatusBadRequest, "invalid path"
	}
	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		return "", nil, cleanup, http.StatusBadRequest, "path must be an existing file"
	}
	return absPath, req.Options, cleanup, 0, ""
}

// POST /parse?format=json|exchange|xlsx|pdf
// Parses a catalog without storing it and returns the rendered quiz.
func (h *handler) handleParse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, _, cleanup, status, msg := resolveInput(r, "")
	defer cleanup()
	if status != 0 {
		writeError(w, status, msg)
		return
	}

	qz, err := h.engine.ParseFile(ctx, path)
	if err != nil {
		writeEngineError(w, "parsing failed", err)
		slog.Error("parse error", "path", path, "error", err)
		return
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, format, []*quiz.Quiz{qz}); err != nil {
		writeError(w, http.StatusInternalServerError, "rendering failed")
		slog.Error("render error", "format", format, "error", err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	if format == render.FormatXLSX || format == render.FormatPDF {
		name := filepath.Base(path)
		name = name[:len(name)-len(filepath.Ext(name))] + "." + format.Extension()
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// POST /ingest
// Accepts multipart file upload or JSON with file path.
func (h *handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	path, options, cleanup, status, msg := resolveInput(r, h.uploadDir)
	defer cleanup()
	if status != 0 {
		writeError(w, status, msg)
		return
	}

	var opts []quizpdf.IngestOption
	if _, ok := options["force"]; ok {
		opts = append(opts, quizpdf.WithForceReparse())
	}

	docID, err := h.engine.Ingest(ctx, path, opts...)
	if err != nil {
		writeEngineError(w, "ingestion failed", err)
		slog.Error("ingest error", "path", path, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": docID,
		"filename":    filepath.Base(path),
	})
}

// POST /update-all
func (h *handler) handleUpdateAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	results, err := h.engine.UpdateAll(ctx)
	if err != nil {
		writeEngineError(w, "update-all failed", err)
		slog.Error("update-all error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// GET /documents/{id}/quiz?format=
func (h *handler) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid document id")
	if !ok {
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	qz, err := h.engine.Quiz(r.Context(), id)
	if err != nil {
		writeEngineError(w, "failed to load quiz", err)
		return
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, format, []*quiz.Quiz{qz}); err != nil {
		writeError(w, http.StatusInternalServerError, "rendering failed")
		slog.Error("render error", "document_id", id, "error", err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GET /documents/{id}/verify
func (h *handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid document id")
	if !ok {
		return
	}
	anomalies, err := h.engine.Verify(r.Context(), id)
	if err != nil {
		writeEngineError(w, "verify failed", err)
		return
	}
	if anomalies == nil {
		anomalies = []quiz.Anomaly{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": id,
		"anomalies":   anomalies,
	})
}

// DELETE /documents/{id}
func (h *handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid document id")
	if !ok {
		return
	}

	if err := h.engine.Delete(r.Context(), id); err != nil {
		writeEngineError(w, "delete failed", err)
		slog.Error("delete error", "document_id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /documents
func (h *handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.engine.ListDocuments(r.Context())
	if err != nil {
		writeEngineError(w, "failed to list documents", err)
		slog.Error("list documents error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
	})
}

// GET /search?q=...&max_results=
func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	var opts []quizpdf.SearchOption
	if n, err := strconv.Atoi(r.URL.Query().Get("max_results")); err == nil && n > 0 && n <= 100 {
		opts = append(opts, quizpdf.WithMaxResults(n))
	}

	res, err := h.engine.Search(r.Context(), q, opts...)
	if errors.Is(err, quizpdf.ErrNoResults) {
		writeJSON(w, http.StatusOK, quizpdf.SearchResult{Query: q, Hits: nil})
		return
	}
	if err != nil {
		writeEngineError(w, "search failed", err)
		slog.Error("search error", "query", q, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /questions/{id}/similar?k=
func (h *handler) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid question id")
	if !ok {
		return
	}
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	if k < 0 || k > 100 {
		k = 0 // use default
	}

	hits, err := h.engine.Similar(r.Context(), id, k)
	if err != nil {
		writeEngineError(w, "similar failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"question_id": id,
		"hits":        hits,
	})
}

// GET /stats
func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(r.Context())
	if err != nil {
		writeEngineError(w, "failed to read stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func pathID(w http.ResponseWriter, r *http.Request, msg string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, msg)
		return 0, false
	}
	return id, true
}

// writeEngineError maps engine sentinels to status codes.
func writeEngineError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, quizpdf.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, quizpdf.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported format")
	case errors.Is(err, quizpdf.ErrParsingFailed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, quizpdf.ErrStoreClosed):
		writeError(w, http.StatusServiceUnavailable, "store closed")
	default:
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
