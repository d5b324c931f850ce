// Package quizpdf extracts multiple-choice questions from PDF exam
// catalogs, stores them and searches them.
package quizpdf

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/brunobiangulo/quizpdf/quiz"
	"github.com/brunobiangulo/quizpdf/search"
	"github.com/brunobiangulo/quizpdf/store"
)

// Engine is the main entry point: it parses catalogs, keeps them in the
// store and searches the stored questions.
type Engine interface {
	// ParseFile parses a single PDF without storing it.
	ParseFile(ctx context.Context, path string) (*quiz.Quiz, error)

	// ParseDirectory parses every PDF of a directory without storing them.
	ParseDirectory(ctx context.Context, dir string) ([]DocumentResult, error)

	// Ingest parses a PDF and stores its quiz. Returns the document ID.
	// Skips parsing if the content hash is unchanged.
	Ingest(ctx context.Context, path string, opts ...IngestOption) (int64, error)

	// IngestDirectory ingests every PDF of a directory.
	IngestDirectory(ctx context.Context, dir string, opts ...IngestOption) ([]IngestResult, error)

	// Update re-checks a document by hash. Re-ingests if changed.
	Update(ctx context.Context, path string) (bool, error)

	// UpdateAll checks all ingested documents for changes.
	UpdateAll(ctx context.Context) ([]UpdateResult, error)

	// Quiz returns the stored quiz of a document.
	Quiz(ctx context.Context, documentID int64) (*quiz.Quiz, error)

	// Verify reports quality anomalies of a stored quiz.
	Verify(ctx context.Context, documentID int64) ([]quiz.Anomaly, error)

	// Search finds stored questions by hybrid full-text and vector search.
	Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResult, error)

	// Similar returns the questions closest to the given one.
	Similar(ctx context.Context, questionID int64, k int) ([]store.QuestionHit, error)

	// Delete removes a document and all associated data.
	Delete(ctx context.Context, documentID int64) error

	// ListDocuments returns all ingested documents.
	ListDocuments(ctx context.Context) ([]Document, error)

	// Stats returns row counts of the store.
	Stats(ctx context.Context) (*store.Stats, error)

	// Close cleanly shuts down the engine.
	Close() error
}

// Document represents an ingested catalog.
type Document struct {
	ID            int64             `json:"id"`
	Path          string            `json:"path"`
	Filename      string            `json:"filename"`
	Format        string            `json:"format"`
	ContentHash   string            `json:"content_hash"`
	Status        string            `json:"status"`
	QuestionCount int               `json:"question_count"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

// IngestResult reports the outcome of ingesting one file of a directory.
type IngestResult struct {
	Path       string `json:"path"`
	DocumentID int64  `json:"document_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// UpdateResult reports the outcome of a document update check.
type UpdateResult struct {
	DocumentID int64  `json:"document_id"`
	Path       string `json:"path"`
	Changed    bool   `json:"changed"`
	Error      string `json:"error,omitempty"`
}

// SearchResult holds the ranked questions of a search and how they were found.
type SearchResult struct {
	Query string              `json:"query"`
	Hits  []store.QuestionHit `json:"hits"`
	Trace *search.Trace       `json:"trace,omitempty"`
}

// IngestOption configures ingestion behavior.
type IngestOption func(*ingestOptions)

type ingestOptions struct {
	forceReparse bool
}

// WithForceReparse forces re-parsing even if the hash hasn't changed.
func WithForceReparse() IngestOption {
	return func(o *ingestOptions) { o.forceReparse = true }
}

// SearchOption configures search behavior.
type SearchOption func(*search.Options)

// WithMaxResults sets the maximum number of questions returned.
func WithMaxResults(n int) SearchOption {
	return func(o *search.Options) { o.MaxResults = n }
}

// WithWeights overrides the fusion weights for this search.
func WithWeights(vec, fts float64) SearchOption {
	return func(o *search.Options) {
		o.WeightVec = vec
		o.WeightFTS = fts
	}
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg      Config
	log      *slog.Logger
	store    *store.Store
	batch    *Batch
	searcher *search.Engine
	closed   atomic.Bool
}

// New creates an engine with the given configuration.
func New(cfg Config) (Engine, error) {
	if cfg.VectorDim == 0 {
		cfg.VectorDim = DefaultConfig().VectorDim
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := store.New(cfg.resolveDBPath(), cfg.VectorDim)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &engine{
		cfg:   cfg,
		log:   cfg.logger(),
		store: s,
		batch: NewBatch(cfg, nil),
		searcher: search.New(s, search.Config{
			WeightVector: cfg.WeightVector,
			WeightFTS:    cfg.WeightFTS,
			VectorDim:    cfg.VectorDim,
		}),
	}, nil
}

func (e *engine) check() error {
	if e.closed.Load() {
		return ErrStoreClosed
	}
	return nil
}

func (e *engine) ParseFile(ctx context.Context, path string) (*quiz.Quiz, error) {
	return e.batch.ParseFile(ctx, path)
}

func (e *engine) ParseDirectory(ctx context.Context, dir string) ([]DocumentResult, error) {
	return e.batch.ParseDirectory(ctx, dir)
}

// Ingest parses a catalog and replaces its stored quiz.
func (e *engine) Ingest(ctx context.Context, path string, opts ...IngestOption) (int64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	options := &ingestOptions{}
	for _, o := range opts {
		o(options)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolving path: %w", err)
	}

	hash, err := fileHash(absPath)
	if err != nil {
		return 0, fmt.Errorf("hashing file: %w", err)
	}

	if !options.forceReparse {
		existing, err := e.store.GetDocumentByPath(ctx, absPath)
		if err == nil && existing.ContentHash == hash && existing.Status == "ready" {
			return existing.ID, nil
		}
	}

	filename := filepath.Base(absPath)
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(absPath), "."))
	doc := store.Document{
		Path:        absPath,
		Filename:    filename,
		Format:      format,
		ContentHash: hash,
		Status:      "processing",
	}

	start := time.Now()
	qz, err := e.batch.ParseFile(ctx, absPath)
	if err != nil {
		e.markFailed(ctx, doc)
		return 0, err
	}

	details, _ := json.Marshal(qz.Details)
	doc.Metadata = string(details)
	docID, err := e.store.UpsertDocument(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("upserting document: %w", err)
	}

	vectors := make([][]float32, len(qz.Questions))
	for i, q := range qz.Questions {
		vectors[i] = search.Vectorize(q.Text, e.cfg.VectorDim)
	}
	if _, err := e.store.ReplaceQuiz(ctx, docID, qz, vectors); err != nil {
		e.markFailed(ctx, doc)
		return 0, fmt.Errorf("storing quiz: %w", err)
	}

	if anomalies := quiz.Verify(qz); len(anomalies) > 0 {
		e.log.Debug("ingest: quiz anomalies", "file", filename, "count", len(anomalies))
	}

	if err := e.store.UpdateDocumentStatus(ctx, docID, "ready"); err != nil {
		return 0, fmt.Errorf("updating status: %w", err)
	}
	e.log.Info("ingest: document ready",
		"file", filename, "doc_id", docID,
		"questions", len(qz.Questions),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return docID, nil
}

// markFailed records doc with status "error" and drops the quiz stored
// for an earlier version of the file.
func (e *engine) markFailed(ctx context.Context, doc store.Document) {
	doc.Status = "error"
	id, err := e.store.UpsertDocument(ctx, doc)
	if err != nil {
		e.log.Warn("ingest: recording failure", "path", doc.Path, "error", err)
		return
	}
	if err := e.store.DeleteDocumentData(ctx, id); err != nil {
		e.log.Warn("ingest: clearing stale quiz", "path", doc.Path, "doc_id", id, "error", err)
	}
}

// IngestDirectory ingests every *.pdf file of dir in lexical order.
func (e *engine) IngestDirectory(ctx context.Context, dir string, opts ...IngestOption) ([]IngestResult, error) {
	paths, err := pdfFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]IngestResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		id, err := e.Ingest(ctx, path, opts...)
		r := IngestResult{Path: path, DocumentID: id}
		if err != nil {
			if errors.Is(err, ErrStoreClosed) {
				return results, err
			}
			e.log.Warn("ingest: document skipped", "path", path, "error", err)
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results, nil
}

// Update checks if a document has changed and re-ingests if needed.
func (e *engine) Update(ctx context.Context, path string) (bool, error) {
	if err := e.check(); err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("resolving path: %w", err)
	}

	doc, err := e.store.GetDocumentByPath(ctx, absPath)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrDocumentNotFound, absPath)
	}

	hash, err := fileHash(absPath)
	if err != nil {
		return false, fmt.Errorf("hashing file: %w", err)
	}
	if hash == doc.ContentHash && doc.Status == "ready" {
		return false, nil
	}

	if _, err := e.Ingest(ctx, absPath, WithForceReparse()); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateAll checks all documents for changes.
func (e *engine) UpdateAll(ctx context.Context) ([]UpdateResult, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	docs, err := e.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]UpdateResult, 0, len(docs))
	for _, doc := range docs {
		changed, err := e.Update(ctx, doc.Path)
		r := UpdateResult{DocumentID: doc.ID, Path: doc.Path, Changed: changed}
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results, nil
}

func (e *engine) Quiz(ctx context.Context, documentID int64) (*quiz.Quiz, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	qz, err := e.store.GetQuiz(ctx, documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrDocumentNotFound, documentID)
	}
	return qz, err
}

func (e *engine) Verify(ctx context.Context, documentID int64) ([]quiz.Anomaly, error) {
	qz, err := e.Quiz(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return quiz.Verify(qz), nil
}

func (e *engine) Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResult, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	options := search.Options{MaxResults: 20}
	for _, o := range opts {
		o(&options)
	}

	hits, trace, err := e.searcher.Search(ctx, query, options)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(hits) == 0 {
		return nil, ErrNoResults
	}
	return &SearchResult{Query: query, Hits: hits, Trace: trace}, nil
}

func (e *engine) Similar(ctx context.Context, questionID int64, k int) ([]store.QuestionHit, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	hits, err := e.searcher.Similar(ctx, questionID, k)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: question %d", ErrDocumentNotFound, questionID)
	}
	return hits, err
}

// Delete removes a document and all its associated data.
func (e *engine) Delete(ctx context.Context, documentID int64) error {
	if err := e.check(); err != nil {
		return err
	}
	if _, err := e.store.GetDocument(ctx, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrDocumentNotFound, documentID)
		}
		return err
	}
	return e.store.DeleteDocument(ctx, documentID)
}

// ListDocuments returns all ingested documents.
func (e *engine) ListDocuments(ctx context.Context) ([]Document, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	docs, err := e.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Document, len(docs))
	for i, d := range docs {
		result[i] = Document{
			ID:            d.ID,
			Path:          d.Path,
			Filename:      d.Filename,
			Format:        d.Format,
			ContentHash:   d.ContentHash,
			Status:        d.Status,
			QuestionCount: d.QuestionCount,
			CreatedAt:     d.CreatedAt,
			UpdatedAt:     d.UpdatedAt,
		}
		if d.Metadata != "" {
			_ = json.Unmarshal([]byte(d.Metadata), &result[i].Metadata)
		}
	}
	return result, nil
}

func (e *engine) Stats(ctx context.Context) (*store.Stats, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	return e.store.Stats(ctx)
}

// Close shuts down the engine. Further calls fail with ErrStoreClosed.
func (e *engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	return e.store.Close()
}

// fileHash computes the SHA-256 hash of a file's content.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
