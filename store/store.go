package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// Document represents a row in the documents table.
type Document struct {
	ID            int64  `json:"id"`
	Path          string `json:"path"`
	Filename      string `json:"filename"`
	Format        string `json:"format"`
	ContentHash   string `json:"content_hash"`
	Status        string `json:"status"`
	Metadata      string `json:"metadata,omitempty"`
	QuestionCount int    `json:"question_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// QuestionHit is a question row with its retrieval score and document info.
type QuestionHit struct {
	QuestionID int64   `json:"question_id"`
	DocumentID int64   `json:"document_id"`
	Number     int     `json:"number"`
	Text       string  `json:"text"`
	Answers    string  `json:"answers,omitempty"`
	Filename   string  `json:"filename"`
	Path       string  `json:"path"`
	Score      float64 `json:"score"`
	Snippet    string  `json:"snippet,omitempty"`
}

// Store wraps the SQLite database for all quiz persistence.
type Store struct {
	db        *sql.DB
	vectorDim int
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema including sqlite-vec and FTS5 virtual tables.
func New(dbPath string, vectorDim int) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL(vectorDim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, vectorDim: vectorDim}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// VectorDim returns the configured question vector dimension.
func (s *Store) VectorDim() int {
	return s.vectorDim
}

// --- Document operations ---

const documentColumns = `id, path, filename, format, content_hash, status, metadata,
	COALESCE(question_count, 0), created_at, updated_at`

// UpsertDocument inserts or updates the document keyed by path and
// returns its ID.
func (s *Store) UpsertDocument(ctx context.Context, doc Document) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO documents (path, filename, format, content_hash, status, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			format = excluded.format,
			content_hash = excluded.content_hash,
			status = excluded.status,
			metadata = excluded.metadata,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, doc.Path, doc.Filename, doc.Format, doc.ContentHash, doc.Status, doc.Metadata).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func scanDocument(row interface{ Scan(...any) error }) (*Document, error) {
	doc := &Document{}
	var metadata sql.NullString
	if err := row.Scan(&doc.ID, &doc.Path, &doc.Filename, &doc.Format,
		&doc.ContentHash, &doc.Status, &metadata, &doc.QuestionCount,
		&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	doc.Metadata = metadata.String
	return doc, nil
}

// GetDocumentByPath retrieves a document by its file path.
func (s *Store) GetDocumentByPath(ctx context.Context, path string) (*Document, error) {
	return scanDocument(s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE path = ?", path))
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id int64) (*Document, error) {
	return scanDocument(s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id))
}

// ListDocuments returns all documents ordered by path.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// UpdateDocumentStatus updates just the status field.
func (s *Store) UpdateDocumentStatus(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE documents SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id)
	return err
}

// DeleteDocument removes a document and all of its questions, answers,
// attachments and vectors.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := deleteDocumentData(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
		return err
	})
}

// DeleteDocumentData removes the parsed quiz of a document but keeps the
// document row.
func (s *Store) DeleteDocumentData(ctx context.Context, docID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return deleteDocumentData(ctx, tx, docID)
	})
}

func deleteDocumentData(ctx context.Context, tx *sql.Tx, docID int64) error {
	// vec0 tables do not take part in foreign key cascades.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM vec_questions WHERE question_id IN (
			SELECT id FROM questions WHERE document_id = ?
		)`, docID); err != nil {
		return err
	}
	// Answers cascade; triggers clean up FTS.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM questions WHERE document_id = ?", docID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM attachments WHERE document_id = ?", docID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE documents SET question_count = 0, overwritten = NULL WHERE id = ?", docID)
	return err
}

// Stats holds row counts for diagnostics.
type Stats struct {
	Documents   int `json:"documents"`
	Questions   int `json:"questions"`
	Answers     int `json:"answers"`
	Attachments int `json:"attachments"`
	Vectors     int `json:"vectors"`
}

// Stats returns row counts of every table.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM documents", &stats.Documents},
		{"SELECT COUNT(*) FROM questions", &stats.Questions},
		{"SELECT COUNT(*) FROM answers", &stats.Answers},
		{"SELECT COUNT(*) FROM attachments", &stats.Attachments},
		{"SELECT COUNT(*) FROM vec_questions", &stats.Vectors},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", q.query, err)
		}
	}
	return stats, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// serializeFloat32 converts a float32 slice to little-endian bytes for sqlite-vec.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
