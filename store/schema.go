package store

import "fmt"

// schemaSQL returns the DDL for all tables. vectorDim controls the vec0
// virtual table dimension.
func schemaSQL(vectorDim int) string {
	return fmt.Sprintf(`
-- Document registry with hash-based change detection
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    filename TEXT NOT NULL,
    format TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    status TEXT DEFAULT 'pending',
    metadata JSON,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Questions in document order; number is unique per document
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    number INTEGER NOT NULL,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    answers_text TEXT NOT NULL DEFAULT '',
    attachment_number INTEGER,
    UNIQUE(document_id, number)
);

CREATE TABLE IF NOT EXISTS answers (
    question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
    number INTEGER NOT NULL,
    text TEXT NOT NULL,
    is_correct INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (question_id, number)
);

-- Attachment images keyed by the number printed on the "Anlage" page
CREATE TABLE IF NOT EXISTS attachments (
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    number INTEGER NOT NULL,
    position INTEGER NOT NULL,
    filter TEXT NOT NULL,
    subtype TEXT,
    mime_type TEXT,
    width INTEGER,
    height INTEGER,
    content BLOB,
    PRIMARY KEY (document_id, number, position)
);

-- Hashed term vectors via sqlite-vec
CREATE VIRTUAL TABLE IF NOT EXISTS vec_questions USING vec0(
    question_id INTEGER PRIMARY KEY,
    embedding float[%d] distance_metric=cosine
);

-- Full-text search via FTS5
CREATE VIRTUAL TABLE IF NOT EXISTS questions_fts USING fts5(
    text,
    answers_text,
    content='questions',
    content_rowid='id',
    tokenize='unicode61 remove_diacritics 2'
);

-- FTS triggers to keep index in sync
CREATE TRIGGER IF NOT EXISTS questions_ai AFTER INSERT ON questions BEGIN
    INSERT INTO questions_fts(rowid, text, answers_text) VALUES (new.id, new.text, new.answers_text);
END;
CREATE TRIGGER IF NOT EXISTS questions_ad AFTER DELETE ON questions BEGIN
    INSERT INTO questions_fts(questions_fts, rowid, text, answers_text) VALUES ('delete', old.id, old.text, old.answers_text);
END;
CREATE TRIGGER IF NOT EXISTS questions_au AFTER UPDATE ON questions BEGIN
    INSERT INTO questions_fts(questions_fts, rowid, text, answers_text) VALUES ('delete', old.id, old.text, old.answers_text);
    INSERT INTO questions_fts(rowid, text, answers_text) VALUES (new.id, new.text, new.answers_text);
END;

-- Indexes
CREATE INDEX IF NOT EXISTS idx_questions_document ON questions(document_id);
CREATE INDEX IF NOT EXISTS idx_questions_attachment ON questions(document_id, attachment_number);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);
`, vectorDim)
}
