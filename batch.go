package quizpdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/brunobiangulo/quizpdf/parser"
	"github.com/brunobiangulo/quizpdf/quiz"
)

// DocumentResult is the outcome of parsing one file of a directory.
// Exactly one of Quiz and Err is set.
type DocumentResult struct {
	Path string     `json:"path"`
	Quiz *quiz.Quiz `json:"quiz,omitempty"`
	Err  error      `json:"-"`
}

// Successful returns the quizzes of the results that parsed, in order.
func Successful(results []DocumentResult) []*quiz.Quiz {
	out := make([]*quiz.Quiz, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Quiz != nil {
			out = append(out, r.Quiz)
		}
	}
	return out
}

// Batch parses catalog files without touching a database.
type Batch struct {
	parsers *parser.Registry
	opts    quiz.Options
	log     *slog.Logger
}

// NewBatch returns a Batch using cfg's parse options. A nil registry
// selects the default PDF parser.
func NewBatch(cfg Config, reg *parser.Registry) *Batch {
	if reg == nil {
		reg = parser.NewRegistry()
		reg.Register(&parser.PDFParser{SkipImages: cfg.SkipImages})
	}
	return &Batch{parsers: reg, opts: cfg.quizOptions(), log: cfg.logger()}
}

// ParseFile decodes and parses a single PDF.
func (b *Batch) ParseFile(ctx context.Context, path string) (*quiz.Quiz, error) {
	p, format, err := b.parsers.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	start := time.Now()
	doc, err := p.Parse(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	qz, err := quiz.Parse(doc, b.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	b.log.Info("parse: document ready",
		"file", filepath.Base(path),
		"pages", len(doc.Pages),
		"questions", len(qz.Questions),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return qz, nil
}

// ParseDirectory parses every *.pdf file of dir in lexical order. A file
// that fails is logged and reported in its result; the batch goes on.
// A cancelled context stops the batch between documents.
func (b *Batch) ParseDirectory(ctx context.Context, dir string) ([]DocumentResult, error) {
	paths, err := pdfFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]DocumentResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		qz, err := b.ParseFile(ctx, path)
		if err != nil {
			b.log.Warn("parse: document skipped", "path", path, "error", err)
		}
		results = append(results, DocumentResult{Path: path, Quiz: qz, Err: err})
	}
	return results, nil
}

// pdfFiles lists the regular files of dir ending in .pdf, following
// symlinks, sorted by name.
func pdfFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".pdf" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}
