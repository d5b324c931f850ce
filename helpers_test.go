package quizpdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/brunobiangulo/quizpdf/parser"
	"github.com/brunobiangulo/quizpdf/quiz"
)

// fakeParser serves prepared documents keyed by file base name.
type fakeParser struct {
	mu    sync.Mutex
	docs  map[string]*parser.Document
	calls int
}

func (f *fakeParser) Parse(_ context.Context, path string) (*parser.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	d, ok := f.docs[filepath.Base(path)]
	if !ok {
		return nil, errors.New("unreadable file")
	}
	out := *d
	out.Path = path
	return &out, nil
}

func (f *fakeParser) SupportedFormats() []string { return []string{"pdf"} }

func (f *fakeParser) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fakeRegistry(p parser.Parser) *parser.Registry {
	reg := parser.NewRegistry()
	reg.Register(p)
	return reg
}

// questionText renders a question as it appears in catalog page text.
func questionText(number int, text string, n, correct int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%d\t\t%s(1,00 P.)", number, text)
	for i := 1; i <= n; i++ {
		marker := quiz.MarkerIncorrect
		if i == correct {
			marker = quiz.MarkerCorrect
		}
		fmt.Fprintf(&b, "%s Antwort %d", marker, i)
	}
	return b.String()
}

// catalog builds a document with a cover, a legend and one page of
// questions.
func catalog(title string, questions ...string) *parser.Document {
	return &parser.Document{
		Metadata: map[string]string{"Title": title},
		Pages: []parser.Page{
			{Number: 1, Text: title},
			{Number: 2, Text: "Legende"},
			{Number: 3, Text: title + " Seite 1" + strings.Join(questions, "")},
		},
	}
}

// brokenCatalog has a question with too few answers.
func brokenCatalog() *parser.Document {
	return catalog("Kaputt", questionText(1, "Zu wenig Antworten?", 3, 1))
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4 "+n), 0644); err != nil {
			t.Fatal(err)
		}
	}
}
