package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry maps lowercase file extensions to parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns a registry holding a default PDFParser.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(&PDFParser{})
	return r
}

// Register binds p to every format it reports, replacing earlier bindings.
func (r *Registry) Register(p Parser) {
	for _, f := range p.SupportedFormats() {
		r.parsers[strings.ToLower(f)] = p
	}
}

// Get returns the parser for a format such as "pdf".
func (r *Registry) Get(format string) (Parser, error) {
	p, ok := r.parsers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("no parser for format: %q", format)
	}
	return p, nil
}

// ForPath picks the parser by the extension of path.
func (r *Registry) ForPath(path string) (Parser, string, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	p, err := r.Get(format)
	return p, format, err
}
