package parser

import "context"

// Document is a decoded source file: pass-through metadata plus its pages
// in original order. It is read once and not modified afterwards.
type Document struct {
	Path     string
	Metadata map[string]string // Info dictionary entries (Title, Author, ...)
	Pages    []Page
}

// Page is a single page of a Document.
type Page struct {
	Number  int // 1-based
	Text    string
	Objects []EmbeddedObject
}

// EmbeddedObject is a raw object referenced from a page's resources.
type EmbeddedObject struct {
	Type    string // "XObject"
	Subtype string // "Image", "Form", ...
	Filter  string // outermost stream filter, e.g. "DCTDecode"
	Name    string // resource name, e.g. "Im0"
	Width   int
	Height  int
	Content []byte
}

// Parser can decode a specific document format.
type Parser interface {
	Parse(ctx context.Context, path string) (*Document, error)
	SupportedFormats() []string
}
