package quizpdf

import "errors"

var (
	// ErrDocumentNotFound is returned when a document ID or path does not exist.
	ErrDocumentNotFound = errors.New("quizpdf: document not found")

	// ErrUnsupportedFormat is returned for files that are not PDFs.
	ErrUnsupportedFormat = errors.New("quizpdf: unsupported document format")

	// ErrParsingFailed is returned when a document cannot be decoded or
	// segmented into questions.
	ErrParsingFailed = errors.New("quizpdf: parsing failed")

	// ErrStoreClosed is returned when operating on a closed engine.
	ErrStoreClosed = errors.New("quizpdf: store is closed")

	// ErrNoResults is returned when a search yields no matching questions.
	ErrNoResults = errors.New("quizpdf: no results found")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("quizpdf: invalid configuration")
)
