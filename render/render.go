package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/brunobiangulo/quizpdf/quiz"
)

// Format is an output format for parsed quizzes.
type Format string

const (
	FormatJSON     Format = "json"
	FormatExchange Format = "exchange"
	FormatXLSX     Format = "xlsx"
	FormatPDF      Format = "pdf"
)

func (f Format) String() string { return string(f) }

// ParseFormat resolves a format name. "txt" is accepted for exchange.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "exchange", "txt":
		return FormatExchange, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// ContentType is the MIME type of rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatExchange:
		return "text/plain; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Extension is the file extension of rendered output, without the dot.
func (f Format) Extension() string {
	if f == FormatExchange {
		return "txt"
	}
	return f.String()
}

// Render writes quizzes to w in format f.
func Render(w io.Writer, f Format, quizzes []*quiz.Quiz) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, quizzes)
	case FormatExchange:
		return writeExchange(w, quizzes)
	case FormatXLSX:
		return writeXLSX(w, quizzes)
	case FormatPDF:
		return writePDF(w, quizzes)
	default:
		return fmt.Errorf("unsupported format %q", string(f))
	}
}

// title picks a display name for a quiz.
func title(qz *quiz.Quiz) string {
	if t := strings.TrimSpace(qz.Details["Title"]); t != "" {
		return t
	}
	if qz.Source != "" {
		base := qz.Source
		if i := strings.LastIndexAny(base, `/\`); i >= 0 {
			base = base[i+1:]
		}
		return strings.TrimSuffix(base, ".pdf")
	}
	return "Quiz"
}
