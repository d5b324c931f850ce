package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ledongthuc/pdf"
)

// PDFParser reads page text with ledongthuc/pdf and the raw image streams
// of every page with pdfcpu. Pages are never dropped, even when empty,
// so page numbers stay aligned with the source.
type PDFParser struct {
	// SkipImages disables image extraction.
	SkipImages bool
}

func (p *PDFParser) SupportedFormats() []string { return []string{"pdf"} }

func (p *PDFParser) Parse(ctx context.Context, path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()

	var images map[int][]EmbeddedObject
	if !p.SkipImages {
		images, err = extractImages(path)
		if err != nil {
			// Text remains usable; attachments will be unresolved.
			slog.Warn("pdf: image extraction failed", "path", path, "error", err)
		}
	}

	doc := &Document{
		Path:     path,
		Metadata: readInfo(reader, totalPages),
		Pages:    make([]Page, 0, totalPages),
	}

	for i := 1; i <= totalPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var text string
		page := reader.Page(i)
		if !page.V.IsNull() {
			text, err = page.GetPlainText(nil)
			if err != nil {
				slog.Debug("pdf: text extraction failed", "path", path, "page", i, "error", err)
				text = ""
			}
		}

		doc.Pages = append(doc.Pages, Page{
			Number:  i,
			Text:    text,
			Objects: images[i],
		})
	}

	return doc, nil
}

// readInfo flattens the trailer's Info dictionary into string metadata.
func readInfo(r *pdf.Reader, pages int) map[string]string {
	md := map[string]string{"Pages": strconv.Itoa(pages)}

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return md
	}
	for _, key := range info.Keys() {
		v := info.Key(key)
		switch v.Kind() {
		case pdf.String:
			md[key] = v.Text()
		case pdf.Null:
		default:
			md[key] = v.String()
		}
	}
	return md
}
