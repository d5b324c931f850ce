package parser

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// writeFixturePDF renders a small two-page PDF: text on page one and a
// JPEG on page two.
func writeFixturePDF(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for x := 0; x < 16; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: 80, B: 160, A: 255})
		}
	}
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Fragenkatalog", false)
	pdf.SetFont("Helvetica", "", 12)

	pdf.AddPage()
	pdf.Cell(0, 10, "Frage eins")

	pdf.AddPage()
	pdf.Cell(0, 10, "Anlage 1")
	pdf.RegisterImageOptionsReader("anlage", gofpdf.ImageOptions{ImageType: "JPG"}, &jpg)
	pdf.ImageOptions("anlage", 10, 30, 40, 20, false, gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")

	path := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestPDFParser_PagesAndMetadata(t *testing.T) {
	path := writeFixturePDF(t)

	doc, err := (&PDFParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(doc.Pages))
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Errorf("page %d has Number %d", i, p.Number)
		}
	}
	if !strings.Contains(doc.Pages[0].Text, "Frage") {
		t.Errorf("page 1 text = %q, want it to contain %q", doc.Pages[0].Text, "Frage")
	}
	if doc.Metadata["Title"] != "Fragenkatalog" {
		t.Errorf("Title = %q", doc.Metadata["Title"])
	}
	if doc.Metadata["Pages"] != "2" {
		t.Errorf("Pages = %q", doc.Metadata["Pages"])
	}
}

func TestPDFParser_Images(t *testing.T) {
	path := writeFixturePDF(t)

	doc, err := (&PDFParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n := len(doc.Pages[0].Objects); n != 0 {
		t.Errorf("page 1 objects = %d, want 0", n)
	}
	objs := doc.Pages[1].Objects
	if len(objs) != 1 {
		t.Fatalf("page 2 objects = %d, want 1", len(objs))
	}
	if objs[0].Filter != "DCTDecode" {
		t.Errorf("Filter = %q, want DCTDecode", objs[0].Filter)
	}
	if !bytes.HasPrefix(objs[0].Content, []byte{0xFF, 0xD8}) {
		t.Errorf("content does not start with a JPEG SOI marker")
	}
}

func TestPDFParser_SkipImages(t *testing.T) {
	path := writeFixturePDF(t)

	doc, err := (&PDFParser{SkipImages: true}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, p := range doc.Pages {
		if len(p.Objects) != 0 {
			t.Errorf("page %d has %d objects with SkipImages", p.Number, len(p.Objects))
		}
	}
}

func TestPDFParser_MissingFile(t *testing.T) {
	_, err := (&PDFParser{}).Parse(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStreamFilter(t *testing.T) {
	tests := []struct {
		img  model.Image
		want string
	}{
		{model.Image{Filter: "DCTDecode"}, "DCTDecode"},
		{model.Image{Filter: "FlateDecode,DCTDecode"}, "DCTDecode"},
		{model.Image{FileType: "jpg"}, "DCTDecode"},
		{model.Image{FileType: "jpx"}, "JPXDecode"},
		{model.Image{FileType: "png"}, "FlateDecode"},
	}
	for _, tt := range tests {
		if got := streamFilter(tt.img); got != tt.want {
			t.Errorf("streamFilter(%+v) = %q, want %q", tt.img, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("pdf"); err != nil {
		t.Fatalf("Get(pdf): %v", err)
	}
	if _, err := r.Get("docx"); err == nil {
		t.Error("expected error for unregistered format")
	}
	p, format, err := r.ForPath("/tmp/Katalog.PDF")
	if err != nil || format != "pdf" {
		t.Fatalf("ForPath = %v, %q, %v", p, format, err)
	}
	if _, _, err := r.ForPath("/tmp/notes"); err == nil {
		t.Error("expected error for path without extension")
	}
}
