package quiz

import (
	"bytes"
	"image"
	_ "image/jpeg"

	"github.com/brunobiangulo/quizpdf/parser"
)

// jpegFamily maps stream filters whose payload is a complete encoded image
// to the MIME type of that payload.
var jpegFamily = map[string]string{
	"DCTDecode": "image/jpeg",
	"JPXDecode": "image/jp2",
}

// ImageFilter selects which embedded objects count as attachment images.
type ImageFilter struct {
	// Subtypes restricts accepted objects by subtype. Empty accepts any
	// image-like object.
	Subtypes []string
}

// DefaultImageFilter accepts XObjects of subtype Image.
func DefaultImageFilter() ImageFilter {
	return ImageFilter{Subtypes: []string{"Image"}}
}

func (f ImageFilter) accepts(obj parser.EmbeddedObject) bool {
	if obj.Type != "XObject" && obj.Type != "Image" {
		return false
	}
	if len(f.Subtypes) == 0 {
		return true
	}
	for _, s := range f.Subtypes {
		if s == obj.Subtype {
			return true
		}
	}
	return false
}

// ExtractImages returns the images of a page in order of appearance,
// deduplicated by content. JPEG-family objects carry their bytes; anything
// else becomes a placeholder with only Filter and Subtype set.
func ExtractImages(objects []parser.EmbeddedObject, f ImageFilter) []Image {
	var out []Image
	seen := make(map[string]bool)

	for _, obj := range objects {
		if !f.accepts(obj) {
			continue
		}

		img := Image{Filter: obj.Filter, Subtype: obj.Subtype}
		if mime, ok := jpegFamily[obj.Filter]; ok && len(obj.Content) > 0 {
			img.MIMEType = mime
			img.Content = append([]byte(nil), obj.Content...)
			img.Width, img.Height = obj.Width, obj.Height
			if img.Width == 0 || img.Height == 0 {
				img.Width, img.Height = imageSize(img.Content)
			}
		}

		key := string(img.Content)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, img)
	}
	return out
}

// imageSize returns the width and height of an image from its encoded bytes.
func imageSize(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
