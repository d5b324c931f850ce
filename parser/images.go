package parser

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractImages collects the image XObjects of every page, keyed by
// 1-based page number. Images on a page are ordered by object number.
// JPEG-family streams are returned as the raw encoded bytes.
func extractImages(path string) (map[int][]EmbeddedObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	out := make(map[int][]EmbeddedObject)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		imgs, err := pdfcpu.ExtractPageImages(ctx, pageNr, false)
		if err != nil {
			slog.Debug("pdf: page image extraction failed", "path", path, "page", pageNr, "error", err)
			continue
		}

		objNrs := make([]int, 0, len(imgs))
		for nr := range imgs {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for _, nr := range objNrs {
			img := imgs[nr]
			var data []byte
			if img.Reader != nil {
				data, err = io.ReadAll(img)
				if err != nil {
					slog.Debug("pdf: reading image stream failed", "path", path, "page", pageNr, "obj", nr, "error", err)
					continue
				}
			}
			out[pageNr] = append(out[pageNr], EmbeddedObject{
				Type:    "XObject",
				Subtype: "Image",
				Filter:  streamFilter(img),
				Name:    img.Name,
				Width:   img.Width,
				Height:  img.Height,
				Content: data,
			})
		}
	}
	return out, nil
}

// streamFilter reports the outermost filter of an image stream, falling
// back to the file type pdfcpu chose for it.
func streamFilter(img model.Image) string {
	if img.Filter != "" {
		parts := strings.FieldsFunc(img.Filter, func(r rune) bool { return r == ',' || r == ' ' })
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}
	switch strings.ToLower(img.FileType) {
	case "jpg", "jpeg":
		return "DCTDecode"
	case "jpx", "jp2":
		return "JPXDecode"
	case "tif", "tiff":
		return "CCITTFaxDecode"
	default:
		return "FlateDecode"
	}
}
