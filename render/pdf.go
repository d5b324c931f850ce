package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/brunobiangulo/quizpdf/quiz"
)

// writePDF prints an answer sheet: every quiz starts on a new page, each
// question is followed by its answers with the correct ones ticked and the
// attachment image when it is a JPEG.
func writePDF(w io.Writer, quizzes []*quiz.Quiz) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(quizzes) == 0 {
		pdf.AddPage()
	}

	for qi, qz := range quizzes {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 8, tr(title(qz)), "", "L", false)
		pdf.Ln(2)

		for _, q := range qz.Questions {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", q.Number, q.Text)), "", "L", false)

			pdf.SetFont("Helvetica", "", 10)
			for _, a := range q.Answers {
				box := "[ ]"
				if a.IsCorrect {
					box = "[x]"
				}
				pdf.SetX(20)
				pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s %s", box, a.Text)), "", "L", false)
			}

			if ref := q.Attachments; ref.Resolved() && ref.Image.MIMEType == "image/jpeg" && ref.Image.HasContent() {
				name := fmt.Sprintf("anlage-%d-%d", qi, ref.Number)
				opts := gofpdf.ImageOptions{ImageType: "JPG", ReadDpi: true}
				if info := pdf.GetImageInfo(name); info == nil {
					pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(ref.Image.Content))
				}
				if pdf.Ok() {
					pdf.ImageOptions(name, 20, 0, 60, 0, true, opts, 0, "")
				}
			}
			pdf.Ln(3)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return pdf.Output(w)
}
