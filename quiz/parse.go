package quiz

import (
	"fmt"
	"log/slog"

	"github.com/brunobiangulo/quizpdf/parser"
)

// Defaults applied when Options leaves a field at zero or below.
const (
	DefaultSkipPages          = 2
	DefaultAnswersPerQuestion = 8
)

// Options controls how a document is turned into a quiz.
type Options struct {
	// SkipPages is the number of leading pages ignored (cover, legend).
	SkipPages int
	// AnswersPerQuestion is the exact answer count every question must have.
	AnswersPerQuestion int
	// Images selects which embedded objects count as attachment images.
	Images ImageFilter
}

// DefaultOptions returns the options used for DE exam catalogs.
func DefaultOptions() Options {
	return Options{
		SkipPages:          DefaultSkipPages,
		AnswersPerQuestion: DefaultAnswersPerQuestion,
		Images:             DefaultImageFilter(),
	}
}

func (o Options) withDefaults() Options {
	if o.SkipPages <= 0 {
		o.SkipPages = DefaultSkipPages
	}
	if o.AnswersPerQuestion <= 0 {
		o.AnswersPerQuestion = DefaultAnswersPerQuestion
	}
	return o
}

// Parse runs the whole pipeline on a decoded document. Any segmentation
// error aborts the document.
func Parse(doc *parser.Document, opts Options) (*Quiz, error) {
	opts = opts.withDefaults()

	text, attachments := Assemble(doc.Pages, opts.SkipPages, opts.Images)

	qz := NewQuiz(doc.Path, copyDetails(doc.Metadata))
	qz.Attachments = attachments
	if err := Build(qz, text, attachments, opts.AnswersPerQuestion); err != nil {
		return nil, err
	}

	slog.Debug("quiz: parsed",
		"source", doc.Path,
		"pages", len(doc.Pages),
		"attachments", len(attachments),
		"questions", len(qz.Questions))
	return qz, nil
}

// Build segments assembled text into questions and adds them to qz.
func Build(qz *Quiz, text string, attachments AttachmentMap, answersPerQuestion int) error {
	raws, err := SegmentQuestions(text)
	if err != nil {
		return err
	}

	for _, raw := range raws {
		answers, ref, err := SegmentAnswers(raw.AnswerBlock, attachments, answersPerQuestion)
		if err != nil {
			return fmt.Errorf("question %d: %w", raw.Number, err)
		}
		q := Question{
			Number:      raw.Number,
			Text:        Clean(raw.Text),
			Answers:     answers,
			Attachments: ref,
		}
		if !qz.Add(q) {
			slog.Warn("quiz: duplicate question number, earlier question replaced",
				"source", qz.Source, "number", raw.Number)
		}
	}
	return nil
}

func copyDetails(md map[string]string) map[string]string {
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
