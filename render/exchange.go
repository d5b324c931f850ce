package render

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/brunobiangulo/quizpdf/quiz"
)

// Exchange format tokens.
const (
	TokenCorrect   = "++"
	TokenIncorrect = "--"
	Separator      = "---"
)

var imagePolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowImages()
	p.AllowDataURIImages()
	return p
}()

// writeExchange emits the line-oriented import format:
//
//	<number> <text>
//	++ <correct answer>
//	-- <incorrect answer>
//	<img src="data:image/jpeg;base64,...">
//	---
//
// The separator precedes every question but the first of the batch.
func writeExchange(w io.Writer, quizzes []*quiz.Quiz) error {
	bw := bufio.NewWriter(w)
	first := true
	for _, qz := range quizzes {
		for _, q := range qz.Questions {
			if !first {
				fmt.Fprintln(bw, Separator)
			}
			first = false

			fmt.Fprintf(bw, "%d %s\n", q.Number, q.Text)
			for _, a := range q.Answers {
				token := TokenIncorrect
				if a.IsCorrect {
					token = TokenCorrect
				}
				fmt.Fprintf(bw, "%s %s\n", token, a.Text)
			}
			if tag, ok := imageTag(q.Attachments); ok {
				fmt.Fprintln(bw, tag)
			}
		}
	}
	return bw.Flush()
}

// imageTag renders a resolved attachment as an inline image. Images the
// sanitizer does not accept as data URIs are left out.
func imageTag(ref *quiz.AttachmentRef) (string, bool) {
	if !ref.Resolved() || !ref.Image.HasContent() {
		return "", false
	}
	raw := fmt.Sprintf(`<img src="data:%s;base64,%s">`,
		ref.Image.MIMEType, base64.StdEncoding.EncodeToString(ref.Image.Content))
	tag := imagePolicy.Sanitize(raw)
	if !strings.Contains(tag, `src="data:`) {
		return "", false
	}
	return tag, true
}
