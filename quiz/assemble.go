package quiz

import (
	"strings"

	"github.com/brunobiangulo/quizpdf/parser"
)

// Assemble concatenates the text of all pages after the first skip pages,
// stripping each content page's intro and dropping attachment pages. The
// attachments found along the way are returned with the text.
func Assemble(pages []parser.Page, skip int, filter ImageFilter) (string, AttachmentMap) {
	if skip < 0 {
		skip = 0
	}
	if skip > len(pages) {
		skip = len(pages)
	}

	tracker := NewTracker(filter)
	var b strings.Builder
	for _, p := range pages[skip:] {
		role, intro := tracker.Step(p)
		switch role {
		case RoleContent:
			b.WriteString(strings.ReplaceAll(p.Text, intro, ""))
		case RolePassThrough:
			b.WriteString(p.Text)
		}
	}
	return b.String(), tracker.Finish()
}
