package quiz

import "regexp"

// Answer markers are private-use glyphs emitted by the source font for an
// empty and a ticked check box.
const (
	MarkerIncorrect = "\uf0a8"
	MarkerCorrect   = "\uf0fe"
)

// BoundaryExpr matches the start of a question: a line holding a number of
// one to three digits (no leading zero) followed by a tab run, then the
// question text up to and including the first "P.)" points suffix.
//
// Capture groups: 1 number, 2 text, 3 the "P.)" suffix. Everything after a
// match up to the next one is the answer block.
const BoundaryExpr = `\n\s*([1-9]\d{0,2})[^\S\t]*\t\s*(.+?)(P\.\))`

var (
	boundaryPattern = regexp.MustCompile(`(?is)` + BoundaryExpr)

	// introPattern captures the leading page noise in front of the first
	// question boundary.
	introPattern = regexp.MustCompile(`(?is)^(.+?)` + BoundaryExpr)

	markerPagePattern = regexp.MustCompile(`(?i)\bAnlage\s+(\S+)`)

	answerMarkerPattern = regexp.MustCompile(MarkerIncorrect + "|" + MarkerCorrect)
)

// pageIntro returns the text in front of the first question boundary, or
// false if the page holds no boundary.
func pageIntro(text string) (string, bool) {
	m := introPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
