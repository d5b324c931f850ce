package quiz

import (
	"fmt"
	"regexp"
	"strconv"
)

// RawQuestion is one question as cut from the assembled text, before its
// answer block is segmented.
type RawQuestion struct {
	Number      int
	Text        string // question text including the "P.)" suffix, uncleaned
	AnswerBlock string
}

// SegmentQuestions splits the assembled text into questions. The text is
// split around every question boundary, keeping the captured number, text
// and suffix and dropping empty pieces. A well-formed text yields exactly
// four pieces per boundary; anything else is a structural mismatch.
func SegmentQuestions(text string) ([]RawQuestion, error) {
	matches := boundaryPattern.FindAllStringSubmatchIndex(text, -1)
	pieces := splitKeepingGroups(text, matches)

	if len(pieces) != 4*len(matches) {
		return nil, fmt.Errorf("%w: %d question boundaries but %d fragments, want %d",
			ErrStructuralMismatch, len(matches), len(pieces), 4*len(matches))
	}

	out := make([]RawQuestion, 0, len(matches))
	for i := 0; i < len(pieces); i += 4 {
		n, err := strconv.Atoi(pieces[i])
		if err != nil {
			return nil, fmt.Errorf("%w: fragment %d is not a question number: %q",
				ErrStructuralMismatch, i, pieces[i])
		}
		out = append(out, RawQuestion{
			Number:      n,
			Text:        pieces[i+1] + pieces[i+2],
			AnswerBlock: pieces[i+3],
		})
	}
	return out, nil
}

// splitKeepingGroups cuts s around matches, emitting the text before each
// match, then its participating groups, then the trailing text. Empty
// pieces are dropped.
func splitKeepingGroups(s string, matches [][]int) []string {
	var out []string
	add := func(piece string) {
		if piece != "" {
			out = append(out, piece)
		}
	}

	prev := 0
	for _, m := range matches {
		add(s[prev:m[0]])
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] >= 0 {
				add(s[m[g]:m[g+1]])
			}
		}
		prev = m[1]
	}
	add(s[prev:])
	return out
}

// splitKeepingDelims cuts s around every match of re and returns the
// pieces interleaved with the matched delimiters. Empty pieces are kept,
// so the result always has odd length.
func splitKeepingDelims(re *regexp.Regexp, s string) []string {
	locs := re.FindAllStringIndex(s, -1)
	out := make([]string, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		out = append(out, s[prev:loc[0]], s[loc[0]:loc[1]])
		prev = loc[1]
	}
	return append(out, s[prev:])
}
