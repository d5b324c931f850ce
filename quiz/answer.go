package quiz

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// SegmentAnswers splits an answer block into exactly n answers. The text
// in front of the first marker is either empty or an attachment number,
// which is resolved against attachments.
func SegmentAnswers(block string, attachments AttachmentMap, n int) ([]Answer, *AttachmentRef, error) {
	parts := splitKeepingDelims(answerMarkerPattern, block)

	var ref *AttachmentRef
	if intro := strings.TrimSpace(parts[0]); intro != "" {
		num, err := strconv.Atoi(numericOnly(intro))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnrecognisedIntro, intro)
		}
		ref = attachments.Resolve(num)
		if !ref.Resolved() {
			slog.Debug("answers: unresolved attachment reference", "number", num)
		}
	}

	rest := parts[1:]
	if len(rest) != 2*n {
		return nil, nil, fmt.Errorf("%w: %d answer fragments, want %d",
			ErrStructuralMismatch, len(rest), 2*n)
	}

	answers := make([]Answer, 0, n)
	for i := 0; i < n; i++ {
		answers = append(answers, Answer{
			Number:    i + 1,
			Text:      Clean(rest[2*i+1]),
			IsCorrect: rest[2*i] == MarkerCorrect,
		})
	}
	return answers, ref, nil
}

// numericOnly keeps digits and sign characters.
func numericOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' || r == '-' {
			return r
		}
		return -1
	}, s)
}
