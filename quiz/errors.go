package quiz

import "errors"

var (
	// ErrStructuralMismatch is returned when the number of text fragments
	// produced by a split does not match the expected layout.
	ErrStructuralMismatch = errors.New("quiz: structural mismatch")

	// ErrUnrecognisedIntro is returned when the text in front of the first
	// answer marker is neither empty nor an attachment number.
	ErrUnrecognisedIntro = errors.New("quiz: unrecognised answer intro")
)
