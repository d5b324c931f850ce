package render

import (
	"encoding/json"
	"io"

	"github.com/brunobiangulo/quizpdf/quiz"
)

// writeJSON emits a single quiz as an object and a batch as an array.
func writeJSON(w io.Writer, quizzes []*quiz.Quiz) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(quizzes) == 1 {
		return enc.Encode(quizzes[0])
	}
	if quizzes == nil {
		quizzes = []*quiz.Quiz{}
	}
	return enc.Encode(quizzes)
}
