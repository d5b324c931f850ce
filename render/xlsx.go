package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/brunobiangulo/quizpdf/quiz"
)

const maxSheetName = 31

// writeXLSX emits one worksheet per quiz with one row per question.
func writeXLSX(w io.Writer, quizzes []*quiz.Quiz) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if len(quizzes) == 0 {
		quizzes = []*quiz.Quiz{quiz.NewQuiz("", nil)}
	}

	used := make(map[string]bool)
	for i, qz := range quizzes {
		sheet := sheetName(title(qz), used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeSheet(f, sheet, qz, bold); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, qz *quiz.Quiz, headerStyle int) error {
	answers := 0
	for _, q := range qz.Questions {
		if len(q.Answers) > answers {
			answers = len(q.Answers)
		}
	}

	header := []any{"Number", "Question"}
	for i := 1; i <= answers; i++ {
		header = append(header, "Answer "+strconv.Itoa(i))
	}
	header = append(header, "Correct", "Attachment")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 60); err != nil {
		return err
	}

	for r, q := range qz.Questions {
		row := make([]any, 0, len(header))
		row = append(row, q.Number, q.Text)
		for i := 0; i < answers; i++ {
			if i < len(q.Answers) {
				row = append(row, q.Answers[i].Text)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, correctList(q), attachmentCell(q.Attachments))

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// correctList returns the numbers of the correct answers, e.g. "2" or "1,3".
func correctList(q quiz.Question) string {
	var nums []string
	for _, a := range q.CorrectAnswers() {
		nums = append(nums, strconv.Itoa(a.Number))
	}
	return strings.Join(nums, ",")
}

func attachmentCell(ref *quiz.AttachmentRef) string {
	switch {
	case ref == nil:
		return ""
	case ref.Resolved():
		return fmt.Sprintf("Anlage %d", ref.Number)
	default:
		return fmt.Sprintf("Anlage %d (missing)", ref.Number)
	}
}

// sheetName makes a valid, unique worksheet name from a title.
func sheetName(t string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, t)
	name = strings.Trim(name, "' ")
	if name == "" {
		name = "Quiz"
	}
	name = truncateRunes(name, maxSheetName)

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(name, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
