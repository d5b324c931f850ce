package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/brunobiangulo/quizpdf/quiz"
)

// ReplaceQuiz swaps the stored quiz of a document for qz. vectors, when
// non-nil, holds one vector per question in qz.Questions order. It returns
// the IDs of the inserted questions in the same order.
func (s *Store) ReplaceQuiz(ctx context.Context, docID int64, qz *quiz.Quiz, vectors [][]float32) ([]int64, error) {
	if vectors != nil && len(vectors) != len(qz.Questions) {
		return nil, fmt.Errorf("got %d vectors for %d questions", len(vectors), len(qz.Questions))
	}

	ids := make([]int64, 0, len(qz.Questions))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := deleteDocumentData(ctx, tx, docID); err != nil {
			return err
		}
		if err := insertAttachments(ctx, tx, docID, qz); err != nil {
			return err
		}

		qStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO questions (document_id, number, position, text, answers_text, attachment_number)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer qStmt.Close()

		aStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO answers (question_id, number, text, is_correct) VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer aStmt.Close()

		for i, q := range qz.Questions {
			var attachment sql.NullInt64
			if q.Attachments != nil {
				attachment = sql.NullInt64{Int64: int64(q.Attachments.Number), Valid: true}
			}

			res, err := qStmt.ExecContext(ctx, docID, q.Number, i, q.Text, answersText(q), attachment)
			if err != nil {
				return fmt.Errorf("inserting question %d: %w", q.Number, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)

			for _, a := range q.Answers {
				if _, err := aStmt.ExecContext(ctx, id, a.Number, a.Text, a.IsCorrect); err != nil {
					return fmt.Errorf("inserting answer %d of question %d: %w", a.Number, q.Number, err)
				}
			}

			if vectors != nil {
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO vec_questions (question_id, embedding) VALUES (?, ?)",
					id, serializeFloat32(vectors[i])); err != nil {
					return fmt.Errorf("inserting vector of question %d: %w", q.Number, err)
				}
			}
		}

		var overwritten sql.NullString
		if len(qz.Overwritten) > 0 {
			b, err := json.Marshal(qz.Overwritten)
			if err != nil {
				return err
			}
			overwritten = sql.NullString{String: string(b), Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE documents SET question_count = ?, overwritten = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			len(qz.Questions), overwritten, docID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// insertAttachments stores every recorded attachment of the quiz, whether
// or not a question refers to it, plus resolved references missing from
// the recorded set.
func insertAttachments(ctx context.Context, tx *sql.Tx, docID int64, qz *quiz.Quiz) error {
	all := make(quiz.AttachmentMap, len(qz.Attachments))
	for n, imgs := range qz.Attachments {
		if len(imgs) > 0 {
			all[n] = imgs
		}
	}
	for _, q := range qz.Questions {
		ref := q.Attachments
		if !ref.Resolved() || len(all[ref.Number]) > 0 {
			continue
		}
		if len(ref.Images) > 0 {
			all[ref.Number] = ref.Images
		} else {
			all[ref.Number] = []quiz.Image{*ref.Image}
		}
	}

	for _, n := range slices.Sorted(maps.Keys(all)) {
		for pos, img := range all[n] {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO attachments (document_id, number, position, filter, subtype, mime_type, width, height, content)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, docID, n, pos, img.Filter, img.Subtype, img.MIMEType, img.Width, img.Height, img.Content); err != nil {
				return fmt.Errorf("inserting attachment %d: %w", n, err)
			}
		}
	}
	return nil
}

// GetQuiz rebuilds the stored quiz of a document.
func (s *Store) GetQuiz(ctx context.Context, docID int64) (*quiz.Quiz, error) {
	doc, err := s.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	details := map[string]string{}
	if doc.Metadata != "" {
		if err := json.Unmarshal([]byte(doc.Metadata), &details); err != nil {
			return nil, fmt.Errorf("decoding metadata of document %d: %w", docID, err)
		}
	}

	var overwrittenJSON sql.NullString
	if err := s.db.QueryRowContext(ctx,
		"SELECT overwritten FROM documents WHERE id = ?", docID).Scan(&overwrittenJSON); err != nil {
		return nil, err
	}
	var overwritten []int
	if overwrittenJSON.Valid && overwrittenJSON.String != "" {
		if err := json.Unmarshal([]byte(overwrittenJSON.String), &overwritten); err != nil {
			return nil, fmt.Errorf("decoding overwritten numbers of document %d: %w", docID, err)
		}
	}

	attachments, err := s.loadAttachments(ctx, docID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.number, q.text, q.attachment_number, a.number, a.text, a.is_correct
		FROM questions q
		LEFT JOIN answers a ON a.question_id = q.id
		WHERE q.document_id = ?
		ORDER BY q.position, a.number
	`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	qz := quiz.NewQuiz(doc.Path, details)
	var (
		current   *quiz.Question
		currentID int64
	)
	flush := func() {
		if current != nil {
			qz.Add(*current)
		}
	}
	for rows.Next() {
		var (
			id         int64
			number     int
			text       string
			attachment sql.NullInt64
			aNumber    sql.NullInt64
			aText      sql.NullString
			aCorrect   sql.NullBool
		)
		if err := rows.Scan(&id, &number, &text, &attachment, &aNumber, &aText, &aCorrect); err != nil {
			return nil, err
		}
		if current == nil || id != currentID {
			flush()
			current = &quiz.Question{Number: number, Text: text, Answers: []quiz.Answer{}}
			currentID = id
			if attachment.Valid {
				current.Attachments = attachments.Resolve(int(attachment.Int64))
			}
		}
		if aNumber.Valid {
			current.Answers = append(current.Answers, quiz.Answer{
				Number:    int(aNumber.Int64),
				Text:      aText.String,
				IsCorrect: aCorrect.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	flush()
	qz.Attachments = attachments
	qz.Overwritten = overwritten
	return qz, nil
}

func (s *Store) loadAttachments(ctx context.Context, docID int64) (quiz.AttachmentMap, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, filter, COALESCE(subtype, ''), COALESCE(mime_type, ''),
			COALESCE(width, 0), COALESCE(height, 0), content
		FROM attachments WHERE document_id = ?
		ORDER BY number, position
	`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(quiz.AttachmentMap)
	for rows.Next() {
		var (
			number int
			img    quiz.Image
		)
		if err := rows.Scan(&number, &img.Filter, &img.Subtype, &img.MIMEType,
			&img.Width, &img.Height, &img.Content); err != nil {
			return nil, err
		}
		out[number] = append(out[number], img)
	}
	return out, rows.Err()
}

// GetQuestion retrieves a single question with its document info.
func (s *Store) GetQuestion(ctx context.Context, id int64) (*QuestionHit, error) {
	h := &QuestionHit{}
	err := s.db.QueryRowContext(ctx, `
		SELECT q.id, q.document_id, q.number, q.text, q.answers_text, d.filename, d.path
		FROM questions q
		JOIN documents d ON d.id = q.document_id
		WHERE q.id = ?
	`, id).Scan(&h.QuestionID, &h.DocumentID, &h.Number, &h.Text, &h.Answers, &h.Filename, &h.Path)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// InsertQuestionVector stores or replaces the vector of a question.
func (s *Store) InsertQuestionVector(ctx context.Context, questionID int64, vec []float32) error {
	if len(vec) != s.vectorDim {
		return fmt.Errorf("vector has %d dimensions, want %d", len(vec), s.vectorDim)
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM vec_questions WHERE question_id = ?", questionID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO vec_questions (question_id, embedding) VALUES (?, ?)",
			questionID, serializeFloat32(vec))
		return err
	})
}

// answersText joins the answer texts for full-text indexing.
func answersText(q quiz.Question) string {
	parts := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		if a.Text != "" {
			parts = append(parts, a.Text)
		}
	}
	return strings.Join(parts, "\n")
}
