package store

import "context"

// VectorSearch returns the k questions whose vectors are closest to vec.
func (s *Store) VectorSearch(ctx context.Context, vec []float32, k int) ([]QuestionHit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.question_id, v.distance,
			q.document_id, q.number, q.text, q.answers_text,
			d.filename, d.path
		FROM vec_questions v
		JOIN questions q ON q.id = v.question_id
		JOIN documents d ON d.id = q.document_id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(vec), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []QuestionHit
	for rows.Next() {
		var h QuestionHit
		var distance float64
		if err := rows.Scan(&h.QuestionID, &distance,
			&h.DocumentID, &h.Number, &h.Text, &h.Answers,
			&h.Filename, &h.Path); err != nil {
			return nil, err
		}
		// Cosine distance to similarity.
		h.Score = 1.0 - distance
		results = append(results, h)
	}
	return results, rows.Err()
}

// FTSSearch performs a full-text search over question and answer text
// using FTS5 BM25 ranking.
func (s *Store) FTSSearch(ctx context.Context, query string, limit int) ([]QuestionHit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.rowid, f.rank,
			q.document_id, q.number, q.text, q.answers_text,
			d.filename, d.path
		FROM questions_fts f
		JOIN questions q ON q.id = f.rowid
		JOIN documents d ON d.id = q.document_id
		WHERE questions_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []QuestionHit
	for rows.Next() {
		var h QuestionHit
		var rank float64
		if err := rows.Scan(&h.QuestionID, &rank,
			&h.DocumentID, &h.Number, &h.Text, &h.Answers,
			&h.Filename, &h.Path); err != nil {
			return nil, err
		}
		// FTS5 rank is negative (lower = better), convert to positive score
		h.Score = -rank
		results = append(results, h)
	}
	return results, rows.Err()
}
