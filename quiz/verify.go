package quiz

import "fmt"

type AnomalyKind string

const (
	AnomalyNoCorrectAnswer       AnomalyKind = "no_correct_answer"
	AnomalyMultipleCorrect       AnomalyKind = "multiple_correct_answers"
	AnomalyUnresolvedAttachment  AnomalyKind = "unresolved_attachment"
	AnomalyPlaceholderAttachment AnomalyKind = "placeholder_attachment"
	AnomalyOverwrittenNumber     AnomalyKind = "overwritten_number"
)

// Anomaly is a suspicious but non-fatal finding in a parsed quiz.
type Anomaly struct {
	Question int         `json:"question"`
	Kind     AnomalyKind `json:"kind"`
	Detail   string      `json:"detail"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("question %d: %s (%s)", a.Question, a.Kind, a.Detail)
}

// Verify reports anomalies in question order, followed by overwritten
// question numbers.
func Verify(qz *Quiz) []Anomaly {
	var out []Anomaly
	for _, q := range qz.Questions {
		switch n := len(q.CorrectAnswers()); {
		case n == 0:
			out = append(out, Anomaly{q.Number, AnomalyNoCorrectAnswer, "no answer is marked correct"})
		case n > 1:
			out = append(out, Anomaly{q.Number, AnomalyMultipleCorrect, fmt.Sprintf("%d answers are marked correct", n)})
		}

		ref := q.Attachments
		switch {
		case ref == nil:
		case !ref.Resolved():
			out = append(out, Anomaly{q.Number, AnomalyUnresolvedAttachment, fmt.Sprintf("attachment %d was never recorded", ref.Number)})
		case !ref.Image.HasContent():
			out = append(out, Anomaly{q.Number, AnomalyPlaceholderAttachment, fmt.Sprintf("attachment %d has no decodable image (%s)", ref.Number, ref.Image.Filter)})
		}
	}
	for _, n := range qz.Overwritten {
		out = append(out, Anomaly{n, AnomalyOverwrittenNumber, "an earlier question with this number was replaced"})
	}
	return out
}
