package quiz

// Image is a decoded attachment image. Content is empty for images whose
// encoding is not in the JPEG family; those are kept as placeholders.
type Image struct {
	Filter   string `json:"Filter"`
	Subtype  string `json:"Subtype,omitempty"`
	MIMEType string `json:"MIMEType,omitempty"`
	Width    int    `json:"Width,omitempty"`
	Height   int    `json:"Height,omitempty"`
	Content  []byte `json:"Content,omitempty"`
}

// HasContent reports whether the image carries decoded bytes.
func (img Image) HasContent() bool { return len(img.Content) > 0 }

// AttachmentRef links a question to an attachment page. Image is the
// first recorded image and is nil when the number was never recorded.
type AttachmentRef struct {
	Number int     `json:"Number"`
	Image  *Image  `json:"Image"`
	Images []Image `json:"Images,omitempty"`
}

// Resolved reports whether the reference points at a recorded image.
func (r *AttachmentRef) Resolved() bool { return r != nil && r.Image != nil }

// Answer is one answer option of a question, numbered from 1 in order of
// appearance.
type Answer struct {
	Number    int    `json:"Number"`
	Text      string `json:"Text"`
	IsCorrect bool   `json:"IsCorrect"`
}

// Question is a numbered multiple-choice question.
type Question struct {
	Number      int            `json:"Number"`
	Text        string         `json:"Text"`
	Answers     []Answer       `json:"Answers"`
	Attachments *AttachmentRef `json:"Attachments"`
}

// CorrectAnswers returns the answers flagged as correct.
func (q *Question) CorrectAnswers() []Answer {
	var out []Answer
	for _, a := range q.Answers {
		if a.IsCorrect {
			out = append(out, a)
		}
	}
	return out
}

// Quiz is the result of parsing one document. Questions are ordered by
// first appearance; a later question with an already-used number replaces
// the earlier one in place and the number is listed in Overwritten.
// Attachments holds every attachment recorded in the document, including
// those no question refers to.
type Quiz struct {
	Source      string            `json:"-"`
	Details     map[string]string `json:"Details"`
	Questions   []Question        `json:"Questions"`
	Overwritten []int             `json:"-"`
	Attachments AttachmentMap     `json:"-"`

	index map[int]int
}

// NewQuiz returns an empty quiz for the given source.
func NewQuiz(source string, details map[string]string) *Quiz {
	if details == nil {
		details = map[string]string{}
	}
	return &Quiz{
		Source:    source,
		Details:   details,
		Questions: []Question{},
		index:     make(map[int]int),
	}
}

// Add inserts q keyed by its number. It reports false when a question
// with the same number was already present and has been replaced.
func (qz *Quiz) Add(q Question) bool {
	if qz.index == nil {
		qz.reindex()
	}
	if i, ok := qz.index[q.Number]; ok {
		qz.Questions[i] = q
		qz.Overwritten = append(qz.Overwritten, q.Number)
		return false
	}
	qz.index[q.Number] = len(qz.Questions)
	qz.Questions = append(qz.Questions, q)
	return true
}

// Question returns the question with number n.
func (qz *Quiz) Question(n int) (*Question, bool) {
	if qz.index == nil {
		qz.reindex()
	}
	i, ok := qz.index[n]
	if !ok {
		return nil, false
	}
	return &qz.Questions[i], true
}

func (qz *Quiz) reindex() {
	qz.index = make(map[int]int, len(qz.Questions))
	for i, q := range qz.Questions {
		qz.index[q.Number] = i
	}
}
