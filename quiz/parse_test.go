package quiz

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/brunobiangulo/quizpdf/parser"
)

func TestBuild_SingleQuestion(t *testing.T) {
	text := "\n1\t\tWhat is X?(1,00 P.)" + MarkerCorrect + " A" +
		MarkerIncorrect + " B" + MarkerIncorrect + " C" + MarkerIncorrect + " D" +
		MarkerIncorrect + " E" + MarkerIncorrect + " F" + MarkerIncorrect + " G" +
		MarkerIncorrect + " H"

	qz := NewQuiz("inline", nil)
	if err := Build(qz, text, AttachmentMap{}, 8); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(qz.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(qz.Questions))
	}
	q := qz.Questions[0]
	if q.Number != 1 || q.Text != "What is X?(1,00 P.)" {
		t.Errorf("question = %d %q", q.Number, q.Text)
	}
	if len(q.Answers) != 8 {
		t.Fatalf("got %d answers, want 8", len(q.Answers))
	}
	for i, a := range q.Answers {
		if a.IsCorrect != (i == 0) {
			t.Errorf("answer %d IsCorrect = %v", a.Number, a.IsCorrect)
		}
	}
	if q.Answers[0].Text != "A" || q.Answers[7].Text != "H" {
		t.Errorf("answers = %+v", q.Answers)
	}
	if q.Attachments != nil {
		t.Errorf("Attachments = %+v, want nil", q.Attachments)
	}
}

func TestBuild_UnresolvedAttachment(t *testing.T) {
	qz := NewQuiz("inline", nil)
	if err := Build(qz, questionText(1, "Was zeigt das Bild?", "Siehe Anlage 2", 8, 1), AttachmentMap{}, 8); err != nil {
		t.Fatalf("Build: %v", err)
	}
	ref := qz.Questions[0].Attachments
	if ref == nil || ref.Number != 2 || ref.Image != nil {
		t.Errorf("Attachments = %+v, want number 2 without image", ref)
	}
}

func TestBuild_ErrorCarriesQuestionNumber(t *testing.T) {
	text := questionText(1, "Q?", "", 8, 1) + questionText(2, "Q?", "", 7, 1)

	err := Build(NewQuiz("inline", nil), text, nil, 8)
	if !errors.Is(err, ErrStructuralMismatch) {
		t.Fatalf("err = %v, want ErrStructuralMismatch", err)
	}
	if !strings.Contains(err.Error(), "question 2") {
		t.Errorf("error %q does not name question 2", err)
	}
}

func TestBuild_DuplicateNumber(t *testing.T) {
	text := questionText(1, "Alt?", "", 8, 1) + questionText(2, "Zwei?", "", 8, 1) + questionText(1, "Neu?", "", 8, 2)

	qz := NewQuiz("inline", nil)
	if err := Build(qz, text, nil, 8); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(qz.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(qz.Questions))
	}
	if qz.Questions[0].Text != "Neu?(1,00 P.)" {
		t.Errorf("question 1 = %q, want the later one", qz.Questions[0].Text)
	}
	if len(qz.Overwritten) != 1 || qz.Overwritten[0] != 1 {
		t.Errorf("Overwritten = %v", qz.Overwritten)
	}
}

func buildDocument() *parser.Document {
	return &parser.Document{
		Path:     "UBI.pdf",
		Metadata: map[string]string{"Title": "Fragenkatalog UBI"},
		Pages: []parser.Page{
			page(1, "Fragenkatalog UBI"),
			page(2, "Legende"+MarkerCorrect+" richtig "+MarkerIncorrect+" falsch"),
			page(3, "UBI Seite 1"+
				questionText(1, "Was bedeutet Mayday?", "", 8, 2)+
				questionText(2, "Welches Signal zeigt die Anlage?", "1", 8, 5)),
			page(4, "Anlage 1"),
			page(5, "", jpegObject("signal")),
			page(6, "UBI Seite 2"+questionText(3, "Letzte Frage?", "", 8, 8)),
		},
	}
}

func TestParse_Document(t *testing.T) {
	qz, err := Parse(buildDocument(), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if qz.Source != "UBI.pdf" || qz.Details["Title"] != "Fragenkatalog UBI" {
		t.Errorf("source %q, details %v", qz.Source, qz.Details)
	}
	if len(qz.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(qz.Questions))
	}
	for _, q := range qz.Questions {
		if len(q.Answers) != 8 {
			t.Errorf("question %d has %d answers", q.Number, len(q.Answers))
		}
		if strings.Contains(q.Text, "UBI Seite") {
			t.Errorf("question %d keeps page intro: %q", q.Number, q.Text)
		}
	}
	q2, ok := qz.Question(2)
	if !ok {
		t.Fatal("question 2 missing")
	}
	if !q2.Attachments.Resolved() || string(q2.Attachments.Image.Content) != "signal" {
		t.Errorf("question 2 attachment = %+v", q2.Attachments)
	}
	if q3, _ := qz.Question(3); !q3.Answers[7].IsCorrect {
		t.Errorf("question 3 answers = %+v", q3.Answers)
	}
}

func TestParse_KeepsUnreferencedAttachments(t *testing.T) {
	doc := buildDocument()
	doc.Pages = append(doc.Pages, page(7, "Anlage 4", jpegObject("spare")))

	qz, err := Parse(doc, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if imgs := qz.Attachments[4]; len(imgs) != 1 || string(imgs[0].Content) != "spare" {
		t.Errorf("attachment 4 = %+v", imgs)
	}
	if imgs := qz.Attachments[1]; len(imgs) != 1 || string(imgs[0].Content) != "signal" {
		t.Errorf("attachment 1 = %+v", imgs)
	}
}

func TestParse_FourAnswers(t *testing.T) {
	doc := &parser.Document{
		Path: "ecqb.pdf",
		Pages: []parser.Page{
			page(1, "cover"), page(2, "legend"),
			page(3, "ECQB"+questionText(1, "Q?", "", 4, 1)+questionText(2, "Q?", "", 4, 4)),
		},
	}

	if _, err := Parse(doc, DefaultOptions()); !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("eight-answer parse err = %v, want ErrStructuralMismatch", err)
	}

	opts := DefaultOptions()
	opts.AnswersPerQuestion = 4
	qz, err := Parse(doc, opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, q := range qz.Questions {
		if len(q.Answers) != 4 {
			t.Errorf("question %d has %d answers", q.Number, len(q.Answers))
		}
	}
}

func TestParse_DetailsAreCopied(t *testing.T) {
	doc := buildDocument()
	qz, err := Parse(doc, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	qz.Details["Title"] = "changed"
	if doc.Metadata["Title"] != "Fragenkatalog UBI" {
		t.Error("quiz details alias document metadata")
	}
}

func TestQuiz_JSON(t *testing.T) {
	qz, err := Parse(buildDocument(), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := json.Marshal(qz)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 || decoded["Details"] == nil || decoded["Questions"] == nil {
		t.Errorf("top-level keys = %v", keys(decoded))
	}
	if !strings.Contains(string(b), `"IsCorrect":true`) {
		t.Errorf("json lacks answer fields: %s", b)
	}
}

func keys(m map[string]json.RawMessage) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
