package quiz

import (
	"strings"
	"testing"
)

func TestVerify(t *testing.T) {
	text := questionText(1, "Eindeutig?", "", 8, 1) +
		questionText(2, "Ohne Loesung?", "", 8, 0) +
		questionText(3, "Zwei Loesungen?", "", 8, 1) +
		questionText(4, "Mit Bild?", "9", 8, 1) +
		questionText(5, "Mit Platzhalter?", "6", 8, 1)
	// Tick a second answer on question 3.
	text = replaceNth(text, MarkerIncorrect+" B", MarkerCorrect+" B", 3)

	attachments := AttachmentMap{6: {{Filter: "FlateDecode", Subtype: "Image"}}}

	qz := NewQuiz("verify", nil)
	if err := Build(qz, text, attachments, 8); err != nil {
		t.Fatalf("Build must not enforce a single correct answer: %v", err)
	}
	qz.Add(qz.Questions[0])

	got := Verify(qz)
	want := []struct {
		question int
		kind     AnomalyKind
	}{
		{2, AnomalyNoCorrectAnswer},
		{3, AnomalyMultipleCorrect},
		{4, AnomalyUnresolvedAttachment},
		{5, AnomalyPlaceholderAttachment},
		{1, AnomalyOverwrittenNumber},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d anomalies %v, want %d", len(got), got, len(want))
	}
	for i, w := range want {
		if got[i].Question != w.question || got[i].Kind != w.kind {
			t.Errorf("anomaly %d = %v, want question %d %s", i, got[i], w.question, w.kind)
		}
	}
}

func TestVerify_Clean(t *testing.T) {
	qz := NewQuiz("clean", nil)
	if err := Build(qz, questionText(1, "Q?", "", 8, 4), nil, 8); err != nil {
		t.Fatal(err)
	}
	if got := Verify(qz); len(got) != 0 {
		t.Errorf("Verify = %v, want none", got)
	}
}

// replaceNth replaces the nth occurrence (1-based) of old in s.
func replaceNth(s, old, repl string, n int) string {
	offset := 0
	for i := 1; ; i++ {
		idx := strings.Index(s[offset:], old)
		if idx < 0 {
			return s
		}
		if i == n {
			return s[:offset+idx] + repl + s[offset+idx+len(old):]
		}
		offset += idx + len(old)
	}
}
