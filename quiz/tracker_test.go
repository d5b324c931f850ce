package quiz

import (
	"strings"
	"testing"

	"github.com/brunobiangulo/quizpdf/parser"
)

func page(n int, text string, objs ...parser.EmbeddedObject) parser.Page {
	return parser.Page{Number: n, Text: text, Objects: objs}
}

// ---------------------------------------------------------------------------
// Tracker state machine
// ---------------------------------------------------------------------------

func TestTracker_Continuation(t *testing.T) {
	tr := NewTracker(DefaultImageFilter())

	role, _ := tr.Step(page(1, "Anlage 3"))
	if role != RoleAttachment || tr.State() != StateAwaitingContinuation {
		t.Fatalf("after bare marker: role %v, state %v", role, tr.State())
	}

	role, _ = tr.Step(page(2, "Abbildung", jpegObject("x"), jpegObject("y"), jpegObject("x")))
	if role != RoleAttachment || tr.State() != StateNormal {
		t.Fatalf("after continuation: role %v, state %v", role, tr.State())
	}

	got := tr.Finish()
	if tr.State() != StateDone {
		t.Errorf("state after Finish = %v", tr.State())
	}
	if imgs := got[3]; len(imgs) != 2 || string(imgs[0].Content) != "x" || string(imgs[1].Content) != "y" {
		t.Errorf("attachment 3 = %+v", imgs)
	}
}

func TestTracker_ContinuationIgnoresMarkers(t *testing.T) {
	tr := NewTracker(DefaultImageFilter())
	tr.Step(page(1, "Anlage 1"))
	tr.Step(page(2, "Anlage 2", jpegObject("img")))

	got := tr.Finish()
	if _, ok := got[2]; ok {
		t.Error("continuation page recorded under its own marker")
	}
	if len(got[1]) != 1 {
		t.Errorf("attachment 1 = %+v", got[1])
	}
}

func TestTracker_MarkerWithImages(t *testing.T) {
	tr := NewTracker(DefaultImageFilter())
	role, _ := tr.Step(page(1, "ANLAGE 5\nSchaltplan", jpegObject("first"), jpegObject("second")))
	if role != RoleAttachment || tr.State() != StateNormal {
		t.Fatalf("role %v, state %v", role, tr.State())
	}
	got := tr.Finish()
	if imgs := got[5]; len(imgs) != 1 || string(imgs[0].Content) != "first" {
		t.Errorf("attachment 5 = %+v", imgs)
	}
}

func TestTracker_RecordOnce(t *testing.T) {
	tr := NewTracker(DefaultImageFilter())
	tr.Step(page(1, "Anlage 1", jpegObject("old")))
	tr.Step(page(2, "Anlage 1", jpegObject("new")))

	if got := tr.Finish()[1]; string(got[0].Content) != "old" {
		t.Errorf("attachment 1 overwritten: %q", got[0].Content)
	}
}

func TestTracker_ContentPages(t *testing.T) {
	tr := NewTracker(DefaultImageFilter())

	role, intro := tr.Step(page(1, "Katalog A Seite 1"+questionText(1, "Q?", "", 8, 1)))
	if role != RoleContent || intro != "Katalog A Seite 1" {
		t.Errorf("content page: role %v, intro %q", role, intro)
	}

	// A page with a boundary wins over an Anlage mention.
	role, _ = tr.Step(page(2, "Anlage 9 beachten"+questionText(2, "Q?", "", 8, 1), jpegObject("z")))
	if role != RoleContent {
		t.Errorf("boundary page with marker: role %v", role)
	}

	role, _ = tr.Step(page(3, "Fortsetzung ohne Frage"))
	if role != RolePassThrough {
		t.Errorf("plain page: role %v", role)
	}

	if got := tr.Finish(); len(got) != 0 {
		t.Errorf("recorded %+v from content pages", got)
	}
}

func TestTracker_UnparseableNumber(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Anlage 4a", 4},
		{"Anlage Nr.12", 12},
		{"Anlage X", 0},
	}
	for _, tt := range tests {
		tr := NewTracker(DefaultImageFilter())
		tr.Step(page(1, tt.text, jpegObject("img")))
		if _, ok := tr.Finish()[tt.want]; !ok {
			t.Errorf("%q: nothing recorded under %d", tt.text, tt.want)
		}
	}
}

func TestTracker_DanglingMarker(t *testing.T) {
	tr := NewTracker(DefaultImageFilter())
	tr.Step(page(1, "Anlage 7"))
	if got := tr.Finish(); len(got) != 0 {
		t.Errorf("recorded %+v without a continuation page", got)
	}
}

func TestAttachmentMap_Resolve(t *testing.T) {
	m := AttachmentMap{}
	if m.Record(1, nil) {
		t.Error("Record stored an empty image list")
	}
	m.Record(1, []Image{{Filter: "DCTDecode", Content: []byte("a")}, {Filter: "DCTDecode", Content: []byte("b")}})

	ref := m.Resolve(1)
	if !ref.Resolved() || string(ref.Image.Content) != "a" || len(ref.Images) != 2 {
		t.Errorf("Resolve(1) = %+v", ref)
	}
	if ref := m.Resolve(2); ref.Resolved() || ref.Number != 2 {
		t.Errorf("Resolve(2) = %+v", ref)
	}
}

// ---------------------------------------------------------------------------
// Assemble
// ---------------------------------------------------------------------------

func TestAssemble_ContinuationTextDropped(t *testing.T) {
	pages := []parser.Page{
		page(1, "Deckblatt"),
		page(2, "Legende"),
		page(3, "Kopf 1"+questionText(1, "Q1?", "", 8, 1)),
		page(4, "Anlage 3"),
		page(5, "Bildunterschrift", jpegObject("bild")),
		page(6, "Kopf 2"+questionText(2, "Q2?", "3", 8, 2)),
	}

	text, attachments := Assemble(pages, 2, DefaultImageFilter())

	for _, gone := range []string{"Deckblatt", "Legende", "Kopf 1", "Kopf 2", "Anlage 3", "Bildunterschrift"} {
		if strings.Contains(text, gone) {
			t.Errorf("assembled text contains %q", gone)
		}
	}
	want := questionText(1, "Q1?", "", 8, 1) + questionText(2, "Q2?", "3", 8, 2)
	if text != want {
		t.Errorf("text = %q\nwant  %q", text, want)
	}
	if len(attachments[3]) != 1 {
		t.Errorf("attachment 3 = %+v", attachments[3])
	}
}

func TestAssemble_Skip(t *testing.T) {
	pages := []parser.Page{page(1, "eins"), page(2, "zwei"), page(3, "drei")}

	tests := []struct {
		skip int
		want string
	}{
		{0, "einszweidrei"},
		{2, "drei"},
		{5, ""},
		{-1, "einszweidrei"},
	}
	for _, tt := range tests {
		if got, _ := Assemble(pages, tt.skip, DefaultImageFilter()); got != tt.want {
			t.Errorf("skip %d: got %q, want %q", tt.skip, got, tt.want)
		}
	}
}

func TestAssemble_IntroRemovedEverywhere(t *testing.T) {
	body := questionText(1, "Was ist KAT-7?", "", 8, 1)
	text, _ := Assemble([]parser.Page{page(1, "KAT-7"+body)}, 0, DefaultImageFilter())

	if strings.Contains(text, "KAT-7") {
		t.Errorf("intro left in text: %q", text)
	}
}
