package quiz

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/brunobiangulo/quizpdf/parser"
)

// AttachmentMap holds the images recorded per attachment number for one
// document. A number is set at most once.
type AttachmentMap map[int][]Image

// Record stores imgs under n unless n is already set or imgs is empty.
// It reports whether anything was stored.
func (m AttachmentMap) Record(n int, imgs []Image) bool {
	if len(imgs) == 0 {
		return false
	}
	if _, ok := m[n]; ok {
		return false
	}
	m[n] = imgs
	return true
}

// Resolve builds the reference for attachment n. The reference is returned
// even when n was never recorded; its Image is nil in that case.
func (m AttachmentMap) Resolve(n int) *AttachmentRef {
	ref := &AttachmentRef{Number: n}
	if imgs := m[n]; len(imgs) > 0 {
		ref.Image = &imgs[0]
		ref.Images = imgs
	}
	return ref
}

// State is the position of the Tracker's page scan.
type State int

const (
	// StateNormal classifies each page on its own.
	StateNormal State = iota
	// StateAwaitingContinuation follows a marker page that had no image;
	// the next page's images belong to the pending number.
	StateAwaitingContinuation
	// StateDone is entered by Finish.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateAwaitingContinuation:
		return "awaiting_continuation"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Role tells the assembler what to do with a page's text.
type Role int

const (
	// RoleContent pages hold questions; their intro is stripped.
	RoleContent Role = iota
	// RolePassThrough pages are appended unmodified.
	RolePassThrough
	// RoleAttachment pages are dropped from the text stream.
	RoleAttachment
)

// Tracker scans the pages of one document in order and records the image
// of every "Anlage N" page. A marker page without images defers recording
// to the page that follows it.
type Tracker struct {
	state       State
	pending     int
	attachments AttachmentMap
	filter      ImageFilter
}

// NewTracker returns a Tracker in StateNormal that keeps images passing
// filter.
func NewTracker(filter ImageFilter) *Tracker {
	return &Tracker{
		attachments: make(AttachmentMap),
		filter:      filter,
	}
}

// State returns the current scan state.
func (t *Tracker) State() State { return t.state }

// Step classifies the next page. For content pages it also returns the
// intro text that precedes the first question.
func (t *Tracker) Step(p parser.Page) (Role, string) {
	switch t.state {
	case StateAwaitingContinuation:
		imgs := ExtractImages(p.Objects, t.filter)
		if !t.attachments.Record(t.pending, imgs) {
			slog.Warn("attachments: continuation page recorded nothing",
				"number", t.pending, "page", p.Number, "images", len(imgs))
		} else {
			slog.Debug("attachments: recorded from continuation page",
				"number", t.pending, "page", p.Number, "images", len(imgs))
		}
		t.pending = 0
		t.state = StateNormal
		return RoleAttachment, ""

	case StateDone:
		return RolePassThrough, ""
	}

	if intro, ok := pageIntro(p.Text); ok {
		return RoleContent, intro
	}

	m := markerPagePattern.FindStringSubmatch(p.Text)
	if m == nil {
		return RolePassThrough, ""
	}

	n := attachmentNumber(m[1], p.Number)
	imgs := ExtractImages(p.Objects, t.filter)
	if len(imgs) == 0 {
		t.pending = n
		t.state = StateAwaitingContinuation
		return RoleAttachment, ""
	}
	if t.attachments.Record(n, imgs[:1]) {
		slog.Debug("attachments: recorded", "number", n, "page", p.Number)
	} else {
		slog.Warn("attachments: number already recorded", "number", n, "page", p.Number)
	}
	return RoleAttachment, ""
}

// Finish ends the scan and returns the attachments recorded so far.
func (t *Tracker) Finish() AttachmentMap {
	if t.state == StateAwaitingContinuation {
		slog.Warn("attachments: document ended before continuation page", "number", t.pending)
	}
	t.state = StateDone
	return t.attachments
}

// attachmentNumber parses the token following "Anlage". Tokens that are
// not plain integers are coerced by dropping every non-digit.
func attachmentNumber(token string, page int) int {
	if n, err := strconv.Atoi(token); err == nil {
		return n
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, token)
	n, _ := strconv.Atoi(digits)
	slog.Warn("attachments: unparseable attachment number", "page", page, "token", token, "using", n)
	return n
}
