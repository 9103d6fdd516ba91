package overlay

import (
	"strings"

	"github.com/embeddedllama/reoverlay/pkg/errors"
)

// State classifies a document relative to a banner overlay.
type State int

const (
	// StateUnknown means the document starts with neither the banner nor
	// the recognized upstream marker. Blind edits must not proceed.
	StateUnknown State = iota
	// StateOriginal means the document is the unmodified upstream form.
	StateOriginal
	// StateReconciled means the banner is already the document prefix.
	StateReconciled
)

// String returns a string representation of the State.
func (s State) String() string {
	switch s {
	case StateOriginal:
		return "original"
	case StateReconciled:
		return "reconciled"
	default:
		return "unknown"
	}
}

// Banner ensures a fixed banner block is the prefix of a document. The
// three-way classification (reconciled / original / unknown) is kept separate
// from the transformation so the "what state is this" decision stays pure.
type Banner struct {
	label string

	// Text is the exact banner block, including its trailing separator.
	Text string

	// OriginalPrefix is the literal prefix identifying the unmodified
	// upstream form of the document.
	OriginalPrefix string
}

// NewBanner creates a banner reconciler.
func NewBanner(label, text, originalPrefix string) *Banner {
	return &Banner{label: label, Text: text, OriginalPrefix: originalPrefix}
}

// Label implements Reconciler.
func (b *Banner) Label() string { return b.label }

// Classify reports which recognized form the document is in.
func (b *Banner) Classify(doc string) State {
	switch {
	case strings.HasPrefix(doc, b.Text):
		return StateReconciled
	case strings.HasPrefix(doc, b.OriginalPrefix):
		return StateOriginal
	default:
		return StateUnknown
	}
}

// Apply implements Reconciler. Prepending to an already-modified-but-different
// document would corrupt it, so an unknown shape fails loudly with a short
// diagnostic prefix instead of guessing.
func (b *Banner) Apply(in string) (string, bool, error) {
	switch b.Classify(in) {
	case StateReconciled:
		return in, false, nil
	case StateOriginal:
		return b.Text + in, true, nil
	default:
		return in, false, &errors.ShapeError{Prefix: head(in, 40)}
	}
}
