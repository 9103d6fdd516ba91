package overlay

import (
	"strings"

	"github.com/embeddedllama/reoverlay/pkg/errors"
)

// Edit is one fixed literal needle→replacement transformation. Each edit is
// independently idempotent: a distinct "already applied" marker substring is
// checked before any replacement is attempted.
type Edit struct {
	// Marker guards idempotence: when present in the document the edit has
	// already been applied and is skipped. Deletions (empty Replacement)
	// need no marker; the needle's absence is the guard.
	Marker string

	// Needle is the literal anchor text to replace, first occurrence only.
	Needle string

	// Replacement is the literal text substituted for the needle. Empty
	// means pure deletion.
	Replacement string

	// Optional marks remove-if-present edits: a missing needle is a clean
	// no-op rather than an error.
	Optional bool
}

// Edits applies an ordered set of fixed edits under a single report label.
type Edits struct {
	label string
	edits []Edit
}

// NewEdits creates a substring replacement reconciler.
func NewEdits(label string, edits ...Edit) *Edits {
	return &Edits{label: label, edits: edits}
}

// Label implements Reconciler.
func (e *Edits) Label() string { return e.label }

// Apply implements Reconciler.
func (e *Edits) Apply(in string) (string, bool, error) {
	out := in
	changed := false
	for _, ed := range e.edits {
		next, applied, err := ed.apply(out)
		if err != nil {
			return in, false, err
		}
		if applied {
			out = next
			changed = true
		}
	}
	return out, changed, nil
}

// apply performs a single edit against the document text.
func (ed Edit) apply(in string) (string, bool, error) {
	if ed.Marker != "" && strings.Contains(in, ed.Marker) {
		// Already applied.
		return in, false, nil
	}

	if !strings.Contains(in, ed.Needle) {
		if ed.Optional {
			// Deletable block already gone.
			return in, false, nil
		}
		// Format-drift guard: upstream no longer contains the text this
		// edit depends on.
		return in, false, &errors.AnchorError{Anchor: ed.Needle}
	}

	out := strings.Replace(in, ed.Needle, ed.Replacement, 1)
	if out == in {
		// A change was expected; a silently inert transformation means the
		// edit itself is malformed.
		return in, false, errors.ErrNoopReplacement
	}
	return out, true, nil
}
