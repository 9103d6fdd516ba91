package overlay

import (
	"slices"
	"strings"

	"github.com/embeddedllama/reoverlay/pkg/errors"
)

// ListBlock reconciles a contiguous block of list-item lines, introduced by a
// fixed prefix marker, against a canonical ordered sequence. Order is part of
// the desired state: a block with identical membership in a different order
// is rewritten. Nothing outside the block boundaries is touched.
type ListBlock struct {
	label string

	// Marker is the literal text introducing the block, ending with the
	// newline of the marker line, e.g. "    needs:\n".
	Marker string

	// ItemPrefix is the literal prefix of each item line, e.g. "      - ".
	ItemPrefix string

	// Canonical is the desired ordered sequence of identifiers.
	Canonical []string
}

// NewListBlock creates an ordered-list reconciler.
func NewListBlock(label, marker, itemPrefix string, canonical []string) *ListBlock {
	return &ListBlock{label: label, Marker: marker, ItemPrefix: itemPrefix, Canonical: canonical}
}

// Label implements Reconciler.
func (l *ListBlock) Label() string { return l.label }

// Apply implements Reconciler. The candidate block runs from just after the
// marker to the first blank-line boundary (two consecutive newlines). Both
// the marker and the boundary are required; their absence means the expected
// document shape changed upstream and blind edits must not proceed.
func (l *ListBlock) Apply(in string) (string, bool, error) {
	start, ok := Locate(in, l.Marker)
	if !ok {
		return in, false, &errors.MarkerError{Marker: strings.TrimSpace(l.Marker), Message: "not found; manual merge needed"}
	}

	blockStart := start + len(l.Marker)
	rel := strings.Index(in[blockStart:], "\n\n")
	if rel < 0 {
		return in, false, &errors.MarkerError{Marker: strings.TrimSpace(l.Marker), Message: "block boundary not found; manual merge needed"}
	}
	// Include the newline terminating the last block line so the block is a
	// whole number of lines; the second newline of the boundary stays with
	// the remainder.
	blockEnd := blockStart + rel + 1

	if slices.Equal(l.extract(in[blockStart:blockEnd]), l.Canonical) {
		return in, false, nil
	}

	var b strings.Builder
	for _, item := range l.Canonical {
		b.WriteString(l.ItemPrefix)
		b.WriteString(item)
		b.WriteString("\n")
	}
	return in[:blockStart] + b.String() + in[blockEnd:], true, nil
}

// extract returns the ordered identifiers of the item lines in a block.
// Lines that do not carry the item prefix are not part of the comparable
// sequence; this keeps incidental whitespace from defeating the comparison.
func (l *ListBlock) extract(block string) []string {
	var items []string
	for _, line := range strings.Split(block, "\n") {
		if !strings.HasPrefix(line, l.ItemPrefix) {
			continue
		}
		item := strings.TrimSpace(line[len(l.ItemPrefix):])
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
