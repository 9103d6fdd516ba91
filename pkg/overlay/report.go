package overlay

import "strings"

// Report accumulates the labels of reconciliations that actually modified a
// file, in run order.
type Report struct {
	Changed []string
}

// Add records a change label.
func (r *Report) Add(label string) {
	r.Changed = append(r.Changed, label)
}

// HasChanges returns true if any reconciliation modified a file.
func (r *Report) HasChanges() bool {
	return len(r.Changed) > 0
}

// Summary returns the single consolidated run message.
func (r *Report) Summary() string {
	if !r.HasChanges() {
		return "Nothing to reapply; overlays already present."
	}
	return "Reapplied overlays: " + strings.Join(r.Changed, ", ")
}
