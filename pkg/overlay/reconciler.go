package overlay

// Reconciler brings one aspect of a document into its desired state,
// idempotently. Apply never writes anywhere; it returns the reconciled text
// and whether it differs from the input. A nil error with changed=false means
// the desired state already holds.
type Reconciler interface {
	// Label identifies this reconciliation in change reports, e.g. "banner".
	Label() string

	// Apply returns the reconciled document text. It must be a pure
	// transformation: same input, same output, and applying the result a
	// second time must report unchanged.
	Apply(in string) (out string, changed bool, err error)
}
