// Package overlay implements the idempotent text-patch engine that keeps a
// fork's customizations applied to re-synced upstream files. Each reconciler
// decides whether its change is already present and, if not, locates a
// literal anchor and applies a minimal textual transformation. Matching is
// anchor/substring based; target formats are never parsed structurally.
package overlay

import "strings"

// Locate reports the position of the first occurrence of a literal anchor
// within a document. Matching is exact and case-sensitive. When the anchor is
// absent the caller decides whether that means "already reconciled" or
// "precondition failed"; it is never silently skipped.
func Locate(doc, anchor string) (int, bool) {
	i := strings.Index(doc, anchor)
	return i, i >= 0
}

// head returns at most n leading bytes of a document for error diagnostics.
func head(doc string, n int) string {
	if len(doc) <= n {
		return doc
	}
	return doc[:n]
}
