// Package errors provides custom error types for the reoverlay tool.
// Every fail-fast precondition in the reconciliation engine maps to a
// sentinel here so callers can check conditions programmatically with
// errors.Is while still getting a descriptive message.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Sentinel errors for the reconciliation engine.
var (
	// ErrShapeUnrecognized indicates a document starts with neither the
	// reconciled banner nor the recognized upstream marker.
	ErrShapeUnrecognized = errors.New("document shape unrecognized")

	// ErrAnchorMissing indicates a required literal anchor is absent from
	// a document that has not been reconciled yet.
	ErrAnchorMissing = errors.New("required anchor missing")

	// ErrMarkerMissing indicates the structural marker (or its block
	// boundary) that a list rewrite depends on was not found.
	ErrMarkerMissing = errors.New("structural marker missing")

	// ErrNoopReplacement indicates a replacement computed as a no-op when
	// a change was expected.
	ErrNoopReplacement = errors.New("replacement was a no-op")

	// ErrInvalidManifest indicates an overlay manifest failed validation.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// ShapeError reports a document whose start matches no recognized form.
// Prefix carries the first few bytes of the offending content for diagnosis.
type ShapeError struct {
	File   string
	Prefix string
}

// Error implements the error interface
func (e *ShapeError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: header not recognized; manual merge needed (found %q)", e.File, e.Prefix)
	}
	return fmt.Sprintf("header not recognized; manual merge needed (found %q)", e.Prefix)
}

// Is implements errors.Is support
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeUnrecognized
}

// AnchorError reports a required anchor that no longer exists upstream.
type AnchorError struct {
	File   string
	Anchor string
}

// Error implements the error interface
func (e *AnchorError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s does not contain %q; manual merge needed", e.File, e.Anchor)
	}
	return fmt.Sprintf("document does not contain %q; manual merge needed", e.Anchor)
}

// Is implements errors.Is support
func (e *AnchorError) Is(target error) bool {
	return target == ErrAnchorMissing
}

// MarkerError reports a missing structural marker or block boundary.
type MarkerError struct {
	File    string
	Marker  string
	Message string
}

// Error implements the error interface
func (e *MarkerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "manual merge needed"
	}
	if e.File != "" {
		return fmt.Sprintf("%s: marker %q: %s", e.File, e.Marker, msg)
	}
	return fmt.Sprintf("marker %q: %s", e.Marker, msg)
}

// Is implements errors.Is support
func (e *MarkerError) Is(target error) bool {
	return target == ErrMarkerMissing
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "json", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a manifest validation failure
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidManifest
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "stat"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsShapeUnrecognized checks if an error is an unrecognized-shape error
func IsShapeUnrecognized(err error) bool {
	return errors.Is(err, ErrShapeUnrecognized)
}

// IsAnchorMissing checks if an error is a missing-anchor error
func IsAnchorMissing(err error) bool {
	return errors.Is(err, ErrAnchorMissing)
}

// IsMarkerMissing checks if an error is a missing-marker error
func IsMarkerMissing(err error) bool {
	return errors.Is(err, ErrMarkerMissing)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
