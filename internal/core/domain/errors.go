package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures. Each kind is itself an error so
// callers can test for it with errors.Is.
type ErrorKind string

// Error kinds raised by the pipeline.
const (
	// ErrValidation indicates a malformed or non-PDF URL.
	ErrValidation ErrorKind = "validation error"

	// ErrRetrieval indicates the source could not be downloaded.
	ErrRetrieval ErrorKind = "retrieval error"

	// ErrExtraction indicates the source produced no usable text.
	ErrExtraction ErrorKind = "extraction error"

	// ErrSegmentation indicates segmentation produced no fragments.
	ErrSegmentation ErrorKind = "segmentation error"

	// ErrBackend indicates a session open, send or synthesis failure.
	ErrBackend ErrorKind = "backend error"

	// ErrPersistence indicates a storage write failure.
	ErrPersistence ErrorKind = "persistence error"
)

// Error implements the error interface.
func (k ErrorKind) Error() string {
	return string(k)
}

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown backend, extractor or store type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Session Errors.

	// ErrOutOfOrder indicates a fragment was sent with an ordinal other
	// than the next expected one.
	ErrOutOfOrder = errors.New("fragment sent out of order")

	// ErrSynthesisNotReady indicates synthesis was requested before every
	// fragment was sent.
	ErrSynthesisNotReady = errors.New("synthesis requested before all fragments were sent")

	// ErrInvalidSessionState indicates an operation is not legal in the
	// session's current state.
	ErrInvalidSessionState = errors.New("invalid session state")

	// ErrSessionFailed indicates the session previously failed and cannot be used.
	ErrSessionFailed = errors.New("session failed")

	// ErrEmptySummary indicates the backend produced no assistant message.
	ErrEmptySummary = errors.New("backend returned no summary")

	// ErrBackendUnavailable indicates no conversation backend is configured.
	ErrBackendUnavailable = errors.New("conversation backend unavailable")
)

// PipelineError is the tagged error returned by the paper pipeline.
// Kind identifies the failing stage; Err carries the underlying cause.
type PipelineError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewPipelineError wraps err with a kind and the operation that failed.
func NewPipelineError(kind ErrorKind, op string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Op: op, Err: err}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind.
func (e *PipelineError) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

// RunError reports a synthesis run that ended in a terminal status other
// than completed. It always classifies as ErrBackend.
type RunError struct {
	RunID  string
	Status RunStatus
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("run %s ended with status %q", e.RunID, e.Status)
}

// Is reports true for ErrBackend.
func (e *RunError) Is(target error) bool {
	return target == ErrBackend
}
