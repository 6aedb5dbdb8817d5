package model

import "fmt"

// ValidationError reports malformed or out-of-range user input. It is always
// user-visible and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError builds a ValidationError with a formatted,
// human-actionable message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PermissionError reports an admin-gating failure. No state changes when it
// is returned.
type PermissionError struct {
	Msg string
}

func (e *PermissionError) Error() string {
	return e.Msg
}

// NotFoundKind classifies why a reference failed to resolve.
type NotFoundKind string

const (
	// NotFoundStaleReference means a reply-context command pointed at a
	// message that no longer carries media metadata.
	NotFoundStaleReference NotFoundKind = "stale_reference"
	// NotFoundIndexOutOfRange means a positional favorite index was outside
	// the user's current favorites list.
	NotFoundIndexOutOfRange NotFoundKind = "index_out_of_range"
	// NotFoundUnknownLabel means a label keyword had no mapping for the user.
	NotFoundUnknownLabel NotFoundKind = "unknown_label"
	// NotFoundUnknownPost means a scheduled post id does not exist.
	NotFoundUnknownPost NotFoundKind = "unknown_post"
)

// NotFoundError reports a resolution failure. No state changes when it is
// returned.
type NotFoundError struct {
	Kind NotFoundKind
	Msg  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// NewNotFoundError builds a NotFoundError of the given kind with a formatted
// message.
func NewNotFoundError(kind NotFoundKind, format string, args ...any) *NotFoundError {
	return &NotFoundError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// PersistenceError reports that a durable write failed. The in-memory state
// is rolled back before this error is returned, so the caller can safely
// tell the user the action did not take effect.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// CorruptStateError reports an unreadable state document at startup. It is
// fatal: the process must not proceed with fabricated or empty state.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("state document %s is unreadable: %v", e.Path, e.Err)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// InvalidStateError reports an operation attempted against an entity in the
// wrong lifecycle state, such as firing an already-fired scheduled post.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string {
	return e.Msg
}

// NewInvalidStateError builds an InvalidStateError with a formatted message.
func NewInvalidStateError(format string, args ...any) *InvalidStateError {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}
