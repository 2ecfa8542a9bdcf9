package errors

import (
	"fmt"
	"strings"

	"github.com/kbukum/rowpipe/span"
)

// AppError is the unified error descriptor.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Span is the source position of the offending value or argument.
	Span span.Span `json:"span"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Span.IsKnown() {
		fmt.Fprintf(&b, " (at %s)", e.Span)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Structural reports whether the error stops a pipeline instead of
// occupying a single element.
func (e *AppError) Structural() bool { return IsStructuralCode(e.Code) }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithSpan sets the source position and returns the receiver.
func (e *AppError) WithSpan(s span.Span) *AppError {
	e.Span = s
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, s span.Span) *AppError {
	return &AppError{Code: code, Message: message, Span: s}
}

// --- Element error constructors ---

// CantConvert creates an AppError for a value that cannot be converted
// from one type to another.
func CantConvert(to, from string, s span.Span) *AppError {
	return &AppError{
		Code: ErrCodeCantConvert, Message: fmt.Sprintf("can't convert %s to %s", from, to),
		Span: s, Details: map[string]any{"to": to, "from": from},
	}
}

// UnsupportedInput creates an AppError for an input variant a command does
// not handle.
func UnsupportedInput(message string, s span.Span) *AppError {
	return &AppError{Code: ErrCodeUnsupportedInput, Message: message, Span: s}
}

// PipelineMismatch creates an AppError for an element whose type does not
// match what the command expects. head is the position of the command, s the
// position of the element.
func PipelineMismatch(expected string, head, s span.Span) *AppError {
	return &AppError{
		Code: ErrCodePipelineMismatch, Message: fmt.Sprintf("pipeline input is not a %s", expected),
		Span: s, Details: map[string]any{"expected": expected, "command": head.String()},
	}
}

// --- Cell path error constructors ---

// ColumnNotFound creates an AppError for a missing record field.
func ColumnNotFound(column string, s span.Span) *AppError {
	return &AppError{
		Code: ErrCodeColumnNotFound, Message: fmt.Sprintf("cannot find column '%s'", column),
		Span: s, Details: map[string]any{"column": column},
	}
}

// AccessBeyondEnd creates an AppError for an out-of-range list index.
func AccessBeyondEnd(index, length int, s span.Span) *AppError {
	return &AppError{
		Code: ErrCodeAccessBeyondEnd, Message: fmt.Sprintf("row number %d too large (list has %d rows)", index, length),
		Span: s, Details: map[string]any{"index": index, "length": length},
	}
}

// IncompatiblePathAccess creates an AppError for a path member applied to
// a value of the wrong shape.
func IncompatiblePathAccess(member, kind string, s span.Span) *AppError {
	return &AppError{
		Code: ErrCodeIncompatiblePathAccess, Message: fmt.Sprintf("cannot access '%s' on a %s", member, kind),
		Span: s, Details: map[string]any{"member": member, "kind": kind},
	}
}

// --- Structural error constructors ---

// TypeMismatch creates an AppError for an argument of the wrong type.
func TypeMismatch(expected string, s span.Span) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("type mismatch: expected %s", expected),
		Span: s, Details: map[string]any{"expected": expected},
	}
}

// InvalidInput creates an AppError for invalid caller input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason), Details: details,
	}
}

// Validation creates an AppError for failed struct validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// MissingArgument creates an AppError for a required argument that was not supplied.
func MissingArgument(name string) *AppError {
	return &AppError{
		Code: ErrCodeMissingArgument, Message: fmt.Sprintf("missing required argument: %s", name),
		Details: map[string]any{"argument": name},
	}
}

// InvalidFormat creates an AppError for input data that could not be decoded.
func InvalidFormat(format string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("input is not valid %s", format),
		Details: map[string]any{"format": format}, Cause: cause,
	}
}

// Internal creates an AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred", Cause: cause,
	}
}
