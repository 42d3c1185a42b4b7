package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrObjectNotFound         = errors.New("object not found")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrValueIsRequired        = errors.New("value is required")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrDuplicateResource      = errors.New("duplicate resource")
	ErrUpstreamUnavailable    = errors.New("upstream unavailable")
	ErrProcessingFailure      = errors.New("processing failure")
)

// sanitize strips line breaks from values before they are embedded into
// error messages, keeping log lines single-line.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// ObjectNotFoundError indicates that the requested object does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a numeric value violated its bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %s)",
			ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidStateTransitionError indicates an operation that is not permitted
// in the object's current state. The object itself exists and is valid;
// only the requested transition is rejected.
type InvalidStateTransitionError struct {
	ParamName string
	From      string
	To        string
	Cause     error
}

// NewInvalidStateTransitionError creates an InvalidStateTransitionError without a cause.
func NewInvalidStateTransitionError(paramName, from, to string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{ParamName: paramName, From: from, To: to}
}

// NewInvalidStateTransitionErrorWithCause creates an InvalidStateTransitionError wrapping an underlying cause.
func NewInvalidStateTransitionErrorWithCause(paramName, from, to string, cause error) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{ParamName: paramName, From: from, To: to, Cause: cause}
}

func (e *InvalidStateTransitionError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s cannot go from %s to %s (cause: %s)",
			ErrInvalidStateTransition, e.ParamName, e.From, e.To, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s cannot go from %s to %s",
		ErrInvalidStateTransition, e.ParamName, e.From, e.To))
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// DuplicateResourceError indicates a unique-constraint violation, such as a
// duplicate invoice, plate, or message identifier.
type DuplicateResourceError struct {
	ParamName string
	Value     any
	Cause     error
}

// NewDuplicateResourceError creates a DuplicateResourceError without a cause.
func NewDuplicateResourceError(paramName string, value any) *DuplicateResourceError {
	return &DuplicateResourceError{ParamName: paramName, Value: value}
}

// NewDuplicateResourceErrorWithCause creates a DuplicateResourceError wrapping an underlying cause.
func NewDuplicateResourceErrorWithCause(paramName string, value any, cause error) *DuplicateResourceError {
	return &DuplicateResourceError{ParamName: paramName, Value: value, Cause: cause}
}

func (e *DuplicateResourceError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s %v (cause: %s)", ErrDuplicateResource, e.ParamName, e.Value, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s %v", ErrDuplicateResource, e.ParamName, e.Value))
}

func (e *DuplicateResourceError) Unwrap() error {
	return ErrDuplicateResource
}

// UpstreamUnavailableError indicates that a synchronous call to an external
// collaborator timed out or failed at the network level. Callers recover
// locally by degrading, never by aborting the owning request.
type UpstreamUnavailableError struct {
	Upstream string
	Cause    error
}

// NewUpstreamUnavailableError creates an UpstreamUnavailableError wrapping the network failure.
func NewUpstreamUnavailableError(upstream string, cause error) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Upstream: upstream, Cause: cause}
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrUpstreamUnavailable, e.Upstream, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrUpstreamUnavailable, e.Upstream))
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return ErrUpstreamUnavailable
}

// ProcessingFailureError indicates that an event handler failed mid-side-effect.
// It must reach the bus layer unmasked so the broker redelivers the message.
type ProcessingFailureError struct {
	MessageID string
	Cause     error
}

// NewProcessingFailureError creates a ProcessingFailureError wrapping the handler failure.
func NewProcessingFailureError(messageID string, cause error) *ProcessingFailureError {
	return &ProcessingFailureError{MessageID: messageID, Cause: cause}
}

func (e *ProcessingFailureError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: message %s (cause: %s)", ErrProcessingFailure, e.MessageID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: message %s", ErrProcessingFailure, e.MessageID))
}

func (e *ProcessingFailureError) Unwrap() error {
	return ErrProcessingFailure
}
