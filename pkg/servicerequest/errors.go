package servicerequest

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure. The set is closed.
type Kind string

const (
	KindInvalidIdentifier   Kind = "InvalidIdentifier"
	KindNotFound            Kind = "NotFound"
	KindAmbiguousIdentifier Kind = "AmbiguousIdentifier"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindUnclassified        Kind = "Unclassified"
)

// Error is the typed failure returned by the lookup operations.
type Error struct {
	Kind    Kind
	Message string
	// ID is the service request id involved, when there is one.
	ID string
	// Count is the number of matching records for KindAmbiguousIdentifier.
	Count int
	Err   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func InvalidIdentifier(id string) *Error {
	return &Error{
		Kind:    KindInvalidIdentifier,
		Message: fmt.Sprintf("'%s' is not a valid Service Request Id (%s).", id, idPattern.String()),
		ID:      id,
	}
}

func NotFound(id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("No service request found with SERVICEREQUESTID = '%s'.", id),
		ID:      id,
	}
}

func AmbiguousIdentifier(id string, count int) *Error {
	return &Error{
		Kind:    KindAmbiguousIdentifier,
		Message: fmt.Sprintf("%d service requests were found with SERVICEREQUESTID = '%s'.", count, id),
		ID:      id,
		Count:   count,
	}
}

func UpstreamUnavailable(err error) *Error {
	return &Error{
		Kind:    KindUpstreamUnavailable,
		Message: err.Error(),
		Err:     err,
	}
}

// Unclassified wraps any failure that is not one of the known kinds.
func Unclassified(err error) *Error {
	return &Error{
		Kind:    KindUnclassified,
		Message: fmt.Sprintf("An unexpected error occurred. %s", err.Error()),
		Err:     err,
	}
}

// KindOf reports the kind of err. Errors outside the taxonomy are
// KindUnclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnclassified
}

// Classify returns err as an *Error, wrapping it as Unclassified when it is
// not one already. nil stays nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Unclassified(err)
}
