// Package apperr defines the error kinds shared by the authoring client and the API services.
//
// Kinds are matched with errors.Is against ErrValidation, ErrRemoteOperation, ErrNotFound
// and ErrPartialBulkFailure, or with the Is* helpers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrRemoteOperation    = errors.New("remote operation failed")
	ErrNotFound           = errors.New("not found")
	ErrPartialBulkFailure = errors.New("partial bulk failure")
)

type kindError struct {
	message string
	kind    error
}

func (e *kindError) Error() string {
	return e.message
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// NewValidationSentinel returns a sentinel error that also matches ErrValidation
func NewValidationSentinel(message string) error {
	return &kindError{message: message, kind: ErrValidation}
}

// Validation builds a validation error from a format string
func Validation(format string, args ...any) error {
	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		message = "invalid input"
	}
	return &kindError{message: message, kind: ErrValidation}
}

// NotFound builds a not found error from a format string
func NotFound(format string, args ...any) error {
	return &kindError{message: fmt.Sprintf(format, args...), kind: ErrNotFound}
}

// PartialBulkFailure builds a partial bulk failure error from a format string
func PartialBulkFailure(format string, args ...any) error {
	return &kindError{message: fmt.Sprintf(format, args...), kind: ErrPartialBulkFailure}
}

// RemoteError is a failed call to a remote collaborator
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	// Enveloped is set when the failure was answered by the service itself with an error envelope,
	// as opposed to a router or proxy in front of it.
	Enveloped bool
	Err       error
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(ErrRemoteOperation.Error())
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	return b.String()
}

// Unwrap exposes the remote failure kind, the not found kind for enveloped 404 responses
// and the transport error
func (e *RemoteError) Unwrap() []error {
	errs := []error{ErrRemoteOperation}
	if e.StatusCode == http.StatusNotFound && e.Enveloped {
		errs = append(errs, ErrNotFound)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsValidation reports whether err indicates invalid input
func IsValidation(err error) bool {
	return err != nil && errors.Is(err, ErrValidation)
}

// IsRemoteFailure reports whether err is a failed remote operation
func IsRemoteFailure(err error) bool {
	return err != nil && errors.Is(err, ErrRemoteOperation)
}

// IsNotFound reports whether err indicates a missing resource
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// IsPartialBulkFailure reports whether err is a bulk operation that only partly succeeded
func IsPartialBulkFailure(err error) bool {
	return err != nil && errors.Is(err, ErrPartialBulkFailure)
}
