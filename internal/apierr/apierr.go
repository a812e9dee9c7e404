// Package apierr defines the error taxonomy shared by the synchronous and
// streaming delivery paths.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind identifies a failure class.
type Kind string

const (
	KindInvalidLocator     Kind = "invalid_locator"
	KindExtraction         Kind = "extraction_failed"
	KindUnsupportedQuality Kind = "unsupported_quality"
	KindForbidden          Kind = "forbidden"
	KindTransfer           Kind = "transfer_failed"
	KindValidation         Kind = "validation_error"
	KindInternal           Kind = "internal_error"
)

// Error is the classified failure carried up the call stack and rendered by
// both delivery protocols.
type Error struct {
	Kind    Kind
	Message string
	// Available lists offered quality labels for KindUnsupportedQuality.
	Available []string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a classification to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// InvalidLocator reports a locator matching none of the recognized syntaxes.
func InvalidLocator(locator string) *Error {
	return New(KindInvalidLocator, fmt.Sprintf("not a recognized video locator - %s", locator))
}

// UnsupportedQuality reports a quality request no offered format satisfies.
func UnsupportedQuality(requested string, available []string) *Error {
	return &Error{
		Kind:      KindUnsupportedQuality,
		Message:   fmt.Sprintf("quality %q is not offered for this video", requested),
		Available: available,
	}
}

// Classify maps an arbitrary failure from a collaborator into the taxonomy.
// Already-classified errors pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "403") || strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "access denied") || strings.Contains(msg, "login required"):
		return Wrap(KindForbidden, "upstream denied access to the media", err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return Wrap(KindTransfer, "transfer interrupted", err)
	case isNetworkError(err):
		return Wrap(KindTransfer, "transfer failed", err)
	}
	return Wrap(KindInternal, "unexpected failure", err)
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection") || strings.Contains(msg, "unexpected eof") ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "broken pipe")
}

// Status maps a kind to the HTTP status code it surfaces as. Client faults
// are 4xx, upstream denials 403, everything else a generic 500.
func Status(kind Kind) int {
	switch kind {
	case KindInvalidLocator, KindUnsupportedQuality, KindValidation:
		return http.StatusBadRequest
	case KindExtraction, KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the detail text safe to show callers. Internal
// failures never leak their cause.
func (e *Error) PublicMessage() string {
	if e.Kind == KindInternal || e.Kind == KindTransfer {
		return e.Message
	}
	if e.Err != nil && (e.Kind == KindExtraction || e.Kind == KindForbidden) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}
