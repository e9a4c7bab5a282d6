package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies failures raised by clients and stores
type ErrorKind string

const (
	KindInvalidCredential     ErrorKind = "invalid_credential"
	KindCredentialMissing     ErrorKind = "credential_missing"
	KindNotFound              ErrorKind = "not_found"
	KindRemoteRateLimited     ErrorKind = "remote_rate_limited"
	KindRemoteForbidden       ErrorKind = "remote_forbidden"
	KindRemoteServerError     ErrorKind = "remote_server_error"
	KindRemoteValidationError ErrorKind = "remote_validation_error"
	KindRemoteProtocolError   ErrorKind = "remote_protocol_error"
	KindRemoteEmptyResponse   ErrorKind = "remote_empty_response"
	KindNetworkError          ErrorKind = "network_error"
	KindTimeoutError          ErrorKind = "timeout_error"
	KindPersistenceError      ErrorKind = "persistence_error"
	KindUnauthorized          ErrorKind = "unauthorized"
	KindUnknown               ErrorKind = "unknown"
)

// Error is the typed error carried from clients and stores up to the HTTP boundary
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a typed error without a cause
func NewError(kind ErrorKind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// WrapError builds a typed error around a cause
func WrapError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ValidationError is a destination-reported field error, surfaced verbatim
func ValidationError(op, field, message string) *Error {
	return &Error{Kind: KindRemoteValidationError, Op: op, Field: field, Message: message}
}

// KindOf returns the kind of the first typed error in err's chain
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// TransportError classifies a failed round trip as a timeout or a network error
func TransportError(op string, err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return WrapError(KindTimeoutError, op, err)
	}
	return WrapError(KindNetworkError, op, err)
}

// StatusError classifies a non-OK HTTP status returned by a remote API
func StatusError(op string, status int, body string) *Error {
	kind := KindRemoteProtocolError
	switch {
	case status == http.StatusTooManyRequests:
		kind = KindRemoteRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindRemoteForbidden
	case status >= http.StatusInternalServerError:
		kind = KindRemoteServerError
	}
	msg := fmt.Sprintf("unexpected status %d", status)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return NewError(kind, op, msg)
}
