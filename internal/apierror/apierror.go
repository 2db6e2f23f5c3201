// Package apierror provides the error taxonomy shared by all services and the
// canonical error envelopes returned to clients. Services return *Error values;
// handlers map Kind to an HTTP status without inspecting messages, so internal
// details (stack traces, DB errors) never leak to clients.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business failure.
type Kind int

const (
	// KindNotFound: the referenced entity does not exist or is outside the
	// caller's tenant. Tenant-scoping failures surface as NotFound on purpose
	// so existence is never leaked across tenants.
	KindNotFound Kind = iota
	// KindForbidden: authenticated caller lacks tenant/store/role authority.
	KindForbidden
	// KindConflict: valid target is in an incompatible state for the
	// requested transition (e.g. closed cash session).
	KindConflict
	// KindBadRequest: caller-supplied data fails a business rule.
	KindBadRequest
	// KindInternal: anything else — datastore failures, bugs.
	KindInternal
)

// Error is the typed error all services return.
type Error struct {
	Kind    Kind
	Code    string // stable machine code, e.g. "EMAIL_ALREADY_EXISTS"
	Message string
	Err     error // wrapped cause, never serialized
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to its response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// BadRequestCode attaches a stable machine code to a BadRequest error.
func BadRequestCode(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindBadRequest, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// From extracts a typed *Error from err, or wraps it as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("error interno del servidor", err)
}

// IsKind reports whether err is a typed error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
