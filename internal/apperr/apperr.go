package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary. Handlers map a Kind
// to a status code; everything below the handlers returns *Error (or
// wraps one) instead of writing responses itself.
type Kind int

const (
	KindBadRequest Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	// KindExpectationFailed is reserved for the upload checksum gate so
	// clients can tell corrupted bytes apart from malformed requests.
	KindExpectationFailed
	KindDatabase
	KindInternal
)

func (k Kind) StatusCode() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindExpectationFailed:
		return http.StatusExpectationFailed
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns what is safe to show a client. Database and internal
// failures are logged server-side and replaced with a generic message.
func (e *Error) Message() string {
	switch e.Kind {
	case KindDatabase, KindInternal:
		return "internal server error"
	default:
		return e.Msg
	}
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func BadRequest(msg string) *Error        { return New(KindBadRequest, msg) }
func Unauthorized(msg string) *Error      { return New(KindUnauthorized, msg) }
func Forbidden(msg string) *Error         { return New(KindForbidden, msg) }
func NotFound(msg string) *Error          { return New(KindNotFound, msg) }
func ExpectationFailed(msg string) *Error { return New(KindExpectationFailed, msg) }
func Database(msg string, err error) *Error {
	return Wrap(KindDatabase, msg, err)
}
func Internal(msg string, err error) *Error {
	return Wrap(KindInternal, msg, err)
}

// From coerces any error into an *Error, defaulting to internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: KindInternal, Msg: "internal server error", Err: err}
}

func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
