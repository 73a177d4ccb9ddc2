package weberr

import (
	"net/http"

	"github.com/irsalhamdi/e-commerce-books/apperr"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type RequestError struct {
	Err error
}

func (r *RequestError) Error() string { return r.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

func NewError(err error, msg string, status int, opts ...Opt) error {
	e := &RequestError{Err: err}
	opts = append(opts, WithResponse(
		&ErrorResponse{msg},
		status,
	))

	return Wrap(e, opts...)
}

func InternalError(err error, opts ...Opt) error {
	return NewError(
		err,
		"the server encountered a problem and could not process your request",
		http.StatusInternalServerError,
		opts...,
	)
}

type public struct {
	status int
	msg    string
}

var kinds = map[apperr.Kind]public{
	apperr.DuplicateEmail:     {http.StatusUnprocessableEntity, "email already registered"},
	apperr.DuplicateUsername:  {http.StatusUnprocessableEntity, "username already taken"},
	apperr.InvalidCredentials: {http.StatusUnauthorized, "invalid username or password"},
	apperr.NotFound:           {http.StatusNotFound, "the resource could not be found"},
	apperr.Unauthenticated:    {http.StatusUnauthorized, "login required"},
	apperr.Unauthorized:       {http.StatusForbidden, "not authorized to access resource"},
	apperr.PersistenceFailure: {http.StatusInternalServerError, "could not save changes"},
	apperr.ExternalAPIFailure: {http.StatusBadGateway, "payment provider unavailable"},
}

// FromKind attaches the public response of err's kind. Errors of unknown kind
// are returned unchanged. With debug set the raw error text is sent instead of
// the public message.
func FromKind(err error, debug bool) error {
	if err == nil {
		return nil
	}
	if _, _, ok := Response(err); ok {
		return err
	}

	kind := apperr.KindOf(err)
	p, ok := kinds[kind]
	if !ok {
		return err
	}

	msg := p.msg
	if debug {
		msg = "Error: " + err.Error()
	}

	return NewError(err, msg, p.status, WithFields(map[string]interface{}{"kind": kind.String()}))
}

// Message is the public message for kind, used by forms that show the error inline.
func Message(kind apperr.Kind) string {
	if p, ok := kinds[kind]; ok {
		return p.msg
	}
	return http.StatusText(http.StatusInternalServerError)
}
