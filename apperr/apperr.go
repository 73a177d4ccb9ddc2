// Package apperr holds the error kinds shared by the storefront's domain
// packages. Handlers translate kinds into responses through api/weberr.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Unknown Kind = iota
	DuplicateEmail
	DuplicateUsername
	InvalidCredentials
	NotFound
	Unauthenticated
	Unauthorized
	PersistenceFailure
	ExternalAPIFailure
)

var kindNames = map[Kind]string{
	Unknown:            "unknown",
	DuplicateEmail:     "duplicate email",
	DuplicateUsername:  "duplicate username",
	InvalidCredentials: "invalid credentials",
	NotFound:           "not found",
	Unauthenticated:    "unauthenticated",
	Unauthorized:       "unauthorized",
	PersistenceFailure: "persistence failure",
	ExternalAPIFailure: "external api failure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, apperr.E(k, nil))
// works as a kind test.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func E(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
