package blobstore

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies storage failures so callers never have to match on messages.
type ErrorKind int

const (
	KindTransient ErrorKind = iota
	KindNotFound
	KindAccessDenied
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindAccessDenied:
		return "access denied"
	default:
		return "transient io error"
	}
}

var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
)

// Error is returned by every Store implementation.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func NewError(kind ErrorKind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q: %s", e.Op, e.Path, e.Kind)
	}

	return fmt.Sprintf("%s %q: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) and errors.Is(err, ErrAccessDenied) match on kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrAccessDenied:
		return e.Kind == KindAccessDenied
	default:
		return false
	}
}

// StatusCode maps the kind onto the HTTP status the web variant answers with.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindAccessDenied:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

// KindOf returns the kind of a storage error. ok is false when err is not one.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return KindTransient, false
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
