package web

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is rendered as the error page. Status defaults to 500.
type Error struct {
	Status  int
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Message, e.Err)
	}

	return e.Title + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}

	return e.Status
}

type statusCodeResponder interface {
	StatusCode() int
	Error() string
}

// failed wraps err for the error page. The status comes from err when it carries one, so
// storage errors map to 404, 403 or 502.
func failed(title string, err error) *Error {
	status := http.StatusInternalServerError

	var sc statusCodeResponder
	if errors.As(err, &sc) && sc.StatusCode() != 0 {
		status = sc.StatusCode()
	}

	return &Error{Status: status, Title: title, Message: "An error occurred: " + err.Error(), Err: err}
}

var errPageNotFound = &Error{
	Status:  http.StatusNotFound,
	Title:   "Page Not Found",
	Message: "The page you're looking for doesn't exist.",
}
