package apierr

import (
	"errors"
	"fmt"
)

// Error is the boundary error type. Status is the HTTP status, Code a stable
// machine-readable kind, Message the text shown to clients.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	case e.Status != 0:
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code, so wrapped copies of a sentinel
// satisfy errors.Is against the sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil || e == nil {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Sentinel declares a reusable error kind.
func Sentinel(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap derives a new error of kind with a client-facing message and an
// optional internal cause.
func Wrap(kind *Error, message string, cause error) *Error {
	if message == "" {
		message = kind.Message
	}
	return &Error{Status: kind.Status, Code: kind.Code, Message: message, Err: cause}
}

// PublicMessage is what a client may see.
func (e *Error) PublicMessage() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}
