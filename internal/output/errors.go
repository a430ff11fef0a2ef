package output

import (
	"errors"
	"fmt"
)

// Error is a structured error with code, message, and optional hint.
type Error struct {
	Code    string
	Message string
	Hint    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	return ExitCodeFor(e.Code)
}

// Error constructors for common cases.

func ErrUsage(msg string) *Error {
	return &Error{Code: CodeUsage, Message: msg}
}

func ErrUsageHint(msg, hint string) *Error {
	return &Error{Code: CodeUsage, Message: msg, Hint: hint}
}

// ErrNoMatch reports an expression no grammar rule accepted.
func ErrNoMatch(input string) *Error {
	return &Error{
		Code:    CodeNoMatch,
		Message: fmt.Sprintf("Could not understand %q", input),
		Hint:    "Run: when tokens " + quoteArg(input) + " to see how it was read",
	}
}

func ErrConfig(msg string, cause error) *Error {
	return &Error{
		Code:    CodeConfig,
		Message: msg,
		Hint:    "Run: when config show",
		Cause:   cause,
	}
}

func ErrInternal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// AsError attempts to convert an error to an *Error.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal(err)
}

func quoteArg(s string) string {
	for _, r := range s {
		if r == ' ' || r == '\'' || r == '"' {
			return fmt.Sprintf("%q", s)
		}
	}
	return s
}
