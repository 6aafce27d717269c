package rowfilter

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrLex     ErrorKind = "lex"
	ErrParse   ErrorKind = "parse"
	ErrCompile ErrorKind = "compile"
	ErrSchema  ErrorKind = "schema"
)

// Error is the failure type for the whole engine. Every stage fails fast and
// carries the original expression text for diagnostics; nothing is retried or
// partially succeeds.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     int    // token position, meaningful for lex and parse errors
	Expr    string // the original expression text
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Expr != "" {
		base = fmt.Sprintf("%s in %q", base, e.Expr)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func compileErrorf(format string, args ...any) *Error {
	return &Error{Kind: ErrCompile, Message: fmt.Sprintf(format, args...)}
}
