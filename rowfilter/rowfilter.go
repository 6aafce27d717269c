// Package rowfilter compiles SQL-like filter expressions such as
//
//	[Id] >= 100 && [Name] like '%hello%'
//
// into reusable, type-checked predicates over records of caller-defined
// shape. Field access is abstracted behind a FieldResolver, so the engine
// itself never reflects over host types. All errors are reported when the
// expression is compiled; a compiled Predicate cannot fail and is safe to
// share across goroutines.
package rowfilter

import (
	"errors"

	"github.com/rowfilter/rowfilter/rowfilter/expr"
)

// Predicate is a compiled filter expression: created once, invoked many
// times. It holds no mutable state and performs no I/O.
type Predicate func(record any) bool

// Match reports whether the record satisfies the predicate.
func (p Predicate) Match(record any) bool { return p(record) }

// Compile parses, type-checks and lowers an expression against the fields
// the resolver declares. The expression is parsed exactly once; the returned
// predicate evaluates with no per-call parsing, field resolution or
// allocation beyond the closure calls themselves.
func Compile(expression string, resolver FieldResolver) (Predicate, error) {
	ast, err := expr.Parse(expression)
	if err != nil {
		return nil, wrapParse(expression, err)
	}
	c := &compiler{resolver: resolver}
	fn, err := c.compileBool(ast)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Expr = expression
		}
		return nil, err
	}
	return Predicate(fn), nil
}

// Evaluate compiles the expression and applies it to a single record. For
// repeated evaluation, Compile once and reuse the predicate instead.
func Evaluate(expression string, resolver FieldResolver, record any) (bool, error) {
	p, err := Compile(expression, resolver)
	if err != nil {
		return false, err
	}
	return p(record), nil
}

// Filter returns the records matching the predicate, preserving order.
func Filter[R any](p Predicate, records []R) []R {
	var out []R
	for _, r := range records {
		if p(r) {
			out = append(out, r)
		}
	}
	return out
}

func wrapParse(expression string, err error) error {
	var lexErr *expr.LexError
	if errors.As(err, &lexErr) {
		return &Error{Kind: ErrLex, Message: lexErr.Msg, Pos: lexErr.Pos, Expr: expression, Cause: err}
	}
	var parseErr *expr.ParseError
	if errors.As(err, &parseErr) {
		return &Error{Kind: ErrParse, Message: parseErr.Msg, Pos: parseErr.Pos, Expr: expression, Cause: err}
	}
	return &Error{Kind: ErrParse, Message: err.Error(), Expr: expression, Cause: err}
}
