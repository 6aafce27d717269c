package rowfilter

import (
	"github.com/rowfilter/rowfilter/rowfilter/expr"
)

// FieldResolver is the single collaborator contract the compiler depends on.
// It maps a field name to its declared kind and to an accessor for the
// field's value on a record instance. A resolver is supplied per Compile
// call; the compiled predicate closes over the accessors it resolved, so no
// per-evaluation lookup by name happens.
type FieldResolver interface {
	// Lookup returns the field's description, or false when no such field
	// is declared.
	Lookup(name string) (Field, bool)

	// Fields returns all declared field names. Used by the text-filter
	// convenience path to scan every field.
	Fields() []string
}

// Field describes one resolvable field.
type Field struct {
	Kind expr.Kind

	// Collection marks multi-valued fields. Collection fields support only
	// the is empty / is not empty / is null / is not null forms.
	Collection bool

	// Value returns the field's current value for a record. A missing
	// optional field resolves to Null, never an error.
	Value func(record any) expr.Value

	// Elems returns the elements of a collection field. Nil means the
	// field is absent on the record. Only set when Collection is true.
	Elems func(record any) []expr.Value
}
