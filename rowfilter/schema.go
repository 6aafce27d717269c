package rowfilter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rowfilter/rowfilter/rowfilter/expr"
)

// FieldType specifies the declared type of a field
type FieldType string

const (
	FieldBool   FieldType = "bool"
	FieldNumber FieldType = "number"
	FieldText   FieldType = "text"
	FieldTime   FieldType = "time"
)

func (t FieldType) kind() expr.Kind {
	switch t {
	case FieldBool:
		return expr.KindBool
	case FieldNumber:
		return expr.KindNumber
	case FieldText:
		return expr.KindText
	case FieldTime:
		return expr.KindTime
	default:
		return expr.KindNull
	}
}

// FieldSpec defines a field's configuration
type FieldSpec struct {
	Type  FieldType `json:"type"`
	Multi bool      `json:"multi,omitempty"`
}

// Schema declares the single-level field list records are filtered against
type Schema struct {
	Fields map[string]FieldSpec `json:"fields"`
}

var validFieldNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks if the schema is valid
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return &Error{Kind: ErrSchema, Message: "schema must have at least one field"}
	}

	for name, spec := range s.Fields {
		if !validFieldNameRe.MatchString(name) {
			return &Error{Kind: ErrSchema, Message: fmt.Sprintf("invalid field name: %s (must match ^[A-Za-z_][A-Za-z0-9_]*$)", name)}
		}
		switch spec.Type {
		case FieldBool, FieldNumber, FieldText, FieldTime:
			// valid
		default:
			return &Error{Kind: ErrSchema, Message: fmt.Sprintf("unknown field type '%s' for field '%s'", spec.Type, name)}
		}
	}

	return nil
}

// ToJSON serializes the schema to JSON
func (s Schema) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// ParseSchema deserializes and validates a schema from JSON
func ParseSchema(b []byte) (Schema, error) {
	var s Schema
	if err := json.Unmarshal(b, &s); err != nil {
		return Schema{}, &Error{Kind: ErrSchema, Message: "invalid schema JSON", Cause: err}
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Get retrieves a field spec by name
func (s Schema) Get(name string) (FieldSpec, bool) {
	spec, ok := s.Fields[name]
	return spec, ok
}

// HasField checks if a field exists in the schema
func (s Schema) HasField(name string) bool {
	_, ok := s.Fields[name]
	return ok
}

// Resolver returns the built-in FieldResolver for map[string]any records.
// Host values are converted to the declared kind; a missing key or a value
// that cannot represent the declared kind resolves to Null.
func (s Schema) Resolver() FieldResolver {
	return schemaResolver{schema: s}
}

type schemaResolver struct {
	schema Schema
}

func (r schemaResolver) Lookup(name string) (Field, bool) {
	spec, ok := r.schema.Fields[name]
	if !ok {
		return Field{}, false
	}
	kind := spec.Type.kind()
	if spec.Multi {
		return Field{
			Kind:       kind,
			Collection: true,
			Value:      func(any) expr.Value { return expr.Null() },
			Elems: func(record any) []expr.Value {
				raw, ok := recordValue(record, name)
				if !ok || raw == nil {
					return nil
				}
				return convertElems(raw, kind)
			},
		}, true
	}
	return Field{
		Kind: kind,
		Value: func(record any) expr.Value {
			raw, ok := recordValue(record, name)
			if !ok {
				return expr.Null()
			}
			return convertValue(raw, kind)
		},
	}, true
}

func (r schemaResolver) Fields() []string {
	names := make([]string, 0, len(r.schema.Fields))
	for name := range r.schema.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func recordValue(record any, name string) (any, bool) {
	m, ok := record.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}

func convertElems(raw any, kind expr.Kind) []expr.Value {
	switch vs := raw.(type) {
	case []any:
		out := make([]expr.Value, 0, len(vs))
		for _, v := range vs {
			out = append(out, convertValue(v, kind))
		}
		return out
	case []string:
		out := make([]expr.Value, 0, len(vs))
		for _, v := range vs {
			out = append(out, convertValue(v, kind))
		}
		return out
	default:
		// A scalar in a multi field acts as a one-element collection.
		return []expr.Value{convertValue(raw, kind)}
	}
}

func convertValue(raw any, kind expr.Kind) expr.Value {
	if raw == nil {
		return expr.Null()
	}
	switch kind {
	case expr.KindBool:
		switch v := raw.(type) {
		case bool:
			return expr.Bool(v)
		case int64:
			// SQL drivers surface boolean columns as 0/1.
			return expr.Bool(v != 0)
		}
	case expr.KindNumber:
		switch v := raw.(type) {
		case int:
			return expr.NumberFromInt(int64(v))
		case int32:
			return expr.NumberFromInt(int64(v))
		case int64:
			return expr.NumberFromInt(v)
		case float32:
			return expr.NumberFromFloat(float64(v))
		case float64:
			return expr.NumberFromFloat(v)
		case decimal.Decimal:
			return expr.Number(v)
		case json.Number:
			if d, err := decimal.NewFromString(v.String()); err == nil {
				return expr.Number(d)
			}
		case string:
			// NUMERIC columns come back as text from some drivers.
			if d, err := decimal.NewFromString(v); err == nil {
				return expr.Number(d)
			}
		}
	case expr.KindText:
		switch v := raw.(type) {
		case string:
			return expr.Text(v)
		case []byte:
			return expr.Text(string(v))
		case fmt.Stringer:
			return expr.Text(v.String())
		}
	case expr.KindTime:
		switch v := raw.(type) {
		case time.Time:
			return expr.Time(v)
		case string:
			if t, err := expr.Coerce(expr.Text(v), expr.KindTime); err == nil {
				return t
			}
		case int64:
			return expr.Time(time.UnixMilli(v))
		}
	}
	return expr.Null()
}
