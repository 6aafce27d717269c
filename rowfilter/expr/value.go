package expr

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the type of a Value or of a declared field.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindText
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged union over the kinds the engine understands.
// A Value never changes kind after construction; coercion returns a new one.
type Value struct {
	kind Kind
	b    bool
	num  decimal.Decimal
	str  string
	t    time.Time
}

func Null() Value           { return Value{kind: KindNull} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func Text(s string) Value   { return Value{kind: KindText, str: s} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

func NumberFromInt(n int64) Value { return Number(decimal.NewFromInt(n)) }

func NumberFromFloat(f float64) Value { return Number(decimal.NewFromFloat(f)) }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNull() bool  { return v.kind == KindNull }
func (v Value) BoolVal() bool { return v.b }

func (v Value) Num() decimal.Decimal { return v.num }
func (v Value) Str() string          { return v.str }
func (v Value) TimeVal() time.Time   { return v.t }

// String renders the value the way the text-filter and LIKE stringification
// see it. Null renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.num.String()
	case KindText:
		return v.str
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Key is the canonical membership key used for IN sets. Values of different
// kinds never collide because the kind is part of the key.
func (v Value) Key() string {
	return fmt.Sprintf("%d:%s", v.kind, v.String())
}

// Equal reports value equality. Null never equals anything, including Null.
func Equal(a, b Value) bool {
	if a.kind == KindNull || b.kind == KindNull || a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num.Equal(b.num)
	case KindText:
		return a.str == b.str
	case KindTime:
		return a.t.Equal(b.t)
	default:
		return false
	}
}

// Compare orders two values of the same kind. The second result is false when
// either side is Null or the kinds differ; Null is never ordered.
func Compare(a, b Value) (int, bool) {
	if a.kind == KindNull || b.kind == KindNull || a.kind != b.kind {
		return 0, false
	}
	switch a.kind {
	case KindNumber:
		return a.num.Cmp(b.num), true
	case KindText:
		return strings.Compare(a.str, b.str), true
	case KindTime:
		return a.t.Compare(b.t), true
	default:
		return 0, false
	}
}

var timeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Coerce converts v to the target kind, returning a new Value. Null stays
// Null regardless of target. A conversion that cannot be performed is an
// error; the compiler turns it into a compile-time failure.
func Coerce(v Value, target Kind) (Value, error) {
	if v.kind == KindNull || v.kind == target || target == KindNull {
		return v, nil
	}
	switch target {
	case KindNumber:
		if v.kind == KindText {
			d, err := decimal.NewFromString(strings.TrimSpace(v.str))
			if err != nil {
				return Value{}, fmt.Errorf("cannot convert %q to number", v.str)
			}
			return Number(d), nil
		}
	case KindTime:
		if v.kind == KindText {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, v.str); err == nil {
					return Time(t), nil
				}
			}
			return Value{}, fmt.Errorf("cannot convert %q to time", v.str)
		}
	case KindBool:
		if v.kind == KindText {
			switch strings.ToLower(v.str) {
			case "true":
				return Bool(true), nil
			case "false":
				return Bool(false), nil
			}
			return Value{}, fmt.Errorf("cannot convert %q to bool", v.str)
		}
	case KindText:
		return Text(v.String()), nil
	}
	return Value{}, fmt.Errorf("cannot convert %s to %s", v.kind, target)
}
