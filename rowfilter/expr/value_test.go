package expr

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCoerceTextToNumber(t *testing.T) {
	v, err := Coerce(Text("123.45"), KindNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindNumber || !v.Num().Equal(decimal.RequireFromString("123.45")) {
		t.Errorf("expected 123.45, got %v", v)
	}

	if _, err := Coerce(Text("abc"), KindNumber); err == nil {
		t.Error("expected error coercing 'abc' to number")
	}
}

func TestCoerceTextToTime(t *testing.T) {
	for _, s := range []string{"2024-01-15", "2024-01-15T10:30:00Z", "2024-01-15 10:30:00"} {
		v, err := Coerce(Text(s), KindTime)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", s, err)
		}
		if v.Kind() != KindTime {
			t.Errorf("%s: expected time, got %v", s, v.Kind())
		}
	}

	if _, err := Coerce(Text("not a date"), KindTime); err == nil {
		t.Error("expected error coercing 'not a date' to time")
	}
}

func TestCoerceTextToBool(t *testing.T) {
	v, err := Coerce(Text("TRUE"), KindBool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.BoolVal() {
		t.Error("expected true")
	}
	if _, err := Coerce(Text("yes"), KindBool); err == nil {
		t.Error("expected error coercing 'yes' to bool")
	}
}

func TestCoerceNullStaysNull(t *testing.T) {
	v, err := Coerce(Null(), KindNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsNull() {
		t.Error("expected null to stay null")
	}
}

func TestCoerceToText(t *testing.T) {
	v, err := Coerce(NumberFromInt(42), KindText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Str() != "42" {
		t.Errorf("expected \"42\", got %q", v.Str())
	}
}

func TestEqualNullNeverEqual(t *testing.T) {
	if Equal(Null(), Null()) {
		t.Error("null must not equal null")
	}
	if Equal(Null(), NumberFromInt(1)) {
		t.Error("null must not equal a number")
	}
}

func TestCompare(t *testing.T) {
	if c, ok := Compare(NumberFromInt(1), NumberFromInt(2)); !ok || c >= 0 {
		t.Errorf("expected 1 < 2, got %d ok=%v", c, ok)
	}
	if c, ok := Compare(Text("a"), Text("b")); !ok || c >= 0 {
		t.Errorf("expected 'a' < 'b', got %d ok=%v", c, ok)
	}
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if c, ok := Compare(Time(t0), Time(t0.Add(time.Hour))); !ok || c >= 0 {
		t.Errorf("expected earlier < later, got %d ok=%v", c, ok)
	}
	if _, ok := Compare(Null(), NumberFromInt(1)); ok {
		t.Error("null must not be ordered")
	}
	if _, ok := Compare(Text("a"), NumberFromInt(1)); ok {
		t.Error("mismatched kinds must not be ordered")
	}
}

func TestValueKindImmutable(t *testing.T) {
	v := Text("5")
	coerced, err := Coerce(v, KindNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindText {
		t.Error("coercion must not mutate the original value")
	}
	if coerced.Kind() != KindNumber {
		t.Error("coerced value must carry the new kind")
	}
}
