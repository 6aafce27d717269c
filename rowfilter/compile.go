package rowfilter

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rowfilter/rowfilter/rowfilter/expr"
)

// operand is a lowered value expression: its statically known kind, an
// accessor closure, and the constant value when the expression does not
// depend on the record at all. Constants are what the one-directional
// coercion rule applies to.
type operand struct {
	kind    expr.Kind
	isConst bool
	cval    expr.Value
	get     func(record any) expr.Value
}

func constOperand(v expr.Value) operand {
	return operand{kind: v.Kind(), isConst: true, cval: v, get: func(any) expr.Value { return v }}
}

type compiler struct {
	resolver FieldResolver
}

// compileBool lowers a boolean-valued expression into a closure. All type
// and operator checking happens here; the returned closure cannot fail and
// always yields a boolean.
func (c *compiler) compileBool(e expr.Expr) (func(any) bool, error) {
	switch n := e.(type) {
	case expr.Binary:
		switch n.Op {
		case expr.OpAnd:
			left, err := c.compileBool(n.Left)
			if err != nil {
				return nil, err
			}
			right, err := c.compileBool(n.Right)
			if err != nil {
				return nil, err
			}
			return func(r any) bool { return left(r) && right(r) }, nil
		case expr.OpOr:
			left, err := c.compileBool(n.Left)
			if err != nil {
				return nil, err
			}
			right, err := c.compileBool(n.Right)
			if err != nil {
				return nil, err
			}
			return func(r any) bool { return left(r) || right(r) }, nil
		case expr.OpEq, expr.OpNe, expr.OpLt, expr.OpGt, expr.OpLe, expr.OpGe:
			return c.compileCmp(n)
		case expr.OpLike:
			return c.compileLike(n.Left, n.Right)
		case expr.OpIsNull:
			return c.compileIsNull(n.Left, true)
		case expr.OpIsNotNull:
			return c.compileIsNull(n.Left, false)
		case expr.OpIsEmpty:
			return c.compileIsEmpty(n.Left, true)
		case expr.OpIsNotEmpty:
			return c.compileIsEmpty(n.Left, false)
		default:
			return nil, compileErrorf("expression with operator %s is not a predicate", n.Op)
		}
	case expr.Unary:
		if n.Op == expr.OpNot {
			inner, err := c.compileBool(n.Operand)
			if err != nil {
				return nil, err
			}
			return func(r any) bool { return !inner(r) }, nil
		}
		return nil, compileErrorf("expression with operator %s is not a predicate", n.Op)
	case expr.In:
		return c.compileIn(n)
	case expr.Between:
		return c.compileBetween(n)
	case expr.FieldRef:
		op, err := c.compileValue(n)
		if err != nil {
			return nil, err
		}
		if op.kind != expr.KindBool {
			return nil, compileErrorf("field [%s] is not boolean and cannot stand alone as a predicate", n.Name)
		}
		return func(r any) bool {
			v := op.get(r)
			return !v.IsNull() && v.BoolVal()
		}, nil
	default:
		return nil, compileErrorf("expression is not a predicate")
	}
}

// compileValue lowers a value-producing expression. The kind of every value
// expression is known at compile time.
func (c *compiler) compileValue(e expr.Expr) (operand, error) {
	switch n := e.(type) {
	case expr.Const:
		return constOperand(n.Value), nil
	case expr.FieldRef:
		f, ok := c.resolver.Lookup(n.Name)
		if !ok {
			return operand{}, compileErrorf("unknown field [%s]", n.Name)
		}
		if f.Collection {
			return operand{}, compileErrorf("collection field [%s] supports only is empty, is not empty, is null and is not null", n.Name)
		}
		return operand{kind: f.Kind, get: f.Value}, nil
	case expr.Unary:
		return c.compileUnaryValue(n)
	case expr.Binary:
		switch n.Op {
		case expr.OpAdd, expr.OpSub, expr.OpMul, expr.OpDiv:
			return c.compileArith(n)
		}
		return operand{}, compileErrorf("operator %s cannot be used as a value", n.Op)
	default:
		return operand{}, compileErrorf("expression cannot be used as a value")
	}
}

func (c *compiler) compileUnaryValue(n expr.Unary) (operand, error) {
	if n.Op == expr.OpNot {
		return operand{}, compileErrorf("operator ! cannot be used as a value")
	}
	inner, err := c.compileValue(n.Operand)
	if err != nil {
		return operand{}, err
	}
	inner, err = coerceConst(inner, expr.KindNumber)
	if err != nil {
		return operand{}, err
	}
	if inner.kind != expr.KindNumber && inner.kind != expr.KindNull {
		return operand{}, compileErrorf("operator %s requires a numeric operand, got %s", n.Op, inner.kind)
	}
	if n.Op == expr.OpPlus {
		return inner, nil
	}
	if inner.isConst {
		if inner.cval.IsNull() {
			return inner, nil
		}
		return constOperand(expr.Number(inner.cval.Num().Neg())), nil
	}
	get := inner.get
	return operand{kind: expr.KindNumber, get: func(r any) expr.Value {
		v := get(r)
		if v.IsNull() {
			return v
		}
		return expr.Number(v.Num().Neg())
	}}, nil
}

func (c *compiler) compileArith(n expr.Binary) (operand, error) {
	left, err := c.compileValue(n.Left)
	if err != nil {
		return operand{}, err
	}
	right, err := c.compileValue(n.Right)
	if err != nil {
		return operand{}, err
	}
	if left, err = coerceConst(left, expr.KindNumber); err != nil {
		return operand{}, err
	}
	if right, err = coerceConst(right, expr.KindNumber); err != nil {
		return operand{}, err
	}
	if left.kind != expr.KindNumber || right.kind != expr.KindNumber {
		return operand{}, compileErrorf("operator %s requires numeric operands, got %s and %s", n.Op, left.kind, right.kind)
	}

	apply := func(a, b decimal.Decimal) (decimal.Decimal, bool) {
		switch n.Op {
		case expr.OpAdd:
			return a.Add(b), true
		case expr.OpSub:
			return a.Sub(b), true
		case expr.OpMul:
			return a.Mul(b), true
		default: // OpDiv
			if b.IsZero() {
				return decimal.Decimal{}, false
			}
			return a.Div(b), true
		}
	}

	if left.isConst && right.isConst {
		if left.cval.IsNull() || right.cval.IsNull() {
			return constOperand(expr.Null()), nil
		}
		d, ok := apply(left.cval.Num(), right.cval.Num())
		if !ok {
			return constOperand(expr.Null()), nil
		}
		return constOperand(expr.Number(d)), nil
	}

	lget, rget := left.get, right.get
	return operand{kind: expr.KindNumber, get: func(r any) expr.Value {
		a, b := lget(r), rget(r)
		if a.IsNull() || b.IsNull() {
			return expr.Null()
		}
		d, ok := apply(a.Num(), b.Num())
		if !ok {
			return expr.Null()
		}
		return expr.Number(d)
	}}, nil
}

// coerceConst applies the one-directional coercion rule: a constant operand
// is converted to the target kind at compile time. Non-constant operands are
// returned unchanged.
func coerceConst(op operand, target expr.Kind) (operand, error) {
	if !op.isConst || op.kind == target || op.cval.IsNull() {
		return op, nil
	}
	v, err := expr.Coerce(op.cval, target)
	if err != nil {
		return operand{}, compileErrorf("%v", err)
	}
	return constOperand(v), nil
}

// align makes both operands the same kind, coercing whichever side is a
// constant toward the field-backed side. Literals in the expression describe
// the field's domain, never the other way around.
func align(left, right operand) (operand, operand, error) {
	if left.kind == right.kind {
		return left, right, nil
	}
	if right.isConst {
		r, err := coerceConst(right, left.kind)
		if err != nil {
			return operand{}, operand{}, err
		}
		return left, r, nil
	}
	if left.isConst {
		l, err := coerceConst(left, right.kind)
		if err != nil {
			return operand{}, operand{}, err
		}
		return l, right, nil
	}
	return operand{}, operand{}, compileErrorf("cannot compare %s to %s", left.kind, right.kind)
}

func (c *compiler) compileCmp(n expr.Binary) (func(any) bool, error) {
	left, err := c.compileValue(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.compileValue(n.Right)
	if err != nil {
		return nil, err
	}
	if (left.isConst && left.cval.IsNull()) || (right.isConst && right.cval.IsNull()) {
		return nil, compileErrorf("cannot use %s against NULL; use is null or is not null", n.Op)
	}
	left, right, err = align(left, right)
	if err != nil {
		return nil, err
	}

	lget, rget := left.get, right.get
	switch n.Op {
	case expr.OpEq:
		return func(r any) bool { return expr.Equal(lget(r), rget(r)) }, nil
	case expr.OpNe:
		return func(r any) bool {
			a, b := lget(r), rget(r)
			if a.IsNull() || b.IsNull() {
				return false
			}
			return !expr.Equal(a, b)
		}, nil
	}

	if left.kind == expr.KindBool {
		return nil, compileErrorf("unsupported operator %s for bool", n.Op)
	}
	op := n.Op
	return func(r any) bool {
		cmp, ok := expr.Compare(lget(r), rget(r))
		if !ok {
			return false
		}
		switch op {
		case expr.OpLt:
			return cmp < 0
		case expr.OpGt:
			return cmp > 0
		case expr.OpLe:
			return cmp <= 0
		default: // OpGe
			return cmp >= 0
		}
	}, nil
}

// compileLike translates the pattern once, at compile time, into an anchored
// case-insensitive regular expression. Metacharacters are escaped before the
// two wildcard markers are substituted, so filter text cannot inject regex
// syntax: % becomes any run of characters, _ any single character.
func (c *compiler) compileLike(left, right expr.Expr) (func(any) bool, error) {
	pat, err := c.compileValue(right)
	if err != nil {
		return nil, err
	}
	if !pat.isConst || pat.kind != expr.KindText {
		return nil, compileErrorf("like pattern must be a string constant")
	}
	lo, err := c.compileValue(left)
	if err != nil {
		return nil, err
	}

	quoted := regexp.QuoteMeta(pat.cval.Str())
	quoted = strings.ReplaceAll(quoted, "%", ".*")
	quoted = strings.ReplaceAll(quoted, "_", ".")
	re, err := regexp.Compile(`(?is)^` + quoted + `$`)
	if err != nil {
		return nil, compileErrorf("invalid like pattern %q: %v", pat.cval.Str(), err)
	}

	get := lo.get
	return func(r any) bool {
		v := get(r)
		if v.IsNull() {
			return false
		}
		return re.MatchString(v.String())
	}, nil
}

// compileIn coerces the listed values to the left operand's kind and builds
// a fixed lookup set once; the membership test allocates nothing per call.
func (c *compiler) compileIn(n expr.In) (func(any) bool, error) {
	left, err := c.compileValue(n.Left)
	if err != nil {
		return nil, err
	}
	if left.isConst && left.cval.IsNull() {
		return nil, compileErrorf("cannot use %s against NULL", keyword(n.Negate, "in"))
	}

	set := make(map[string]struct{}, len(n.Values))
	for _, ve := range n.Values {
		vo, err := c.compileValue(ve)
		if err != nil {
			return nil, err
		}
		if !vo.isConst {
			return nil, compileErrorf("values in an %s list must be constants", keyword(n.Negate, "in"))
		}
		if vo.cval.IsNull() {
			return nil, compileErrorf("NULL is not allowed in an %s list", keyword(n.Negate, "in"))
		}
		v, err := expr.Coerce(vo.cval, left.kind)
		if err != nil {
			return nil, compileErrorf("%v", err)
		}
		set[v.Key()] = struct{}{}
	}

	get, negate := left.get, n.Negate
	return func(r any) bool {
		v := get(r)
		member := false
		if !v.IsNull() {
			_, member = set[v.Key()]
		}
		return member != negate
	}, nil
}

// compileBetween lowers an inclusive range test. BETWEEN is defined only for
// ordered scalar domains, so a text or boolean left operand is rejected.
func (c *compiler) compileBetween(n expr.Between) (func(any) bool, error) {
	left, err := c.compileValue(n.Left)
	if err != nil {
		return nil, err
	}
	if left.kind != expr.KindNumber && left.kind != expr.KindTime {
		return nil, compileErrorf("%s requires a number or time operand, got %s", keyword(n.Negate, "between"), left.kind)
	}

	bound := func(e expr.Expr) (operand, error) {
		op, err := c.compileValue(e)
		if err != nil {
			return operand{}, err
		}
		if op, err = coerceConst(op, left.kind); err != nil {
			return operand{}, err
		}
		if op.kind != left.kind {
			return operand{}, compileErrorf("between bound kind %s does not match operand kind %s", op.kind, left.kind)
		}
		return op, nil
	}
	lo, err := bound(n.Lo)
	if err != nil {
		return nil, err
	}
	hi, err := bound(n.Hi)
	if err != nil {
		return nil, err
	}

	get, loGet, hiGet, negate := left.get, lo.get, hi.get, n.Negate
	return func(r any) bool {
		v := get(r)
		aboveLo, okLo := expr.Compare(v, loGet(r))
		belowHi, okHi := expr.Compare(v, hiGet(r))
		in := okLo && okHi && aboveLo >= 0 && belowHi <= 0
		return in != negate
	}, nil
}

func (c *compiler) compileIsNull(e expr.Expr, want bool) (func(any) bool, error) {
	if f, ok := c.collectionField(e); ok {
		elems := f.Elems
		return func(r any) bool { return (elems(r) == nil) == want }, nil
	}
	op, err := c.compileValue(e)
	if err != nil {
		return nil, err
	}
	get := op.get
	return func(r any) bool { return get(r).IsNull() == want }, nil
}

// compileIsEmpty is defined for text (empty string) and for collection
// fields (zero elements). Any other kind is a compile error.
func (c *compiler) compileIsEmpty(e expr.Expr, want bool) (func(any) bool, error) {
	if f, ok := c.collectionField(e); ok {
		elems := f.Elems
		return func(r any) bool { return (len(elems(r)) == 0) == want }, nil
	}
	op, err := c.compileValue(e)
	if err != nil {
		return nil, err
	}
	if op.kind != expr.KindText {
		return nil, compileErrorf("is empty is not supported for %s", op.kind)
	}
	get := op.get
	return func(r any) bool {
		v := get(r)
		return (v.IsNull() || v.Str() == "") == want
	}, nil
}

func (c *compiler) collectionField(e expr.Expr) (Field, bool) {
	ref, ok := e.(expr.FieldRef)
	if !ok {
		return Field{}, false
	}
	f, ok := c.resolver.Lookup(ref.Name)
	if !ok || !f.Collection {
		return Field{}, false
	}
	return f, true
}

func keyword(negate bool, base string) string {
	if negate {
		return "not " + base
	}
	return base
}
