package expr

// Expr represents a node in the parsed filter expression tree. The tree is
// immutable once built and never shared across compilations.
type Expr interface {
	isExpr()
}

// Const is a literal value
type Const struct {
	Value Value
}

func (Const) isExpr() {}

// FieldRef references a record field by name
type FieldRef struct {
	Name string
}

func (FieldRef) isExpr() {}

// UnaryOp is a prefix operator
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
	OpPlus
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	case OpPlus:
		return "+"
	default:
		return "?"
	}
}

// Unary applies a prefix operator to an operand
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

func (Unary) isExpr() {}

// BinaryOp is an infix or postfix operator
type BinaryOp int

const (
	OpAnd BinaryOp = iota
	OpOr
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLike
	OpIsNull
	OpIsNotNull
	OpIsEmpty
	OpIsNotEmpty
)

func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpLike:
		return "like"
	case OpIsNull:
		return "is null"
	case OpIsNotNull:
		return "is not null"
	case OpIsEmpty:
		return "is empty"
	case OpIsNotEmpty:
		return "is not empty"
	default:
		return "?"
	}
}

// Binary applies an operator to two operands. Right is nil for the four
// "is ..." postfix forms.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (Binary) isExpr() {}

// In tests membership of Left in a fixed list of literal values
type In struct {
	Left   Expr
	Values []Expr
	Negate bool
}

func (In) isExpr() {}

// Between tests Left against an inclusive range
type Between struct {
	Left   Expr
	Lo     Expr
	Hi     Expr
	Negate bool
}

func (Between) isExpr() {}
