package ast

// Expression is a value-producing node: String, Number, Boolean,
// VariableRef, Object, or Array.
type Expression interface {
	Node
	expr()
}

// StringLit is a string literal expression.
type StringLit struct {
	Value string
	Span  Span
}

func (e *StringLit) node()          {}
func (e *StringLit) expr()          {}
func (e *StringLit) Location() Span { return e.Span }

// NumberLit is a numeric literal expression, stored at double precision.
// HasDecimalPoint records whether the source spelling had a '.' or
// exponent, so back-ends can preserve integer-ness.
type NumberLit struct {
	Value           float64
	HasDecimalPoint bool
	Span            Span
}

func (e *NumberLit) node()          {}
func (e *NumberLit) expr()          {}
func (e *NumberLit) Location() Span { return e.Span }

// BoolLit is a boolean literal expression.
type BoolLit struct {
	Value bool
	Span  Span
}

func (e *BoolLit) node()          {}
func (e *BoolLit) expr()          {}
func (e *BoolLit) Location() Span { return e.Span }

// VariableRef is a reference to a name bound by a LET statement.
type VariableRef struct {
	Name string
	Span Span
}

func (e *VariableRef) node()          {}
func (e *VariableRef) expr()          {}
func (e *VariableRef) Location() Span { return e.Span }

// ObjectExpr is a `{ name = expr; ... }` nested object literal.
type ObjectExpr struct {
	Fields []*ObjectField
	Span   Span
}

func (e *ObjectExpr) node()          {}
func (e *ObjectExpr) expr()          {}
func (e *ObjectExpr) Location() Span { return e.Span }

// ObjectField is one `name = expr` pair inside an ObjectExpr.
type ObjectField struct {
	Name  string
	Value Expression
	Span  Span
}

func (f *ObjectField) node()          {}
func (f *ObjectField) Location() Span { return f.Span }

// ArrayExpr is a `[ expr, expr, ... ]` array literal.
type ArrayExpr struct {
	Elements []Expression
	Span     Span
}

func (e *ArrayExpr) node()          {}
func (e *ArrayExpr) expr()          {}
func (e *ArrayExpr) Location() Span { return e.Span }
