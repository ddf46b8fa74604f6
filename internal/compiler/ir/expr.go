package ir

import (
	"github.com/pacedproton/mdslc/internal/compiler/ast"
)

// resolveExpr substitutes every VariableRef with its bound value,
// recursively, producing a fully-inlined IR Expression. An unresolved
// reference is a hard error.
func (t *transformer) resolveExpr(expr ast.Expression) (Expression, error) {
	switch e := expr.(type) {
	case *ast.StringLit:
		return Expression{Kind: ExprString, StringValue: e.Value}, nil

	case *ast.NumberLit:
		return Expression{Kind: ExprNumber, NumberValue: e.Value}, nil

	case *ast.BoolLit:
		return Expression{Kind: ExprBoolean, BoolValue: e.Value}, nil

	case *ast.VariableRef:
		val, ok := t.env[e.Name]
		if !ok {
			return Expression{}, &TransformError{
				Message: "unresolved variable reference '" + e.Name + "'",
				Pos:     e.Location().Start,
			}
		}
		return val, nil

	case *ast.ObjectExpr:
		out := Expression{Kind: ExprObject}
		for _, f := range e.Fields {
			val, err := t.resolveExpr(f.Value)
			if err != nil {
				return Expression{}, err
			}
			out.Object = append(out.Object, ObjectField{Name: f.Name, Value: val})
		}
		return out, nil

	case *ast.ArrayExpr:
		out := Expression{Kind: ExprArray}
		for _, elem := range e.Elements {
			val, err := t.resolveExpr(elem)
			if err != nil {
				return Expression{}, err
			}
			out.Array = append(out.Array, val)
		}
		return out, nil

	default:
		return Expression{}, &TransformError{Message: "unsupported expression shape", Pos: expr.Location().Start}
	}
}

// exprAsString extracts a string value from a resolved Expression,
// reporting ok=false if its kind isn't ExprString.
func exprAsString(e Expression) (string, bool) {
	if e.Kind != ExprString {
		return "", false
	}
	return e.StringValue, true
}

// exprAsNumber extracts a numeric value from a resolved Expression.
func exprAsNumber(e Expression) (float64, bool) {
	if e.Kind != ExprNumber {
		return 0, false
	}
	return e.NumberValue, true
}

// exprToDisplayString renders any resolved Expression as a string, used
// where the IR wants a plain string (e.g. a data aggregation value).
func exprToDisplayString(e Expression) string {
	switch e.Kind {
	case ExprString:
		return e.StringValue
	case ExprNumber:
		return formatNumber(e.NumberValue)
	case ExprBoolean:
		if e.BoolValue {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
