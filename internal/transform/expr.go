package transform

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/ir"
)

// Runtime accessor grammar of the target engine. The casing differences are
// the engine's, not ours.
const (
	paramAccessorPrefix  = "$operationdata."
	eventArgsAccessorFmt = "$operationData.eventArgs[%d]"
	scopeVariablePrefix  = "$scope.variables."
	currentItemAccessor  = "$scope.currentItem"
)

// exprValue is the result of lowering one expression: either a folded
// compile-time literal or a runtime expression string.
type exprValue struct {
	folded  bool
	lit     any    // float64, string, bool, []any or *ir.OperationData when folded
	runtime string // accessor/expression string when not folded
}

func foldedValue(v any) exprValue     { return exprValue{folded: true, lit: v} }
func runtimeValue(s string) exprValue { return exprValue{runtime: s} }

// payload returns the shape stored into operation data. Non-folded values
// are accessor strings, except object literals, which stay structural and
// carry their runtime members field-wise.
func (v exprValue) payload() any {
	if v.folded || v.runtime == "" {
		return v.lit
	}
	return v.runtime
}

// evalExpr lowers an expression through the constant-folding evaluator. An
// expression folds to a literal iff every operand folds, recursively;
// otherwise it lowers to a runtime expression string.
func (t *Transformer) evalExpr(expr ast.Expression) (exprValue, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return foldedValue(e.Value), nil
	case *ast.StringLit:
		return foldedValue(e.Value), nil
	case *ast.BoolLit:
		return foldedValue(e.Value), nil
	case *ast.ArrayLit:
		elems := make([]any, 0, len(e.Elems))
		for _, el := range e.Elems {
			v, err := t.evalExpr(el)
			if err != nil {
				return exprValue{}, err
			}
			if !v.folded {
				return exprValue{}, cerr.New(cerr.ErrUnsupportedExpression, "array literal elements must be compile-time values").At(el.Position())
			}
			elems = append(elems, v.lit)
		}
		return foldedValue(elems), nil
	case *ast.ObjectLit:
		return t.evalObject(e)
	case *ast.ConstantRef:
		return t.evalConstantRef(e)
	case *ast.ParamRef:
		accessor, ok := t.params[e.Name]
		if !ok {
			return exprValue{}, cerr.Newf(cerr.ErrUndefinedConstant, "unknown parameter %q", e.Name).At(e.Pos)
		}
		return runtimeValue(accessor), nil
	case *ast.AliasRef:
		// A stagger alias is bound to a concrete item per generated action
		// and substitutes like a constant; a loop alias is inherently
		// runtime-bound.
		if b, ok := t.env.lookup(e.Name); ok {
			return foldedValue(b.value), nil
		}
		if t.loopAliasActive(e.Name) {
			return runtimeValue(currentItemAccessor), nil
		}
		return exprValue{}, cerr.Newf(cerr.ErrUndefinedConstant, "unknown loop alias %q", e.Name).At(e.Pos)
	case *ast.UnaryExpr:
		return t.evalUnary(e)
	case *ast.ParenExpr:
		v, err := t.evalExpr(e.Inner)
		if err != nil {
			return exprValue{}, err
		}
		if v.folded {
			return v, nil
		}
		return runtimeValue("(" + v.runtime + ")"), nil
	case *ast.BinaryExpr:
		return t.evalBinary(e)
	default:
		return exprValue{}, cerr.Newf(cerr.ErrUnknownNode, "unhandled expression node %T", expr).At(expr.Position())
	}
}

func (t *Transformer) evalObject(e *ast.ObjectLit) (exprValue, error) {
	data := ir.NewOperationData()
	folded := true
	for _, f := range e.Fields {
		v, err := t.evalExpr(f.Value)
		if err != nil {
			return exprValue{}, err
		}
		if !v.folded {
			folded = false
		}
		data.Set(f.Key, v.payload())
	}
	// Objects holding runtime accessors are still usable as parameter
	// payloads; they just never participate in further folding.
	return exprValue{folded: folded, lit: data}, nil
}

func (t *Transformer) evalConstantRef(e *ast.ConstantRef) (exprValue, error) {
	if b, ok := t.env.lookup(e.Name); ok {
		return foldedValue(b.value), nil
	}
	if t.env.isRuntime(e.Name) {
		return runtimeValue(scopeVariablePrefix + e.Name), nil
	}
	return exprValue{}, cerr.Newf(cerr.ErrUndefinedConstant, "undefined constant @%s", e.Name).At(e.Pos)
}

func (t *Transformer) evalUnary(e *ast.UnaryExpr) (exprValue, error) {
	v, err := t.evalExpr(e.Operand)
	if err != nil {
		return exprValue{}, err
	}
	if !v.folded {
		s, err := renderRuntime(v)
		if err != nil {
			return exprValue{}, err.At(e.Pos)
		}
		return runtimeValue(e.Op + s), nil
	}
	switch e.Op {
	case "-":
		n, ok := v.lit.(float64)
		if !ok {
			return exprValue{}, cerr.New(cerr.ErrUnsupportedExpression, "operator - requires a number").At(e.Pos)
		}
		return foldedValue(-n), nil
	case "!":
		b, ok := v.lit.(bool)
		if !ok {
			return exprValue{}, cerr.New(cerr.ErrUnsupportedExpression, "operator ! requires a boolean").At(e.Pos)
		}
		return foldedValue(!b), nil
	default:
		return exprValue{}, cerr.Newf(cerr.ErrUnsupportedExpression, "unknown unary operator %q", e.Op).At(e.Pos)
	}
}

func (t *Transformer) evalBinary(e *ast.BinaryExpr) (exprValue, error) {
	left, err := t.evalExpr(e.Left)
	if err != nil {
		return exprValue{}, err
	}
	right, err := t.evalExpr(e.Right)
	if err != nil {
		return exprValue{}, err
	}
	if left.folded && right.folded {
		v, ferr := applyBinary(e.Op, left.lit, right.lit)
		if ferr != nil {
			return exprValue{}, ferr.At(e.Pos)
		}
		return foldedValue(v), nil
	}
	ls, ferr := renderRuntime(left)
	if ferr != nil {
		return exprValue{}, ferr.At(e.Left.Position())
	}
	rs, ferr := renderRuntime(right)
	if ferr != nil {
		return exprValue{}, ferr.At(e.Right.Position())
	}
	return runtimeValue(ls + e.Op + rs), nil
}

// applyBinary folds an operator over two literals.
func applyBinary(op string, left, right any) (any, *cerr.CompileError) {
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			switch op {
			case "+":
				return ls + rs, nil
			case "==":
				return ls == rs, nil
			case "!=":
				return ls != rs, nil
			}
			return nil, cerr.Newf(cerr.ErrUnsupportedExpression, "operator %q is not defined for strings", op)
		}
	}
	if lb, ok := left.(bool); ok {
		if rb, ok := right.(bool); ok {
			switch op {
			case "&&":
				return lb && rb, nil
			case "||":
				return lb || rb, nil
			case "==":
				return lb == rb, nil
			case "!=":
				return lb != rb, nil
			}
			return nil, cerr.Newf(cerr.ErrUnsupportedExpression, "operator %q is not defined for booleans", op)
		}
	}
	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		return nil, cerr.Newf(cerr.ErrUnsupportedExpression, "operator %q requires matching operand types", op)
	}
	switch op {
	case "+":
		return ln + rn, nil
	case "-":
		return ln - rn, nil
	case "*":
		return ln * rn, nil
	case "/":
		if rn == 0 {
			return nil, cerr.New(cerr.ErrDivisionByZero, "division by zero")
		}
		return ln / rn, nil
	case "%":
		if rn == 0 {
			return nil, cerr.New(cerr.ErrDivisionByZero, "modulo by zero")
		}
		return math.Mod(ln, rn), nil
	case "==":
		return ln == rn, nil
	case "!=":
		return ln != rn, nil
	case "<":
		return ln < rn, nil
	case "<=":
		return ln <= rn, nil
	case ">":
		return ln > rn, nil
	case ">=":
		return ln >= rn, nil
	default:
		return nil, cerr.Newf(cerr.ErrUnsupportedExpression, "unknown operator %q", op)
	}
}

// renderRuntime projects an operand into the runtime expression grammar.
func renderRuntime(v exprValue) (string, *cerr.CompileError) {
	if !v.folded {
		if v.runtime == "" {
			return "", cerr.New(cerr.ErrUnsupportedExpression, "object literal cannot appear in a runtime expression")
		}
		return v.runtime, nil
	}
	switch x := v.lit.(type) {
	case float64:
		return formatNumber(x), nil
	case string:
		return strconv.Quote(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", cerr.Newf(cerr.ErrUnsupportedExpression, "value of type %T cannot appear in a runtime expression", v.lit)
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// evalNumber folds an expression that must resolve to a number at compile
// time, e.g. timed-block bounds and stagger delays.
func (t *Transformer) evalNumber(expr ast.Expression, what string) (float64, error) {
	v, err := t.evalExpr(expr)
	if err != nil {
		return 0, err
	}
	if !v.folded {
		return 0, cerr.Newf(cerr.ErrUnsupportedExpression, "%s must be a compile-time number", what).At(expr.Position())
	}
	n, ok := v.lit.(float64)
	if !ok {
		return 0, cerr.Newf(cerr.ErrUnsupportedExpression, "%s must be a number, got %s", what, litTypeName(v.lit)).At(expr.Position())
	}
	return n, nil
}

func litTypeName(v any) string {
	switch v.(type) {
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case *ir.OperationData:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
