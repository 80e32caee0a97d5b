package transform

import (
	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/ir"
)

// lowerStatements lowers an operation statement list into a flat, ordered
// operation list. When mirror is non-nil (timeline contexts), endable action
// calls append their closing operations to it.
func (t *Transformer) lowerStatements(stmts []ast.Statement, mirror *[]ir.Operation) ([]ir.Operation, error) {
	var ops []ir.Operation
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.CallStmt:
			lc, err := t.lowerCall(s, mirror != nil)
			if err != nil {
				return nil, err
			}
			ops = append(ops, lc.Start...)
			if mirror != nil {
				*mirror = append(*mirror, lc.Mirror...)
			}
		case *ast.ConstDecl:
			op, err := t.lowerConst(s)
			if err != nil {
				return nil, err
			}
			if op != nil {
				ops = append(ops, *op)
			}
		case *ast.IfStmt:
			branch, err := t.lowerIf(s, mirror)
			if err != nil {
				return nil, err
			}
			ops = append(ops, branch...)
		case *ast.ForStmt:
			loop, err := t.lowerFor(s, mirror)
			if err != nil {
				return nil, err
			}
			ops = append(ops, loop...)
		case *ast.BreakStmt:
			if t.loopDepth == 0 {
				return nil, cerr.New(cerr.ErrBreakContinueOutsideLoop, "break outside of a loop").At(s.Pos)
			}
			ops = append(ops, t.newOperation(opBreakForEach, s.Pos))
		case *ast.ContinueStmt:
			if t.loopDepth == 0 {
				return nil, cerr.New(cerr.ErrBreakContinueOutsideLoop, "continue outside of a loop").At(s.Pos)
			}
			ops = append(ops, t.newOperation(opContinueForEach, s.Pos))
		default:
			return nil, cerr.Newf(cerr.ErrUnknownNode, "unhandled statement node %T in operation list", stmt).At(stmt.Position())
		}
	}
	return ops, nil
}

// lowerIf lowers a conditional to a delimited when/otherwise/endWhen region.
// Each branch opens its own constant scope so bindings never leak across
// siblings.
func (t *Transformer) lowerIf(stmt *ast.IfStmt, mirror *[]ir.Operation) ([]ir.Operation, error) {
	cond, err := t.evalExpr(stmt.Cond)
	if err != nil {
		return nil, err
	}
	when := t.newOperation(opWhen, stmt.Pos)
	when.Data.Set("expression", cond.payload())
	ops := []ir.Operation{when}

	t.env.push()
	thenOps, err := t.lowerStatements(stmt.Then, mirror)
	t.env.pop()
	if err != nil {
		return nil, err
	}
	ops = append(ops, thenOps...)

	if len(stmt.Else) > 0 {
		ops = append(ops, t.newOperation(opOtherwise, stmt.Pos))
		t.env.push()
		elseOps, err := t.lowerStatements(stmt.Else, mirror)
		t.env.pop()
		if err != nil {
			return nil, err
		}
		ops = append(ops, elseOps...)
	}

	ops = append(ops, t.newOperation(opEndWhen, stmt.Pos))
	return ops, nil
}

// lowerFor lowers a loop to a delimited forEach/endForEach region. The
// collection must fold; the alias is runtime-bound inside the body.
func (t *Transformer) lowerFor(stmt *ast.ForStmt, mirror *[]ir.Operation) ([]ir.Operation, error) {
	coll, err := t.evalExpr(stmt.Collection)
	if err != nil {
		return nil, err
	}
	if !coll.folded {
		return nil, cerr.New(cerr.ErrUnsupportedExpression, "loop collection must be a compile-time value").At(stmt.Collection.Position())
	}
	if _, ok := coll.lit.([]any); !ok {
		return nil, cerr.Newf(cerr.ErrUnsupportedExpression, "loop collection must be an array, got %s", litTypeName(coll.lit)).At(stmt.Collection.Position())
	}

	forEach := t.newOperation(opForEach, stmt.Pos)
	forEach.Data.Set("collection", coll.lit)
	ops := []ir.Operation{forEach}

	t.env.push()
	t.aliases = append(t.aliases, stmt.Alias)
	t.loopDepth++
	body, err := t.lowerStatements(stmt.Body, mirror)
	t.loopDepth--
	t.aliases = t.aliases[:len(t.aliases)-1]
	t.env.pop()
	if err != nil {
		return nil, err
	}
	ops = append(ops, body...)

	ops = append(ops, t.newOperation(opEndForEach, stmt.Pos))
	return ops, nil
}
