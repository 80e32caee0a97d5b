package transform

import (
	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/registry"
)

// buildActionIndex indexes every action definition of the merged unit by
// name. An action name colliding with a registered operation is rejected
// here, before any lowering, so the two call-target namespaces stay
// disjoint.
func buildActionIndex(prog *ast.Program, reg *registry.Registry) (map[string]*ast.ActionDecl, error) {
	actions := make(map[string]*ast.ActionDecl)
	for _, stmt := range prog.Statements {
		decl, ok := stmt.(*ast.ActionDecl)
		if !ok {
			continue
		}
		if reg.Has(decl.Name) {
			return nil, cerr.Newf(cerr.ErrActionNameCollision,
				"action %q collides with the built-in operation %q", decl.Name, decl.Name).At(decl.Pos)
		}
		if prev, dup := actions[decl.Name]; dup {
			return nil, cerr.Newf(cerr.ErrDuplicateName,
				"action %q is already defined at line %d", decl.Name, prev.Pos.Line).At(decl.Pos)
		}
		actions[decl.Name] = decl
	}
	return actions, nil
}
