package transform

import (
	"fmt"

	"github.com/rolandzwaga/eligian/ast"
	"github.com/rolandzwaga/eligian/ir"
)

// lowerAction lowers an action definition. Start and end phases are lowered
// independently; the body opens its own constant scope with the declared
// parameters bound to operation-data accessors.
func (t *Transformer) lowerAction(decl *ast.ActionDecl) (ir.Action, error) {
	restore := t.params
	t.params = make(map[string]string, len(decl.Parameters))
	for _, p := range decl.Parameters {
		t.params[p.Name] = paramAccessorPrefix + p.Name
	}
	t.env.push()
	defer func() {
		t.env.pop()
		t.params = restore
	}()

	startOps, err := t.lowerStatements(decl.Body, nil)
	if err != nil {
		return ir.Action{}, err
	}
	var endOps []ir.Operation
	if decl.Endable {
		endOps, err = t.lowerStatements(decl.EndBody, nil)
		if err != nil {
			return ir.Action{}, err
		}
	}

	return ir.Action{
		ID:              t.newNode(decl.Pos),
		Name:            decl.Name,
		StartOperations: orEmpty(startOps),
		EndOperations:   endOps,
	}, nil
}

// lowerEventAction lowers an event action. Declared parameters bind to the
// event argument list by declaration order; event actions never emit an end
// phase.
func (t *Transformer) lowerEventAction(decl *ast.EventActionDecl) (ir.EventAction, error) {
	restore := t.params
	t.params = make(map[string]string, len(decl.Parameters))
	for i, p := range decl.Parameters {
		t.params[p.Name] = fmt.Sprintf(eventArgsAccessorFmt, i)
	}
	t.env.push()
	defer func() {
		t.env.pop()
		t.params = restore
	}()

	startOps, err := t.lowerStatements(decl.Body, nil)
	if err != nil {
		return ir.EventAction{}, err
	}

	return ir.EventAction{
		ID:              t.newNode(decl.Pos),
		Name:            decl.Name,
		EventName:       decl.Event,
		EventTopic:      decl.Topic,
		StartOperations: orEmpty(startOps),
	}, nil
}

func orEmpty(ops []ir.Operation) []ir.Operation {
	if ops == nil {
		return []ir.Operation{}
	}
	return ops
}
