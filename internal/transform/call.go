package transform

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/ir"
	"github.com/rolandzwaga/eligian/registry"
)

// loweredCall is the result of resolving one call statement. Start holds the
// operations for the invoking phase. Mirror is populated only for calls to
// endable actions in a timeline context: the operations that close the
// action in the opposite phase.
type loweredCall struct {
	Start  []ir.Operation
	Mirror []ir.Operation
}

// lowerCall resolves a call name against the action namespace first, then
// the operation registry. mirrored enables end-phase mirroring for endable
// actions (timeline contexts only).
func (t *Transformer) lowerCall(call *ast.CallStmt, mirrored bool) (loweredCall, error) {
	if decl, ok := t.actions[call.Name]; ok {
		return t.lowerActionCall(call, decl, mirrored)
	}
	if sig, ok := t.reg.Lookup(call.Name); ok {
		op, err := t.lowerOperationCall(call, sig)
		if err != nil {
			return loweredCall{}, err
		}
		return loweredCall{Start: []ir.Operation{op}}, nil
	}
	return loweredCall{}, cerr.Newf(cerr.ErrUnknownOperation, "unknown operation or action %q", call.Name).
		At(call.Pos).
		WithSuggestions(t.suggestNames(call.Name))
}

func (t *Transformer) lowerActionCall(call *ast.CallStmt, decl *ast.ActionDecl, mirrored bool) (loweredCall, error) {
	if len(call.Args) > len(decl.Parameters) {
		return loweredCall{}, cerr.Newf(cerr.ErrTooManyParameters,
			"action %q takes %d parameter(s), got %d", decl.Name, len(decl.Parameters), len(call.Args)).At(call.Pos)
	}
	if len(call.Args) < len(decl.Parameters) {
		return loweredCall{}, cerr.Newf(cerr.ErrTooFewParameters,
			"action %q takes %d parameter(s), got %d", decl.Name, len(decl.Parameters), len(call.Args)).At(call.Pos)
	}

	request := t.newOperation(opRequestAction, call.Pos)
	request.Data.Set("systemName", decl.Name)

	start := t.newOperation(opStartAction, call.Pos)
	for i, param := range decl.Parameters {
		v, err := t.evalExpr(call.Args[i])
		if err != nil {
			return loweredCall{}, err
		}
		start.Data.Set(param.Name, v.payload())
	}

	out := loweredCall{Start: []ir.Operation{request, start}}
	if mirrored && decl.Endable {
		mirrorRequest := t.newOperation(opRequestAction, call.Pos)
		mirrorRequest.Data.Set("systemName", decl.Name)
		end := t.newOperation(opEndAction, call.Pos)
		out.Mirror = []ir.Operation{mirrorRequest, end}
	}
	return out, nil
}

func (t *Transformer) lowerOperationCall(call *ast.CallStmt, sig *registry.Signature) (ir.Operation, error) {
	if len(call.Args) > len(sig.Parameters) {
		return ir.Operation{}, cerr.Newf(cerr.ErrTooManyParameters,
			"operation %q takes at most %d parameter(s), got %d", sig.Name, len(sig.Parameters), len(call.Args)).At(call.Pos)
	}
	if len(call.Args) < sig.RequiredCount() {
		return ir.Operation{}, cerr.Newf(cerr.ErrTooFewParameters,
			"operation %q requires %d parameter(s), got %d", sig.Name, sig.RequiredCount(), len(call.Args)).At(call.Pos)
	}

	op := t.newOperation(sig.Name, call.Pos)
	for i, arg := range call.Args {
		v, err := t.evalExpr(arg)
		if err != nil {
			return ir.Operation{}, err
		}
		op.Data.Set(sig.Parameters[i].Name, v.payload())
	}
	return op, nil
}

// suggestNames returns the nearest call-target names within the configured
// Levenshtein distance, case-insensitively, closest first.
func (t *Transformer) suggestNames(name string) []string {
	if t.opts.MaxSuggestions <= 0 {
		return nil
	}
	type ranked struct {
		name     string
		distance int
	}
	lower := strings.ToLower(name)
	var candidates []ranked
	consider := func(candidate string) {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(candidate))
		if d <= t.opts.MaxSuggestionDistance {
			candidates = append(candidates, ranked{name: candidate, distance: d})
		}
	}
	for actionName := range t.actions {
		consider(actionName)
	}
	for _, opName := range t.reg.Names() {
		consider(opName)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})
	if len(candidates) > t.opts.MaxSuggestions {
		candidates = candidates[:t.opts.MaxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
