package resolve

import (
	"strings"

	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
)

// Resolve merges the actions named by the root unit's import declarations
// into a new program, in import order, ahead of the root's own statements.
// A merged action lowers through exactly the same path as a locally defined
// one, so compiled output differs only in generated ids.
//
// The input programs are not mutated; aliased actions are shallow-copied
// with the new name.
func Resolve(root *ast.Program, units map[string]*ast.Program) (*ast.Program, error) {
	if err := detectCycles(root, units); err != nil {
		return nil, err
	}

	var merged []ast.Statement
	seen := make(map[string]ast.Position)

	for _, stmt := range root.Statements {
		imp, ok := stmt.(*ast.ImportDecl)
		if !ok {
			continue
		}
		unit, ok := units[imp.From]
		if !ok {
			return nil, cerr.Newf(cerr.ErrUnknownImport, "library %q is not loaded", imp.From).At(imp.Pos)
		}
		if !unit.Library {
			return nil, cerr.Newf(cerr.ErrInvalidLibrary, "%q is a program, not a library", imp.From).At(imp.Pos)
		}
		for _, entry := range imp.Entries {
			decl := findAction(unit, entry.Name)
			if decl == nil {
				return nil, cerr.Newf(cerr.ErrUnknownImport, "library %q does not define action %q", imp.From, entry.Name).At(entry.Pos)
			}
			name := entry.Name
			if entry.Alias != "" {
				renamed := *decl
				renamed.Name = entry.Alias
				decl = &renamed
				name = entry.Alias
			}
			if prev, dup := seen[name]; dup {
				return nil, cerr.Newf(cerr.ErrDuplicateName, "action %q imported twice (first at line %d)", name, prev.Line).At(entry.Pos)
			}
			seen[name] = entry.Pos
			merged = append(merged, decl)
		}
	}

	for _, stmt := range root.Statements {
		if _, ok := stmt.(*ast.ImportDecl); ok {
			continue
		}
		if decl, ok := stmt.(*ast.ActionDecl); ok {
			if prev, dup := seen[decl.Name]; dup {
				return nil, cerr.Newf(cerr.ErrDuplicateName, "action %q already imported (line %d)", decl.Name, prev.Line).At(decl.Pos)
			}
			seen[decl.Name] = decl.Pos
		}
		merged = append(merged, stmt)
	}

	out := *root
	out.Statements = merged
	return &out, nil
}

func findAction(unit *ast.Program, name string) *ast.ActionDecl {
	for _, stmt := range unit.Statements {
		if decl, ok := stmt.(*ast.ActionDecl); ok && decl.Name == name {
			return decl
		}
	}
	return nil
}

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// detectCycles walks import edges from the root unit and fails on the first
// cycle, naming the chain of unit paths that closes it.
func detectCycles(root *ast.Program, units map[string]*ast.Program) error {
	states := make(map[string]visitState, len(units))
	var trail []string

	var visit func(uri string, prog *ast.Program) error
	visit = func(uri string, prog *ast.Program) error {
		switch states[uri] {
		case stateVisiting:
			cycle := append(trailFrom(trail, uri), uri)
			return cerr.Newf(cerr.ErrCircularImport, "import cycle: %s", strings.Join(cycle, " -> "))
		case stateDone:
			return nil
		}
		states[uri] = stateVisiting
		trail = append(trail, uri)
		for _, next := range importPaths(prog) {
			nextProg, ok := units[next]
			if !ok {
				// Missing units are reported with a location by Resolve.
				continue
			}
			if err := visit(next, nextProg); err != nil {
				return err
			}
		}
		trail = trail[:len(trail)-1]
		states[uri] = stateDone
		return nil
	}

	states["."] = stateVisiting
	trail = append(trail, ".")
	for _, next := range importPaths(root) {
		prog, ok := units[next]
		if !ok {
			continue
		}
		if err := visit(next, prog); err != nil {
			return err
		}
	}
	return nil
}

func trailFrom(trail []string, uri string) []string {
	for i, t := range trail {
		if t == uri {
			return append([]string(nil), trail[i:]...)
		}
	}
	return append([]string(nil), trail...)
}
