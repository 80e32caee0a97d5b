package resolve_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/resolve"
)

func action(name string) *ast.ActionDecl {
	return &ast.ActionDecl{Name: name, Body: []ast.Statement{&ast.CallStmt{Name: "selectElement", Args: []ast.Expression{&ast.StringLit{Value: "#x"}}}}}
}

func library(actions ...*ast.ActionDecl) *ast.Program {
	prog := &ast.Program{Library: true}
	for _, a := range actions {
		prog.Statements = append(prog.Statements, a)
	}
	return prog
}

func importOf(from string, entries ...ast.ImportEntry) *ast.ImportDecl {
	return &ast.ImportDecl{Entries: entries, From: from}
}

func TestResolve_MergesImportedActions(t *testing.T) {
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/effects", ast.ImportEntry{Name: "fadeIn"}),
		action("local"),
	}}
	units := map[string]*ast.Program{"lib/effects": library(action("fadeIn"))}

	merged, err := resolve.Resolve(root, units)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(merged.Statements) != 2 {
		t.Fatalf("merged %d statements, want 2", len(merged.Statements))
	}
	first, ok := merged.Statements[0].(*ast.ActionDecl)
	if !ok || first.Name != "fadeIn" {
		t.Fatalf("imported action not merged first: %T", merged.Statements[0])
	}
	second, ok := merged.Statements[1].(*ast.ActionDecl)
	if !ok || second.Name != "local" {
		t.Fatalf("local action lost: %T", merged.Statements[1])
	}
}

func TestResolve_AliasRenamesWithoutMutatingLibrary(t *testing.T) {
	lib := library(action("fadeIn"))
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/effects", ast.ImportEntry{Name: "fadeIn", Alias: "appear"}),
	}}

	merged, err := resolve.Resolve(root, map[string]*ast.Program{"lib/effects": lib})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got := merged.Statements[0].(*ast.ActionDecl)
	if got.Name != "appear" {
		t.Fatalf("alias binds name %q, want appear", got.Name)
	}
	if lib.Statements[0].(*ast.ActionDecl).Name != "fadeIn" {
		t.Fatalf("library declaration mutated")
	}
}

func TestResolve_UnknownLibrary(t *testing.T) {
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/missing", ast.ImportEntry{Name: "fadeIn"}),
	}}
	_, err := resolve.Resolve(root, nil)
	if !cerr.HasCode(err, cerr.ErrUnknownImport) {
		t.Fatalf("err = %v, want %s", err, cerr.ErrUnknownImport)
	}
}

func TestResolve_UnknownActionInLibrary(t *testing.T) {
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/effects", ast.ImportEntry{Name: "nope"}),
	}}
	units := map[string]*ast.Program{"lib/effects": library(action("fadeIn"))}
	_, err := resolve.Resolve(root, units)
	if !cerr.HasCode(err, cerr.ErrUnknownImport) {
		t.Fatalf("err = %v, want %s", err, cerr.ErrUnknownImport)
	}
}

func TestResolve_ImportFromProgramRejected(t *testing.T) {
	notALib := &ast.Program{Library: false, Statements: []ast.Statement{action("fadeIn")}}
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/effects", ast.ImportEntry{Name: "fadeIn"}),
	}}
	_, err := resolve.Resolve(root, map[string]*ast.Program{"lib/effects": notALib})
	if !cerr.HasCode(err, cerr.ErrInvalidLibrary) {
		t.Fatalf("err = %v, want %s", err, cerr.ErrInvalidLibrary)
	}
}

func TestResolve_DuplicateImportRejected(t *testing.T) {
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/a", ast.ImportEntry{Name: "fadeIn"}),
		importOf("lib/b", ast.ImportEntry{Name: "fadeIn"}),
	}}
	units := map[string]*ast.Program{
		"lib/a": library(action("fadeIn")),
		"lib/b": library(action("fadeIn")),
	}
	_, err := resolve.Resolve(root, units)
	if !cerr.HasCode(err, cerr.ErrDuplicateName) {
		t.Fatalf("err = %v, want %s", err, cerr.ErrDuplicateName)
	}
}

func TestResolve_ImportShadowingLocalRejected(t *testing.T) {
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/a", ast.ImportEntry{Name: "fadeIn"}),
		action("fadeIn"),
	}}
	units := map[string]*ast.Program{"lib/a": library(action("fadeIn"))}
	_, err := resolve.Resolve(root, units)
	if !cerr.HasCode(err, cerr.ErrDuplicateName) {
		t.Fatalf("err = %v, want %s", err, cerr.ErrDuplicateName)
	}
}

func TestResolve_CycleDetected(t *testing.T) {
	libA := library(action("a"))
	libA.Statements = append(libA.Statements, importOf("lib/b", ast.ImportEntry{Name: "b"}))
	libB := library(action("b"))
	libB.Statements = append(libB.Statements, importOf("lib/a", ast.ImportEntry{Name: "a"}))
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/a", ast.ImportEntry{Name: "a"}),
	}}
	units := map[string]*ast.Program{"lib/a": libA, "lib/b": libB}

	_, err := resolve.Resolve(root, units)
	if !cerr.HasCode(err, cerr.ErrCircularImport) {
		t.Fatalf("err = %v, want %s", err, cerr.ErrCircularImport)
	}
}

type fakeLoader struct {
	sources map[string]string
}

func (l *fakeLoader) Load(_ context.Context, uri string) ([]byte, error) {
	src, ok := l.sources[uri]
	if !ok {
		return nil, &resolve.LoadError{Failure: resolve.LoadNotFound, URI: uri}
	}
	return []byte(src), nil
}

func TestLoadClosure_FollowsTransitiveImports(t *testing.T) {
	// The fake parser maps source text "import:<uri>" to a library that
	// imports that uri, and anything else to a leaf library.
	parse := func(uri string, src []byte) (*ast.Program, error) {
		prog := library(action("a"))
		if len(src) > 7 && string(src[:7]) == "import:" {
			prog.Statements = append(prog.Statements, importOf(string(src[7:]), ast.ImportEntry{Name: "a"}))
		}
		return prog, nil
	}
	loader := &fakeLoader{sources: map[string]string{
		"lib/a": "import:lib/b",
		"lib/b": "leaf",
	}}
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/a", ast.ImportEntry{Name: "a"}),
	}}

	units, err := resolve.LoadClosure(context.Background(), root, loader, parse)
	if err != nil {
		t.Fatalf("LoadClosure: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("loaded %d units, want 2", len(units))
	}
	for _, uri := range []string{"lib/a", "lib/b"} {
		if units[uri] == nil {
			t.Fatalf("unit %q missing", uri)
		}
	}
}

func TestLoadClosure_LoadFailureSurfacesTypedError(t *testing.T) {
	loader := &fakeLoader{sources: map[string]string{}}
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/gone", ast.ImportEntry{Name: "a"}),
	}}

	_, err := resolve.LoadClosure(context.Background(), root, loader, func(string, []byte) (*ast.Program, error) {
		return library(), nil
	})
	if !cerr.HasCode(err, cerr.ErrUnknownImport) {
		t.Fatalf("err = %v, want %s", err, cerr.ErrUnknownImport)
	}
	var lerr *resolve.LoadError
	if !errors.As(err, &lerr) || lerr.Failure != resolve.LoadNotFound {
		t.Fatalf("typed load error not preserved: %v", err)
	}
}

func TestLoadClosure_ParseFailure(t *testing.T) {
	loader := &fakeLoader{sources: map[string]string{"lib/a": "broken"}}
	root := &ast.Program{Statements: []ast.Statement{
		importOf("lib/a", ast.ImportEntry{Name: "a"}),
	}}
	parse := func(uri string, _ []byte) (*ast.Program, error) {
		return nil, fmt.Errorf("syntax error in %s", uri)
	}
	_, err := resolve.LoadClosure(context.Background(), root, loader, parse)
	if !cerr.HasCode(err, cerr.ErrParse) {
		t.Fatalf("err = %v, want %s", err, cerr.ErrParse)
	}
}
