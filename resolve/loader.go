// Package resolve merges imported library actions into the compiling unit
// before transformation. Loading and parsing of library sources is the
// caller's concern; this package consumes their typed results.
package resolve

import (
	"context"
	"fmt"

	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
)

// LoadFailure classifies a library load failure.
type LoadFailure int

const (
	LoadNotFound LoadFailure = iota
	LoadPermission
	LoadRead
	LoadSecurity
)

func (f LoadFailure) String() string {
	switch f {
	case LoadNotFound:
		return "not found"
	case LoadPermission:
		return "permission denied"
	case LoadRead:
		return "read failed"
	case LoadSecurity:
		return "path rejected"
	default:
		return "unknown failure"
	}
}

// LoadError is the typed failure a Loader reports.
type LoadError struct {
	Failure LoadFailure
	URI     string
	Cause   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s", e.URI, e.Failure)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Loader fetches raw library source text by unit path. Implementations live
// with the host; the resolver never retries or blocks beyond this call.
type Loader interface {
	Load(ctx context.Context, uri string) ([]byte, error)
}

// ParseFunc parses raw library text into a program. The parser is external;
// wiring it in as a function keeps this package free of grammar concerns.
type ParseFunc func(uri string, src []byte) (*ast.Program, error)

// LoadClosure loads and parses every unit transitively imported by root,
// returning the closed unit set keyed by unit path. Already-visited units are
// not reloaded, so import cycles terminate here and are diagnosed later by
// Resolve.
func LoadClosure(ctx context.Context, root *ast.Program, loader Loader, parse ParseFunc) (map[string]*ast.Program, error) {
	units := make(map[string]*ast.Program)
	pending := importPaths(root)
	for len(pending) > 0 {
		uri := pending[0]
		pending = pending[1:]
		if _, ok := units[uri]; ok {
			continue
		}
		src, err := loader.Load(ctx, uri)
		if err != nil {
			return nil, cerr.Newf(cerr.ErrUnknownImport, "cannot load library %q: %v", uri, err).WithCause(err)
		}
		prog, err := parse(uri, src)
		if err != nil {
			return nil, cerr.Newf(cerr.ErrParse, "library %q: %v", uri, err).WithCause(err)
		}
		units[uri] = prog
		pending = append(pending, importPaths(prog)...)
	}
	return units, nil
}

func importPaths(prog *ast.Program) []string {
	var paths []string
	for _, stmt := range prog.Statements {
		if imp, ok := stmt.(*ast.ImportDecl); ok {
			paths = append(paths, imp.From)
		}
	}
	return paths
}
