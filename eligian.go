package eligian

import (
	"github.com/rolandzwaga/eligian/ast"
	"github.com/rolandzwaga/eligian/emit"
	"github.com/rolandzwaga/eligian/internal/optimize"
	"github.com/rolandzwaga/eligian/internal/transform"
	"github.com/rolandzwaga/eligian/internal/typecheck"
	"github.com/rolandzwaga/eligian/ir"
	"github.com/rolandzwaga/eligian/registry"
	"github.com/rolandzwaga/eligian/resolve"
)

// Result carries the compiled intermediate representation and its source
// map. The source map is diagnostics-only; the published document never
// references it.
type Result struct {
	IR        *ir.Document
	SourceMap ir.SourceMap
}

type config struct {
	registry  *registry.Registry
	libraries map[string]*ast.Program
	transform transform.Options
}

// Option configures a compilation.
type Option func(*config)

// WithRegistry supplies the operation signature table.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithLibraries supplies the already-loaded library units, keyed by unit
// path as written in import declarations. See resolve.LoadClosure for
// building this set from a Loader.
func WithLibraries(units map[string]*ast.Program) Option {
	return func(c *config) { c.libraries = units }
}

// WithContainerSelector overrides the default container selector applied to
// the document and to timelines that omit one.
func WithContainerSelector(selector string) Option {
	return func(c *config) { c.transform.ContainerSelector = selector }
}

// WithLanguage sets the document language.
func WithLanguage(code string) Option {
	return func(c *config) { c.transform.Language = code }
}

// WithLayoutTemplate sets the layout template name.
func WithLayoutTemplate(name string) Option {
	return func(c *config) { c.transform.LayoutTemplate = name }
}

// WithSourceName records the compiled unit's name in the document metadata.
func WithSourceName(name string) Option {
	return func(c *config) { c.transform.SourceName = name }
}

// WithSuggestions tunes "did you mean" candidates on unknown-operation
// errors: at most max names within the given Levenshtein distance. Zero
// values keep the defaults (3 names within distance 2); a negative max
// disables suggestions.
func WithSuggestions(max, maxDistance int) Option {
	return func(c *config) {
		c.transform.MaxSuggestions = max
		c.transform.MaxSuggestionDistance = maxDistance
	}
}

// Compile lowers a parsed program into the published configuration
// document. The stages run strictly in sequence: import resolution, name
// indexing, transformation, type checking, optimization, emission. The
// first error aborts the unit; no stage partially succeeds.
func Compile(prog *ast.Program, opts ...Option) (*emit.Document, *Result, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	resolved, err := resolve.Resolve(prog, cfg.libraries)
	if err != nil {
		return nil, nil, err
	}

	doc, smap, err := transform.Transform(resolved, cfg.registry, cfg.transform)
	if err != nil {
		return nil, nil, err
	}

	if err := typecheck.Check(doc); err != nil {
		return nil, nil, err
	}

	optimized := optimize.Run(doc)
	published := emit.Run(optimized)

	return published, &Result{IR: optimized, SourceMap: smap}, nil
}
