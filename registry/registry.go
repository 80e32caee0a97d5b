// Package registry describes the catalogue of primitive operations the
// compiler can target. The catalogue content is external data; this package
// only defines its shape, lookup, and loading.
package registry

import (
	"fmt"
	"sort"
)

// Parameter is one named parameter of an operation signature, in declaration
// order. Positional call arguments map onto parameters in this order.
type Parameter struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
}

// TypedName is a named, typed dependency or output of an operation.
type TypedName struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Signature declares one primitive operation.
type Signature struct {
	Name         string      `json:"name" yaml:"name"`
	Parameters   []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Dependencies []TypedName `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Outputs      []TypedName `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// RequiredCount returns the number of required parameters.
func (s *Signature) RequiredCount() int {
	n := 0
	for _, p := range s.Parameters {
		if p.Required {
			n++
		}
	}
	return n
}

// Registry indexes operation signatures by name.
type Registry struct {
	byName map[string]*Signature
}

// New builds a registry from signatures. Duplicate names are rejected.
func New(sigs ...Signature) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Signature, len(sigs))}
	for i := range sigs {
		s := sigs[i]
		if s.Name == "" {
			return nil, fmt.Errorf("registry: signature %d has no name", i)
		}
		if _, ok := r.byName[s.Name]; ok {
			return nil, fmt.Errorf("registry: duplicate operation %q", s.Name)
		}
		r.byName[s.Name] = &s
	}
	return r, nil
}

// Lookup returns the signature for name, if registered.
func (r *Registry) Lookup(name string) (*Signature, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.byName[name]
	return s, ok
}

// Has reports whether name is a registered operation.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns all registered operation names, sorted for determinism.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byName)
}
