// Package transform lowers a resolved program into the configuration
// document. It owns the constant environment, call-target resolution, and
// control-flow lowering; imports must already be merged by resolve.
package transform

import (
	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/ir"
	"github.com/rolandzwaga/eligian/registry"
)

// Fixed engine vocabulary.
const (
	engineSystemName         = "EligiusEngine"
	defaultContainerSelector = "[data-ct-container=true]"
	defaultLanguage          = "en-US"
	defaultLayoutTemplate    = "default"

	opRequestAction   = "requestAction"
	opStartAction     = "startAction"
	opEndAction       = "endAction"
	opSetVariable     = "setVariable"
	opWhen            = "when"
	opOtherwise       = "otherwise"
	opEndWhen         = "endWhen"
	opForEach         = "forEach"
	opEndForEach      = "endForEach"
	opBreakForEach    = "breakForEach"
	opContinueForEach = "continueForEach"
)

// Options tune lowering. The zero value selects the engine defaults: for the
// suggestion knobs, zero means "default" (3 names within distance 2) and a
// negative value disables suggestions entirely.
type Options struct {
	ContainerSelector     string
	Language              string
	LayoutTemplate        string
	SourceName            string
	MaxSuggestions        int
	MaxSuggestionDistance int
}

func (o Options) withDefaults() Options {
	if o.ContainerSelector == "" {
		o.ContainerSelector = defaultContainerSelector
	}
	if o.Language == "" {
		o.Language = defaultLanguage
	}
	if o.LayoutTemplate == "" {
		o.LayoutTemplate = defaultLayoutTemplate
	}
	switch {
	case o.MaxSuggestions == 0:
		o.MaxSuggestions = 3
	case o.MaxSuggestions < 0:
		o.MaxSuggestions = 0
	}
	switch {
	case o.MaxSuggestionDistance == 0:
		o.MaxSuggestionDistance = 2
	case o.MaxSuggestionDistance < 0:
		o.MaxSuggestionDistance = 0
	}
	return o
}

// Transformer walks the program and assembles the document. One Transformer
// serves one compilation; it is not reused.
type Transformer struct {
	reg     *registry.Registry
	actions map[string]*ast.ActionDecl
	opts    Options

	env       *constEnv
	smap      ir.SourceMap
	params    map[string]string // current action parameter -> accessor
	aliases   []string          // active runtime loop aliases, innermost last
	loopDepth int
}

// Transform lowers a resolved program against the operation registry. It
// fails fast: the first error aborts the unit and all partial output is
// discarded.
func Transform(prog *ast.Program, reg *registry.Registry, opts Options) (*ir.Document, ir.SourceMap, error) {
	actions, err := buildActionIndex(prog, reg)
	if err != nil {
		return nil, nil, err
	}
	t := &Transformer{
		reg:     reg,
		actions: actions,
		opts:    opts.withDefaults(),
		env:     newConstEnv(),
		smap:    ir.NewSourceMap(),
		params:  map[string]string{},
	}
	doc, err := t.run(prog)
	if err != nil {
		return nil, nil, err
	}
	return doc, t.smap, nil
}

func (t *Transformer) run(prog *ast.Program) (*ir.Document, error) {
	doc := &ir.Document{
		ID:                t.newNode(prog.Pos),
		Engine:            ir.Engine{SystemName: engineSystemName},
		ContainerSelector: t.opts.ContainerSelector,
		Language:          t.opts.Language,
		LayoutTemplate:    t.opts.LayoutTemplate,
		AvailableLanguages: []ir.Language{
			{Code: t.opts.Language, Label: t.opts.Language},
		},
		Labels:       []ir.LabelGroup{},
		InitActions:  []ir.Action{},
		Actions:      []ir.Action{},
		EventActions: []ir.EventAction{},
		Timelines:    []ir.Timeline{},
		Metadata:     &ir.Metadata{Compiler: "eligian", SourceName: t.opts.SourceName},
	}

	var initOps []ir.Operation
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.ConstDecl:
			op, err := t.lowerConst(s)
			if err != nil {
				return nil, err
			}
			if op != nil {
				initOps = append(initOps, *op)
			}
		case *ast.ActionDecl:
			action, err := t.lowerAction(s)
			if err != nil {
				return nil, err
			}
			doc.Actions = append(doc.Actions, action)
		case *ast.EventActionDecl:
			action, err := t.lowerEventAction(s)
			if err != nil {
				return nil, err
			}
			doc.EventActions = append(doc.EventActions, action)
		case *ast.TimelineDecl:
			timeline, err := t.lowerTimeline(s)
			if err != nil {
				return nil, err
			}
			doc.Timelines = append(doc.Timelines, timeline)
		case *ast.ImportDecl:
			return nil, cerr.New(cerr.ErrUnknownNode, "unresolved import reached the transformer").At(s.Pos)
		default:
			return nil, cerr.Newf(cerr.ErrUnknownNode, "unhandled statement node %T", stmt).At(stmt.Position())
		}
	}

	if len(initOps) > 0 {
		doc.InitActions = append(doc.InitActions, ir.Action{
			ID:              t.newNode(prog.Pos),
			Name:            "globals",
			StartOperations: initOps,
		})
	}
	return doc, nil
}

// lowerConst evaluates a constant declaration. A foldable initializer binds
// in the current scope and emits nothing; otherwise the name becomes a
// scoped runtime variable and a setVariable operation is emitted at the
// point of declaration.
func (t *Transformer) lowerConst(decl *ast.ConstDecl) (*ir.Operation, error) {
	v, err := t.evalExpr(decl.Init)
	if err != nil {
		return nil, err
	}
	if v.folded {
		t.env.bind(decl.Name, v.lit, decl.Pos)
		return nil, nil
	}
	t.env.bindRuntime(decl.Name)
	op := t.newOperation(opSetVariable, decl.Pos)
	op.Data.Set("name", decl.Name)
	op.Data.Set("value", v.payload())
	return &op, nil
}

// newNode mints an id and records its source location.
func (t *Transformer) newNode(pos ast.Position) string {
	id := ir.NewID()
	t.smap.Add(id, ir.Location{Line: pos.Line, Column: pos.Column, Length: pos.Length})
	return id
}

func (t *Transformer) newOperation(systemName string, pos ast.Position) ir.Operation {
	return ir.Operation{
		ID:         t.newNode(pos),
		SystemName: systemName,
		Data:       ir.NewOperationData(),
	}
}

func (t *Transformer) loopAliasActive(name string) bool {
	for i := len(t.aliases) - 1; i >= 0; i-- {
		if t.aliases[i] == name {
			return true
		}
	}
	return false
}
