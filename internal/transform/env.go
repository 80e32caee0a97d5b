package transform

import "github.com/rolandzwaga/eligian/ast"

// constEnv is the constant environment: a stack of lexical scopes, one frame
// per action body, branch, or loop body. A frame holds evaluated constant
// bindings plus the names of runtime variables declared in it (constants
// whose initializer did not fold).
type constEnv struct {
	frames []*envFrame
}

type envFrame struct {
	consts  map[string]constBinding
	runtime map[string]struct{}
}

type constBinding struct {
	value any
	pos   ast.Position
}

func newConstEnv() *constEnv {
	env := &constEnv{}
	env.push()
	return env
}

func (e *constEnv) push() {
	e.frames = append(e.frames, &envFrame{
		consts:  make(map[string]constBinding),
		runtime: make(map[string]struct{}),
	})
}

func (e *constEnv) pop() {
	e.frames = e.frames[:len(e.frames)-1]
}

// bind records an evaluated constant in the innermost scope.
func (e *constEnv) bind(name string, value any, pos ast.Position) {
	top := e.frames[len(e.frames)-1]
	top.consts[name] = constBinding{value: value, pos: pos}
}

// bindRuntime records that name compiles to a scoped runtime variable.
func (e *constEnv) bindRuntime(name string) {
	top := e.frames[len(e.frames)-1]
	top.runtime[name] = struct{}{}
}

// lookup resolves a constant reference, innermost scope first.
func (e *constEnv) lookup(name string) (constBinding, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if b, ok := e.frames[i].consts[name]; ok {
			return b, true
		}
	}
	return constBinding{}, false
}

// isRuntime reports whether name was declared as a runtime variable in any
// enclosing scope.
func (e *constEnv) isRuntime(name string) bool {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i].runtime[name]; ok {
			return true
		}
	}
	return false
}
