// Package errors defines the compiler's error taxonomy. Every failure is
// tagged with a stable Code and the pipeline Stage that raised it, so callers
// can render stage-specific guidance without matching message strings.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/rolandzwaga/eligian/ast"
)

// Code identifies one failure kind.
type Code string

const (
	// ErrParse is an upstream parser failure passed through unchanged.
	ErrParse Code = "parse"

	// Import resolution.
	ErrUnknownImport  Code = "unknown-import"
	ErrCircularImport Code = "circular-import"
	ErrInvalidLibrary Code = "invalid-library"

	// Name resolution.
	ErrActionNameCollision Code = "action-name-collision"
	ErrUnknownOperation    Code = "unknown-operation"
	ErrTooFewParameters    Code = "too-few-parameters"
	ErrTooManyParameters   Code = "too-many-parameters"

	// Expression evaluation.
	ErrDivisionByZero        Code = "division-by-zero"
	ErrUndefinedConstant     Code = "undefined-constant"
	ErrUnsupportedExpression Code = "unsupported-expression"

	// Control flow.
	ErrBreakContinueOutsideLoop Code = "break-continue-outside-loop"

	// Transformation.
	ErrInvalidTimeline Code = "invalid-timeline"
	// ErrUnknownNode signals an unhandled syntax-tree shape reached the
	// transformer. It indicates a compiler bug, not a source problem.
	ErrUnknownNode Code = "unknown-node"

	// Post-transform checking.
	ErrTypeCheck          Code = "typecheck"
	ErrDuplicateName      Code = "duplicate-name"
	ErrInvalidTimeRange   Code = "invalid-time-range"
	ErrMissingMediaSource Code = "missing-media-source"
)

// Stage identifies the pipeline stage an error belongs to.
type Stage string

const (
	StageParse     Stage = "parse"
	StageImport    Stage = "import"
	StageNames     Stage = "name-resolution"
	StageTransform Stage = "transform"
	StageTypeCheck Stage = "typecheck"
	StageValidate  Stage = "validate"
)

// StageOf returns the pipeline stage a code belongs to.
func StageOf(code Code) Stage {
	switch code {
	case ErrParse:
		return StageParse
	case ErrUnknownImport, ErrCircularImport, ErrInvalidLibrary:
		return StageImport
	case ErrActionNameCollision, ErrUnknownOperation, ErrTooFewParameters, ErrTooManyParameters:
		return StageNames
	case ErrTypeCheck:
		return StageTypeCheck
	case ErrDuplicateName, ErrInvalidTimeRange, ErrMissingMediaSource:
		return StageValidate
	default:
		return StageTransform
	}
}

// CompileError is the single error shape produced by every stage. Location
// and Path are optional; Suggestions is advisory data for unknown-operation
// errors and never triggers automatic substitution.
type CompileError struct {
	Code        Code
	Stage       Stage
	Message     string
	Pos         ast.Position // zero when no source location applies
	Path        string       // document field path for post-transform checks
	Suggestions []string
	Cause       error
}

// New builds a CompileError with the stage derived from the code.
func New(code Code, msg string) *CompileError {
	return &CompileError{Code: code, Stage: StageOf(code), Message: msg}
}

// Newf builds a CompileError with a formatted message.
func Newf(code Code, format string, args ...any) *CompileError {
	return New(code, fmt.Sprintf(format, args...))
}

// At attaches a source location and returns the error for chaining.
func (e *CompileError) At(pos ast.Position) *CompileError {
	e.Pos = pos
	return e
}

// WithPath attaches a document field path.
func (e *CompileError) WithPath(path string) *CompileError {
	e.Path = path
	return e
}

// WithSuggestions attaches nearest-name candidates.
func (e *CompileError) WithSuggestions(names []string) *CompileError {
	e.Suggestions = names
	return e
}

// WithCause attaches an underlying error.
func (e *CompileError) WithCause(cause error) *CompileError {
	e.Cause = cause
	return e
}

// Error formats the error with code, location, path, and suggestions.
func (e *CompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Pos.Line > 0 {
		fmt.Fprintf(&b, " (line %d, column %d)", e.Pos.Line, e.Pos.Column)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *CompileError) Unwrap() error { return e.Cause }

// Is matches a bare New(code, ...) target by code, so callers can test
// failure kinds with stderrors.Is.
func (e *CompileError) Is(target error) bool {
	var ce *CompileError
	if !stderrors.As(target, &ce) {
		return false
	}
	return e.Code == ce.Code
}

// As extracts a *CompileError from an error chain.
func As(err error) (*CompileError, bool) {
	var ce *CompileError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	ce, ok := As(err)
	return ok && ce.Code == code
}
