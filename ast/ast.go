// Package ast defines the syntax tree the compiler consumes. The tree is
// produced by the external Eligian parser and is treated as immutable input;
// the compiler only reads it.
//
// Statement and Expression are closed unions: every node kind lives in this
// package and carries an unexported marker method, so a switch over node
// types can be checked for exhaustiveness when a kind is added.
package ast

// Position locates a node in the original source text. Length covers the
// token or expression the node was parsed from.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Length int `json:"length"`
}

// IsZero reports whether the position carries no location information.
func (p Position) IsZero() bool { return p.Line == 0 && p.Column == 0 && p.Length == 0 }

// Program is the root of a parsed compilation unit. Library units set
// Library; a standalone program cannot be imported from.
type Program struct {
	Library    bool        `json:"library"`
	Statements []Statement `json:"statements"`
	Pos        Position    `json:"pos"`
}

// Statement is implemented by all statement nodes.
type Statement interface {
	Position() Position
	stmtNode()
}

// Expression is implemented by all expression nodes.
type Expression interface {
	Position() Position
	exprNode()
}

// TimelineProvider identifies the runtime driving a timeline.
type TimelineProvider string

const (
	ProviderRAF   TimelineProvider = "raf"
	ProviderVideo TimelineProvider = "video"
	ProviderAudio TimelineProvider = "audio"
)

// TimelineDecl declares a timeline. Source is required for video/audio
// providers. Selector may be empty, in which case the compiler substitutes
// the engine default.
type TimelineDecl struct {
	Name     string           `json:"name"`
	Provider TimelineProvider `json:"provider"`
	Source   string           `json:"source,omitempty"`
	Selector string           `json:"selector,omitempty"`
	Loop     bool             `json:"loop"`
	Body     []Statement      `json:"body"`
	Pos      Position         `json:"pos"`
}

// Parameter is a declared action or event-action parameter.
type Parameter struct {
	Name string   `json:"name"`
	Pos  Position `json:"pos"`
}

// ActionDecl declares a reusable named action. Endable actions additionally
// carry an end-phase body.
type ActionDecl struct {
	Name       string      `json:"name"`
	Endable    bool        `json:"endable"`
	Parameters []Parameter `json:"parameters,omitempty"`
	Body       []Statement `json:"body"`
	EndBody    []Statement `json:"endBody,omitempty"`
	Pos        Position    `json:"pos"`
}

// EventActionDecl declares an action triggered by a named runtime event.
// Declared parameters bind to the event's argument list by position.
type EventActionDecl struct {
	Name       string      `json:"name"`
	Event      string      `json:"event"`
	Topic      string      `json:"topic,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
	Body       []Statement `json:"body"`
	Pos        Position    `json:"pos"`
}

// ConstDecl binds a name to an expression for the enclosing lexical scope.
type ConstDecl struct {
	Name string     `json:"name"`
	Init Expression `json:"init"`
	Pos  Position   `json:"pos"`
}

// ImportEntry names one action pulled from a library, optionally renamed.
type ImportEntry struct {
	Name  string   `json:"name"`
	Alias string   `json:"alias,omitempty"`
	Pos   Position `json:"pos"`
}

// ImportDecl imports one or more actions from a library unit.
type ImportDecl struct {
	Entries []ImportEntry `json:"entries"`
	From    string        `json:"from"`
	Pos     Position      `json:"pos"`
}

// TimeBound is one bound of a timed block. Relative bounds (`+n`) are
// resolved against the end of the previous sibling action at lowering time.
type TimeBound struct {
	Value    Expression `json:"value"`
	Relative bool       `json:"relative"`
	Pos      Position   `json:"pos"`
}

// TimedBlock schedules its body on the enclosing timeline between two bounds.
type TimedBlock struct {
	Start   TimeBound   `json:"start"`
	End     TimeBound   `json:"end"`
	Body    []Statement `json:"body"`
	EndBody []Statement `json:"endBody,omitempty"`
	Pos     Position    `json:"pos"`
}

// SequenceEntry is one `<call> for <duration>` step of a sequence block.
type SequenceEntry struct {
	Call     *CallStmt  `json:"call"`
	Duration Expression `json:"duration"`
	Pos      Position   `json:"pos"`
}

// SequenceBlock schedules entries back to back, each occupying its duration.
type SequenceBlock struct {
	Entries []SequenceEntry `json:"entries"`
	Pos     Position        `json:"pos"`
}

// StaggerBlock schedules one body per collection item, each delayed by the
// item index times Delay and lasting Duration. Exactly one of Call or the
// inline Start/End bodies is set; in both forms Alias names the per-item
// binding visible to the body.
type StaggerBlock struct {
	Delay      Expression  `json:"delay"`
	Collection Expression  `json:"collection"`
	Alias      string      `json:"alias"`
	Duration   Expression  `json:"duration"`
	Call       *CallStmt   `json:"call,omitempty"`
	Start      []Statement `json:"start,omitempty"`
	End        []Statement `json:"end,omitempty"`
	Pos        Position    `json:"pos"`
}

// CallStmt invokes a user action or a registered operation by name.
type CallStmt struct {
	Name string       `json:"name"`
	Args []Expression `json:"args,omitempty"`
	Pos  Position     `json:"pos"`
}

// IfStmt lowers to a conditional operation region. Each branch opens its own
// constant scope.
type IfStmt struct {
	Cond Expression  `json:"cond"`
	Then []Statement `json:"then"`
	Else []Statement `json:"else,omitempty"`
	Pos  Position    `json:"pos"`
}

// ForStmt iterates a collection, binding each item to Alias inside the body.
type ForStmt struct {
	Alias      string      `json:"alias"`
	Collection Expression  `json:"collection"`
	Body       []Statement `json:"body"`
	Pos        Position    `json:"pos"`
}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	Pos Position `json:"pos"`
}

// ContinueStmt skips to the next iteration of the innermost loop.
type ContinueStmt struct {
	Pos Position `json:"pos"`
}

// NumberLit is a numeric literal. Durations are expressed in seconds by the
// parser regardless of the unit written in source.
type NumberLit struct {
	Value float64  `json:"value"`
	Pos   Position `json:"pos"`
}

// StringLit is a string literal.
type StringLit struct {
	Value string   `json:"value"`
	Pos   Position `json:"pos"`
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool     `json:"value"`
	Pos   Position `json:"pos"`
}

// ArrayLit is an array literal.
type ArrayLit struct {
	Elems []Expression `json:"elems"`
	Pos   Position     `json:"pos"`
}

// ObjectField is a single key/value entry of an object literal. Field order
// is source order and is preserved through compilation.
type ObjectField struct {
	Key   string     `json:"key"`
	Value Expression `json:"value"`
}

// ObjectLit is an object literal.
type ObjectLit struct {
	Fields []ObjectField `json:"fields"`
	Pos    Position      `json:"pos"`
}

// ConstantRef references a `const` binding (`@name` in source).
type ConstantRef struct {
	Name string   `json:"name"`
	Pos  Position `json:"pos"`
}

// ParamRef references a declared action parameter.
type ParamRef struct {
	Name string   `json:"name"`
	Pos  Position `json:"pos"`
}

// AliasRef references the per-iteration binding of an enclosing for loop or
// stagger block (`@@name` in source).
type AliasRef struct {
	Name string   `json:"name"`
	Pos  Position `json:"pos"`
}

// BinaryExpr applies an infix operator: + - * / % && || == != < <= > >=.
type BinaryExpr struct {
	Op    string     `json:"op"`
	Left  Expression `json:"left"`
	Right Expression `json:"right"`
	Pos   Position   `json:"pos"`
}

// UnaryExpr applies a prefix operator: - or !.
type UnaryExpr struct {
	Op      string     `json:"op"`
	Operand Expression `json:"operand"`
	Pos     Position   `json:"pos"`
}

// ParenExpr records explicit grouping so runtime expression strings keep the
// author's parentheses.
type ParenExpr struct {
	Inner Expression `json:"inner"`
	Pos   Position   `json:"pos"`
}

func (s *TimelineDecl) Position() Position    { return s.Pos }
func (s *ActionDecl) Position() Position      { return s.Pos }
func (s *EventActionDecl) Position() Position { return s.Pos }
func (s *ConstDecl) Position() Position       { return s.Pos }
func (s *ImportDecl) Position() Position      { return s.Pos }
func (s *TimedBlock) Position() Position      { return s.Pos }
func (s *SequenceBlock) Position() Position   { return s.Pos }
func (s *StaggerBlock) Position() Position    { return s.Pos }
func (s *CallStmt) Position() Position        { return s.Pos }
func (s *IfStmt) Position() Position          { return s.Pos }
func (s *ForStmt) Position() Position         { return s.Pos }
func (s *BreakStmt) Position() Position       { return s.Pos }
func (s *ContinueStmt) Position() Position    { return s.Pos }

func (*TimelineDecl) stmtNode()    {}
func (*ActionDecl) stmtNode()      {}
func (*EventActionDecl) stmtNode() {}
func (*ConstDecl) stmtNode()       {}
func (*ImportDecl) stmtNode()      {}
func (*TimedBlock) stmtNode()      {}
func (*SequenceBlock) stmtNode()   {}
func (*StaggerBlock) stmtNode()    {}
func (*CallStmt) stmtNode()        {}
func (*IfStmt) stmtNode()          {}
func (*ForStmt) stmtNode()         {}
func (*BreakStmt) stmtNode()       {}
func (*ContinueStmt) stmtNode()    {}

func (e *NumberLit) Position() Position   { return e.Pos }
func (e *StringLit) Position() Position   { return e.Pos }
func (e *BoolLit) Position() Position     { return e.Pos }
func (e *ArrayLit) Position() Position    { return e.Pos }
func (e *ObjectLit) Position() Position   { return e.Pos }
func (e *ConstantRef) Position() Position { return e.Pos }
func (e *ParamRef) Position() Position    { return e.Pos }
func (e *AliasRef) Position() Position    { return e.Pos }
func (e *BinaryExpr) Position() Position  { return e.Pos }
func (e *UnaryExpr) Position() Position   { return e.Pos }
func (e *ParenExpr) Position() Position   { return e.Pos }

func (*NumberLit) exprNode()   {}
func (*StringLit) exprNode()   {}
func (*BoolLit) exprNode()     {}
func (*ArrayLit) exprNode()    {}
func (*ObjectLit) exprNode()   {}
func (*ConstantRef) exprNode() {}
func (*ParamRef) exprNode()    {}
func (*AliasRef) exprNode()    {}
func (*BinaryExpr) exprNode()  {}
func (*UnaryExpr) exprNode()   {}
func (*ParenExpr) exprNode()   {}
