package ast

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// DecodeProgram decodes the kind-tagged JSON form of a parsed program, the
// interchange format the external parser emits. Statement and expression
// objects carry a "kind" discriminator naming the node type.
func DecodeProgram(data []byte) (*Program, error) {
	var root struct {
		Library    bool              `json:"library"`
		Statements []json.RawMessage `json:"statements"`
		Pos        Position          `json:"pos"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("ast: decode program: %w", err)
	}
	stmts, err := decodeStatements(root.Statements)
	if err != nil {
		return nil, err
	}
	return &Program{Library: root.Library, Statements: stmts, Pos: root.Pos}, nil
}

func decodeStatements(raw []json.RawMessage) ([]Statement, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]Statement, 0, len(raw))
	for _, r := range raw {
		s, err := decodeStatement(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func nodeKind(raw json.RawMessage) (string, error) {
	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", fmt.Errorf("ast: decode node tag: %w", err)
	}
	if tag.Kind == "" {
		return "", fmt.Errorf("ast: node object missing \"kind\"")
	}
	return tag.Kind, nil
}

func decodeStatement(raw json.RawMessage) (Statement, error) {
	kind, err := nodeKind(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "timeline":
		var n struct {
			Name     string            `json:"name"`
			Provider TimelineProvider  `json:"provider"`
			Source   string            `json:"source"`
			Selector string            `json:"selector"`
			Loop     bool              `json:"loop"`
			Body     []json.RawMessage `json:"body"`
			Pos      Position          `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		body, err := decodeStatements(n.Body)
		if err != nil {
			return nil, err
		}
		return &TimelineDecl{Name: n.Name, Provider: n.Provider, Source: n.Source, Selector: n.Selector, Loop: n.Loop, Body: body, Pos: n.Pos}, nil
	case "action":
		var n struct {
			Name       string            `json:"name"`
			Endable    bool              `json:"endable"`
			Parameters []Parameter       `json:"parameters"`
			Body       []json.RawMessage `json:"body"`
			EndBody    []json.RawMessage `json:"endBody"`
			Pos        Position          `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		body, err := decodeStatements(n.Body)
		if err != nil {
			return nil, err
		}
		end, err := decodeStatements(n.EndBody)
		if err != nil {
			return nil, err
		}
		return &ActionDecl{Name: n.Name, Endable: n.Endable, Parameters: n.Parameters, Body: body, EndBody: end, Pos: n.Pos}, nil
	case "eventAction":
		var n struct {
			Name       string            `json:"name"`
			Event      string            `json:"event"`
			Topic      string            `json:"topic"`
			Parameters []Parameter       `json:"parameters"`
			Body       []json.RawMessage `json:"body"`
			Pos        Position          `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		body, err := decodeStatements(n.Body)
		if err != nil {
			return nil, err
		}
		return &EventActionDecl{Name: n.Name, Event: n.Event, Topic: n.Topic, Parameters: n.Parameters, Body: body, Pos: n.Pos}, nil
	case "const":
		var n struct {
			Name string          `json:"name"`
			Init json.RawMessage `json:"init"`
			Pos  Position        `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		init, err := decodeExpression(n.Init)
		if err != nil {
			return nil, err
		}
		return &ConstDecl{Name: n.Name, Init: init, Pos: n.Pos}, nil
	case "import":
		var n struct {
			Entries []ImportEntry `json:"entries"`
			From    string        `json:"from"`
			Pos     Position      `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ImportDecl{Entries: n.Entries, From: n.From, Pos: n.Pos}, nil
	case "timedBlock":
		var n struct {
			Start   rawTimeBound      `json:"start"`
			End     rawTimeBound      `json:"end"`
			Body    []json.RawMessage `json:"body"`
			EndBody []json.RawMessage `json:"endBody"`
			Pos     Position          `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		start, err := n.Start.decode()
		if err != nil {
			return nil, err
		}
		end, err := n.End.decode()
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(n.Body)
		if err != nil {
			return nil, err
		}
		endBody, err := decodeStatements(n.EndBody)
		if err != nil {
			return nil, err
		}
		return &TimedBlock{Start: start, End: end, Body: body, EndBody: endBody, Pos: n.Pos}, nil
	case "sequence":
		var n struct {
			Entries []struct {
				Call     json.RawMessage `json:"call"`
				Duration json.RawMessage `json:"duration"`
				Pos      Position        `json:"pos"`
			} `json:"entries"`
			Pos Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		entries := make([]SequenceEntry, 0, len(n.Entries))
		for _, e := range n.Entries {
			call, err := decodeCall(e.Call)
			if err != nil {
				return nil, err
			}
			dur, err := decodeExpression(e.Duration)
			if err != nil {
				return nil, err
			}
			entries = append(entries, SequenceEntry{Call: call, Duration: dur, Pos: e.Pos})
		}
		return &SequenceBlock{Entries: entries, Pos: n.Pos}, nil
	case "stagger":
		var n struct {
			Delay      json.RawMessage   `json:"delay"`
			Collection json.RawMessage   `json:"collection"`
			Alias      string            `json:"alias"`
			Duration   json.RawMessage   `json:"duration"`
			Call       json.RawMessage   `json:"call"`
			Start      []json.RawMessage `json:"start"`
			End        []json.RawMessage `json:"end"`
			Pos        Position          `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		delay, err := decodeExpression(n.Delay)
		if err != nil {
			return nil, err
		}
		coll, err := decodeExpression(n.Collection)
		if err != nil {
			return nil, err
		}
		dur, err := decodeExpression(n.Duration)
		if err != nil {
			return nil, err
		}
		var call *CallStmt
		if len(n.Call) > 0 && string(n.Call) != "null" {
			call, err = decodeCall(n.Call)
			if err != nil {
				return nil, err
			}
		}
		start, err := decodeStatements(n.Start)
		if err != nil {
			return nil, err
		}
		end, err := decodeStatements(n.End)
		if err != nil {
			return nil, err
		}
		return &StaggerBlock{Delay: delay, Collection: coll, Alias: n.Alias, Duration: dur, Call: call, Start: start, End: end, Pos: n.Pos}, nil
	case "call":
		return decodeCall(raw)
	case "if":
		var n struct {
			Cond json.RawMessage   `json:"cond"`
			Then []json.RawMessage `json:"then"`
			Else []json.RawMessage `json:"else"`
			Pos  Position          `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		cond, err := decodeExpression(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeStatements(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeStatements(n.Else)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Cond: cond, Then: then, Else: els, Pos: n.Pos}, nil
	case "for":
		var n struct {
			Alias      string            `json:"alias"`
			Collection json.RawMessage   `json:"collection"`
			Body       []json.RawMessage `json:"body"`
			Pos        Position          `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		coll, err := decodeExpression(n.Collection)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(n.Body)
		if err != nil {
			return nil, err
		}
		return &ForStmt{Alias: n.Alias, Collection: coll, Body: body, Pos: n.Pos}, nil
	case "break":
		var n struct {
			Pos Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &BreakStmt{Pos: n.Pos}, nil
	case "continue":
		var n struct {
			Pos Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ContinueStmt{Pos: n.Pos}, nil
	default:
		return nil, fmt.Errorf("ast: unknown statement kind %q", kind)
	}
}

type rawTimeBound struct {
	Value    json.RawMessage `json:"value"`
	Relative bool            `json:"relative"`
	Pos      Position        `json:"pos"`
}

func (r rawTimeBound) decode() (TimeBound, error) {
	v, err := decodeExpression(r.Value)
	if err != nil {
		return TimeBound{}, err
	}
	return TimeBound{Value: v, Relative: r.Relative, Pos: r.Pos}, nil
}

func decodeCall(raw json.RawMessage) (*CallStmt, error) {
	var n struct {
		Name string            `json:"name"`
		Args []json.RawMessage `json:"args"`
		Pos  Position          `json:"pos"`
	}
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	var args []Expression
	for _, a := range n.Args {
		e, err := decodeExpression(a)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return &CallStmt{Name: n.Name, Args: args, Pos: n.Pos}, nil
}

func decodeExpression(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("ast: empty expression")
	}
	kind, err := nodeKind(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "number":
		var n struct {
			Value float64  `json:"value"`
			Pos   Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &NumberLit{Value: n.Value, Pos: n.Pos}, nil
	case "string":
		var n struct {
			Value string   `json:"value"`
			Pos   Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &StringLit{Value: n.Value, Pos: n.Pos}, nil
	case "bool":
		var n struct {
			Value bool     `json:"value"`
			Pos   Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &BoolLit{Value: n.Value, Pos: n.Pos}, nil
	case "array":
		var n struct {
			Elems []json.RawMessage `json:"elems"`
			Pos   Position          `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		elems := make([]Expression, 0, len(n.Elems))
		for _, e := range n.Elems {
			x, err := decodeExpression(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, x)
		}
		return &ArrayLit{Elems: elems, Pos: n.Pos}, nil
	case "object":
		var n struct {
			Fields []struct {
				Key   string          `json:"key"`
				Value json.RawMessage `json:"value"`
			} `json:"fields"`
			Pos Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		fields := make([]ObjectField, 0, len(n.Fields))
		for _, f := range n.Fields {
			v, err := decodeExpression(f.Value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ObjectField{Key: f.Key, Value: v})
		}
		return &ObjectLit{Fields: fields, Pos: n.Pos}, nil
	case "constantRef":
		var n struct {
			Name string   `json:"name"`
			Pos  Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ConstantRef{Name: n.Name, Pos: n.Pos}, nil
	case "paramRef":
		var n struct {
			Name string   `json:"name"`
			Pos  Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ParamRef{Name: n.Name, Pos: n.Pos}, nil
	case "aliasRef":
		var n struct {
			Name string   `json:"name"`
			Pos  Position `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &AliasRef{Name: n.Name, Pos: n.Pos}, nil
	case "binary":
		var n struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Pos   Position        `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		l, err := decodeExpression(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := decodeExpression(n.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: n.Op, Left: l, Right: r, Pos: n.Pos}, nil
	case "unary":
		var n struct {
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
			Pos     Position        `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		x, err := decodeExpression(n.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: n.Op, Operand: x, Pos: n.Pos}, nil
	case "paren":
		var n struct {
			Inner json.RawMessage `json:"inner"`
			Pos   Position        `json:"pos"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		x, err := decodeExpression(n.Inner)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{Inner: x, Pos: n.Pos}, nil
	default:
		return nil, fmt.Errorf("ast: unknown expression kind %q", kind)
	}
}
