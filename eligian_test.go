package eligian_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/rolandzwaga/eligian"
	"github.com/rolandzwaga/eligian/ast"
	cerr "github.com/rolandzwaga/eligian/errors"
	"github.com/rolandzwaga/eligian/emit"
	"github.com/rolandzwaga/eligian/registry"
)

func stdRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(
		registry.Signature{Name: "selectElement", Parameters: []registry.Parameter{
			{Name: "selector", Type: "string", Required: true},
		}},
		registry.Signature{Name: "addClass", Parameters: []registry.Parameter{
			{Name: "selector", Type: "string", Required: true},
			{Name: "className", Type: "string", Required: true},
		}},
		registry.Signature{Name: "removeClass", Parameters: []registry.Parameter{
			{Name: "selector", Type: "string", Required: true},
			{Name: "className", Type: "string", Required: true},
		}},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

// showProgram models a small but representative presentation: an endable
// action invoked from a timed block, a second block with relative bounds,
// and a dead window the optimizer must drop.
func showProgram() *ast.Program {
	str := func(v string) *ast.StringLit { return &ast.StringLit{Value: v} }
	num := func(v float64) *ast.NumberLit { return &ast.NumberLit{Value: v} }
	return &ast.Program{Statements: []ast.Statement{
		&ast.ActionDecl{
			Name:    "highlight",
			Endable: true,
			Parameters: []ast.Parameter{
				{Name: "target"},
			},
			Body: []ast.Statement{
				&ast.CallStmt{Name: "addClass", Args: []ast.Expression{&ast.ParamRef{Name: "target"}, str("active")}},
			},
			EndBody: []ast.Statement{
				&ast.CallStmt{Name: "removeClass", Args: []ast.Expression{&ast.ParamRef{Name: "target"}, str("active")}},
			},
		},
		&ast.TimelineDecl{
			Name:     "main",
			Provider: ast.ProviderRAF,
			Selector: "#stage",
			Body: []ast.Statement{
				&ast.TimedBlock{
					Start: ast.TimeBound{Value: num(0)},
					End:   ast.TimeBound{Value: num(4)},
					Body: []ast.Statement{
						&ast.CallStmt{Name: "highlight", Args: []ast.Expression{str("#title")}},
					},
				},
				&ast.TimedBlock{
					Start: ast.TimeBound{Value: num(1), Relative: true},
					End:   ast.TimeBound{Value: num(3), Relative: true},
					Body: []ast.Statement{
						&ast.CallStmt{Name: "selectElement", Args: []ast.Expression{str("#subtitle")}},
					},
				},
				&ast.TimedBlock{
					Start: ast.TimeBound{Value: num(2)},
					End:   ast.TimeBound{Value: num(2)},
					Body: []ast.Statement{
						&ast.CallStmt{Name: "selectElement", Args: []ast.Expression{str("#never")}},
					},
				},
			},
		},
	}}
}

func TestCompile_EndToEnd(t *testing.T) {
	published, result, err := eligian.Compile(showProgram(),
		eligian.WithRegistry(stdRegistry(t)),
		eligian.WithSourceName("show.elg"),
	)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if published.Schema != emit.SchemaRef {
		t.Fatalf("schema = %q", published.Schema)
	}
	if published.Metadata != nil {
		t.Fatalf("published metadata must be stripped")
	}
	if result.IR.Metadata == nil || result.IR.Metadata.SourceName != "show.elg" {
		t.Fatalf("result metadata = %+v", result.IR.Metadata)
	}

	timeline := published.Timelines[0]
	if timeline.Selector != "#stage" {
		t.Fatalf("selector = %q", timeline.Selector)
	}
	// The dead 2..2 window is optimized away.
	if len(timeline.Actions) != 2 {
		t.Fatalf("%d timeline actions, want 2", len(timeline.Actions))
	}
	if d := timeline.Actions[1].Duration; d.Start != 5 || d.End != 7 {
		t.Fatalf("relative block = %+v, want 5..7", d)
	}

	// The endable action call mirrors its close into the end phase.
	first := timeline.Actions[0]
	if len(first.StartOperations) != 2 || first.StartOperations[0].SystemName != "requestAction" {
		t.Fatalf("start ops: %+v", first.StartOperations)
	}
	if len(first.EndOperations) != 2 || first.EndOperations[1].SystemName != "endAction" {
		t.Fatalf("end ops: %+v", first.EndOperations)
	}
}

func TestCompile_PublishedJSONShape(t *testing.T) {
	published, _, err := eligian.Compile(showProgram(), eligian.WithRegistry(stdRegistry(t)))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out, err := published.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"$schema", "id", "engine", "containerSelector", "language", "timelines"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("published document missing %q: %s", key, out)
		}
	}
	engine := decoded["engine"].(map[string]any)
	if engine["systemName"] != "EligiusEngine" {
		t.Fatalf("engine = %v", engine)
	}
	timelines := decoded["timelines"].([]any)
	tl := timelines[0].(map[string]any)
	if _, ok := tl["timelineActions"]; !ok {
		t.Fatalf("timeline missing timelineActions key: %s", out)
	}
}

func TestCompile_WithLibraries(t *testing.T) {
	lib := &ast.Program{Library: true, Statements: []ast.Statement{
		&ast.ActionDecl{Name: "reveal", Body: []ast.Statement{
			&ast.CallStmt{Name: "selectElement", Args: []ast.Expression{&ast.StringLit{Value: "#x"}}},
		}},
	}}
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.ImportDecl{Entries: []ast.ImportEntry{{Name: "reveal", Alias: "show"}}, From: "lib/base"},
		&ast.ActionDecl{Name: "intro", Body: []ast.Statement{
			&ast.CallStmt{Name: "show"},
		}},
	}}

	published, _, err := eligian.Compile(prog,
		eligian.WithRegistry(stdRegistry(t)),
		eligian.WithLibraries(map[string]*ast.Program{"lib/base": lib}),
	)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(published.Actions) != 2 {
		t.Fatalf("%d actions, want 2", len(published.Actions))
	}
	if published.Actions[0].Name != "show" {
		t.Fatalf("imported action name = %q", published.Actions[0].Name)
	}
	call := published.Actions[1].StartOperations[0]
	if v, _ := call.Data.Get("systemName"); v != "show" {
		t.Fatalf("requestAction targets %v", v)
	}
}

func TestCompile_ImportedEqualsLocal(t *testing.T) {
	body := func() []ast.Statement {
		return []ast.Statement{
			&ast.CallStmt{Name: "addClass", Args: []ast.Expression{
				&ast.StringLit{Value: "#title"}, &ast.StringLit{Value: "active"},
			}},
		}
	}
	timeline := func() ast.Statement {
		return &ast.TimelineDecl{Name: "main", Provider: ast.ProviderRAF, Body: []ast.Statement{
			&ast.TimedBlock{
				Start: ast.TimeBound{Value: &ast.NumberLit{Value: 0}},
				End:   ast.TimeBound{Value: &ast.NumberLit{Value: 2}},
				Body:  []ast.Statement{&ast.CallStmt{Name: "fadeIn"}},
			},
		}}
	}

	local := &ast.Program{Statements: []ast.Statement{
		&ast.ActionDecl{Name: "fadeIn", Body: body()},
		timeline(),
	}}
	imported := &ast.Program{Statements: []ast.Statement{
		&ast.ImportDecl{Entries: []ast.ImportEntry{{Name: "fadeIn"}}, From: "lib/fx"},
		timeline(),
	}}
	lib := map[string]*ast.Program{"lib/fx": {Library: true, Statements: []ast.Statement{
		&ast.ActionDecl{Name: "fadeIn", Body: body()},
	}}}

	fromLocal, _, err := eligian.Compile(local, eligian.WithRegistry(stdRegistry(t)))
	if err != nil {
		t.Fatalf("Compile local: %v", err)
	}
	fromImport, _, err := eligian.Compile(imported,
		eligian.WithRegistry(stdRegistry(t)), eligian.WithLibraries(lib))
	if err != nil {
		t.Fatalf("Compile imported: %v", err)
	}

	// Same structure, ids aside.
	if len(fromLocal.Actions) != len(fromImport.Actions) {
		t.Fatalf("action counts differ: %d vs %d", len(fromLocal.Actions), len(fromImport.Actions))
	}
	a, b := fromLocal.Actions[0], fromImport.Actions[0]
	if a.Name != b.Name || len(a.StartOperations) != len(b.StartOperations) {
		t.Fatalf("actions differ: %q/%d vs %q/%d", a.Name, len(a.StartOperations), b.Name, len(b.StartOperations))
	}
	for i := range a.StartOperations {
		if a.StartOperations[i].SystemName != b.StartOperations[i].SystemName {
			t.Fatalf("operation %d differs: %q vs %q", i, a.StartOperations[i].SystemName, b.StartOperations[i].SystemName)
		}
	}
	ta, tb := fromLocal.Timelines[0].Actions[0], fromImport.Timelines[0].Actions[0]
	if ta.Duration != tb.Duration || len(ta.StartOperations) != len(tb.StartOperations) {
		t.Fatalf("timeline actions differ")
	}
}

func TestCompile_ErrorCarriesStage(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.ActionDecl{Name: "a", Body: []ast.Statement{
			&ast.CallStmt{Name: "selectElemnt", Args: []ast.Expression{&ast.StringLit{Value: "#x"}}, Pos: ast.Position{Line: 7, Column: 3}},
		}},
	}}
	_, _, err := eligian.Compile(prog, eligian.WithRegistry(stdRegistry(t)))
	ce, ok := cerr.As(err)
	if !ok {
		t.Fatalf("err = %v, want compile error", err)
	}
	if ce.Code != cerr.ErrUnknownOperation {
		t.Fatalf("code = %s", ce.Code)
	}
	if ce.Stage != cerr.StageNames {
		t.Fatalf("stage = %s", ce.Stage)
	}
	if ce.Pos.Line != 7 {
		t.Fatalf("pos = %+v", ce.Pos)
	}
	if len(ce.Suggestions) == 0 || ce.Suggestions[0] != "selectElement" {
		t.Fatalf("suggestions = %v", ce.Suggestions)
	}
	if !strings.Contains(ce.Error(), "selectElemnt") {
		t.Fatalf("message should quote the unknown name: %v", ce)
	}
}

func TestCompile_OptionsFlowThrough(t *testing.T) {
	published, _, err := eligian.Compile(&ast.Program{},
		eligian.WithRegistry(stdRegistry(t)),
		eligian.WithContainerSelector("#app"),
		eligian.WithLanguage("de-DE"),
		eligian.WithLayoutTemplate("widescreen"),
	)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if published.ContainerSelector != "#app" || published.Language != "de-DE" || published.LayoutTemplate != "widescreen" {
		t.Fatalf("options lost: %+v", published.Document)
	}
}
