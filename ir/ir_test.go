package ir_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/rolandzwaga/eligian/ir"
)

func TestOperationData_OrderPreserved(t *testing.T) {
	data := ir.NewOperationData()
	data.Set("selector", ".intro")
	data.Set("className", "active")
	data.Set("duration", 2.0)

	keys := data.Keys()
	want := []string{"selector", "className", "duration"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("Keys()[%d] = %q, want %q", i, keys[i], k)
		}
	}

	out, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(out)
	if got != `{"selector":".intro","className":"active","duration":2}` {
		t.Fatalf("Marshal = %s", got)
	}
}

func TestOperationData_RebindKeepsPosition(t *testing.T) {
	data := ir.NewOperationData()
	data.Set("a", 1.0)
	data.Set("b", 2.0)
	data.Set("a", 3.0)
	if got := data.Keys(); len(got) != 2 || got[0] != "a" {
		t.Fatalf("Keys() = %v", got)
	}
	v, _ := data.Get("a")
	if v != 3.0 {
		t.Fatalf("Get(a) = %v", v)
	}
}

func TestOperationData_NestedMarshal(t *testing.T) {
	nested := ir.NewOperationData()
	nested.Set("opacity", 1.0)
	data := ir.NewOperationData()
	data.Set("animationProperties", nested)
	data.Set("items", []any{"a", "b"})

	out, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"animationProperties":{"opacity":1},"items":["a","b"]}` {
		t.Fatalf("Marshal = %s", out)
	}
}

func TestOperationData_CloneIsIndependent(t *testing.T) {
	nested := ir.NewOperationData()
	nested.Set("opacity", 0.0)
	data := ir.NewOperationData()
	data.Set("props", nested)

	clone := data.Clone()
	nested.Set("opacity", 1.0)

	cloned, _ := clone.Get("props")
	v, _ := cloned.(*ir.OperationData).Get("opacity")
	if v != 0.0 {
		t.Fatalf("clone observed mutation of original: %v", v)
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := ir.NewID()
		if id == "" || seen[id] {
			t.Fatalf("duplicate or empty id %q", id)
		}
		seen[id] = true
	}
}

func TestSourceMap_AddAndLookup(t *testing.T) {
	m := ir.NewSourceMap()
	m.Add("node-1", ir.Location{Line: 3, Column: 7, Length: 12})
	m.Add("node-2", ir.Location{})

	loc, ok := m.Lookup("node-1")
	if !ok || loc.Line != 3 || loc.Column != 7 || loc.Length != 12 {
		t.Fatalf("Lookup(node-1) = %+v, %v", loc, ok)
	}
	if _, ok := m.Lookup("node-2"); ok {
		t.Fatalf("zero location should not be recorded")
	}
}

func TestDocument_CloneSharesNothing(t *testing.T) {
	data := ir.NewOperationData()
	data.Set("className", "x")
	doc := &ir.Document{
		ID:       "doc",
		Engine:   ir.Engine{SystemName: "EligiusEngine"},
		Actions:  []ir.Action{{ID: "a1", Name: "fadeIn", StartOperations: []ir.Operation{{ID: "op1", SystemName: "addClass", Data: data}}}},
		Metadata: &ir.Metadata{Compiler: "eligian"},
		Timelines: []ir.Timeline{{
			ID:       "t1",
			Type:     ir.TimelineAnimation,
			Selector: "#stage",
			Actions: []ir.TimelineAction{{
				ID:              "ta1",
				Duration:        ir.Duration{Start: 0, End: 3},
				StartOperations: []ir.Operation{{ID: "op2", SystemName: "selectElement", Data: ir.NewOperationData()}},
			}},
		}},
	}

	clone := doc.Clone()

	// Mutating the original must not show through the clone.
	doc.Actions[0].Name = "changed"
	data.Set("className", "y")
	doc.Timelines[0].Actions[0].Duration.End = 99
	doc.Metadata.Compiler = "other"

	if clone.Actions[0].Name != "fadeIn" {
		t.Fatalf("clone action mutated")
	}
	v, _ := clone.Actions[0].StartOperations[0].Data.Get("className")
	if v != "x" {
		t.Fatalf("clone operation data mutated: %v", v)
	}
	if clone.Timelines[0].Actions[0].Duration.End != 3 {
		t.Fatalf("clone duration mutated")
	}
	if clone.Metadata.Compiler != "eligian" {
		t.Fatalf("clone metadata mutated")
	}
}

func TestDocument_MarshalFieldNames(t *testing.T) {
	doc := &ir.Document{
		ID:                "d1",
		Engine:            ir.Engine{SystemName: "EligiusEngine"},
		ContainerSelector: "[data-ct-container=true]",
		Language:          "en-US",
	}
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, field := range []string{`"engine"`, `"containerSelector"`, `"language"`, `"systemName"`} {
		if !strings.Contains(string(out), field) {
			t.Fatalf("marshaled document missing %s: %s", field, out)
		}
	}
}
