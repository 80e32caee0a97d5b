// Package emit projects an optimized document into its publishable form:
// compiler bookkeeping is stripped and the configuration schema marker is
// added. The projection is total; it never fails on a checked document.
package emit

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/rolandzwaga/eligian/ir"
)

// SchemaRef is the fixed schema marker stamped on every published document.
const SchemaRef = "https://rolandzwaga.github.io/eligius/jsonschema/v1.1.0/eligius-configuration.json"

// Document is the published configuration: the compiled document plus the
// schema marker, minus compile metadata.
type Document struct {
	Schema string `json:"$schema"`
	ir.Document
}

// Run projects the compiled document. The input is copied, never aliased,
// so emitting cannot disturb the IR handed to diagnostics consumers.
func Run(doc *ir.Document) *Document {
	published := doc.Clone()
	published.Metadata = nil
	return &Document{
		Schema:   SchemaRef,
		Document: *published,
	}
}

// Marshal encodes the published document as compact JSON.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// MarshalIndent encodes the published document as indented JSON.
func (d *Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Encode writes the published document to w, pretty-printed when indent is
// set.
func (d *Document) Encode(w io.Writer, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(d)
}
