package ir

// Location points a generated node back at the source text it was lowered
// from.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Length int `json:"length"`
}

// SourceMap maps node id to source location. It exists for diagnostics only:
// the optimizer and emitter never consult it.
type SourceMap map[string]Location

// NewSourceMap returns an empty source map.
func NewSourceMap() SourceMap {
	return make(SourceMap)
}

// Add records the location for a node id. Zero locations are skipped so
// synthesized nodes stay absent from the map.
func (m SourceMap) Add(id string, loc Location) {
	if loc.Line == 0 && loc.Column == 0 && loc.Length == 0 {
		return
	}
	m[id] = loc
}

// Lookup returns the recorded location for a node id.
func (m SourceMap) Lookup(id string) (Location, bool) {
	loc, ok := m[id]
	return loc, ok
}
