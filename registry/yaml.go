package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlTable is the wire shape of a registry document.
type yamlTable struct {
	Operations []Signature `yaml:"operations"`
}

// FromYAML loads a registry from a YAML document of the form:
//
//	operations:
//	  - name: addClass
//	    parameters:
//	      - name: className
//	        type: string
//	        required: true
func FromYAML(data []byte) (*Registry, error) {
	var table yamlTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("registry: decode yaml: %w", err)
	}
	if len(table.Operations) == 0 {
		return nil, fmt.Errorf("registry: yaml document defines no operations")
	}
	return New(table.Operations...)
}

// FromYAMLReader reads a full YAML document from r and loads it.
func FromYAMLReader(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("registry: read yaml: %w", err)
	}
	return FromYAML(data)
}

// FromYAMLFile loads a registry table from a file path.
func FromYAMLFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	return FromYAML(data)
}
