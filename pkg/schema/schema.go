// Package schema defines the Go struct types for the pipeline YAML document
// and provides strict YAML parsing.
package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Pipeline is the top-level document describing an ordered command pipeline.
type Pipeline struct {
	Name     string            `yaml:"name"               json:"name"               jsonschema:"required"`
	Systems  map[string]string `yaml:"systems,omitempty"  json:"systems,omitempty"  jsonschema:"description=Symbolic host name to address mapping for remote steps"`
	Vars     map[string]string `yaml:"vars,omitempty"     json:"vars,omitempty"     jsonschema:"description=Initial variable values for placeholder resolution"`
	Imports  []string          `yaml:"imports,omitempty"  json:"imports,omitempty"  jsonschema:"description=Scripts sourced before every local and remote command"`
	Pipeline []Entry           `yaml:"pipeline"           json:"pipeline"           jsonschema:"required"`
}

// Entry is one pipeline list element: a mapping with exactly one significant
// key/value pair. Additional pairs in the same mapping are ignored.
type Entry struct {
	Key   string `json:"key"   jsonschema:"required"`
	Value string `json:"value"`
}

// UnmarshalYAML decodes a pipeline entry from its single-key mapping form.
//
// An unquoted value consisting of nothing but a placeholder (`local: {ver}`)
// is parsed by the YAML library as a nested mapping with one null-valued key.
// That form is collapsed back into the single-placeholder template "{ver}"
// here, at the loading boundary, so the rest of the system only ever sees a
// template string.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) < 2 {
		return fmt.Errorf("line %d: pipeline entry must be a single-key mapping", node.Line)
	}
	e.Key = node.Content[0].Value

	val := node.Content[1]
	switch val.Kind {
	case yaml.MappingNode:
		if len(val.Content) == 0 {
			return fmt.Errorf("line %d: pipeline entry %q has an empty mapping value", val.Line, e.Key)
		}
		e.Value = "{" + val.Content[0].Value + "}"
	case yaml.ScalarNode:
		e.Value = val.Value
	default:
		return fmt.Errorf("line %d: pipeline entry %q value must be a string", val.Line, e.Key)
	}
	return nil
}

// MarshalYAML renders the entry back into its single-key mapping form.
func (e Entry) MarshalYAML() (interface{}, error) {
	return map[string]string{e.Key: e.Value}, nil
}

// Load decodes a pipeline document from a reader with strict field checking.
func Load(r io.Reader) (*Pipeline, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Pipeline
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}
	if len(p.Pipeline) == 0 {
		return nil, fmt.Errorf("pipeline has no steps")
	}
	return &p, nil
}

// LoadFile reads and strictly decodes a pipeline YAML file.
func LoadFile(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pipeline file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
