// Package level reads level documents and level metadata.
//
// A document is a YAML file whose top level is a mapping with exactly one
// key, the root tag, e.g.
//
//	supertux-level:
//	  name: Welcome to Antarctica
//	  sectors:
//	    - name: main
package level

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyDocument     = errors.New("document is empty")
	ErrMalformedDocument = errors.New("document root must be a mapping with exactly one key")
	ErrNotMapping        = errors.New("node is not a mapping")
)

// Document is a parsed structured document.
type Document struct {
	filename string
	root     Node
}

// Node is a named element of a document.
type Node struct {
	name  string
	value *yaml.Node
}

// Mapping is a key/value view of a node.
type Mapping struct {
	node *yaml.Node
}

// ParseDocument reads and parses the document at path.
func ParseDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := ParseDocumentBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.filename = path
	return doc, nil
}

// ParseDocumentBytes parses an in-memory document.
func ParseDocumentBytes(data []byte) (*Document, error) {
	var file yaml.Node
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if file.Kind != yaml.DocumentNode || len(file.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	top := file.Content[0]
	if top.Kind != yaml.MappingNode || len(top.Content) != 2 {
		return nil, ErrMalformedDocument
	}

	return &Document{
		root: Node{name: top.Content[0].Value, value: top.Content[1]},
	}, nil
}

// Filename returns the path the document was read from, if any.
func (d *Document) Filename() string { return d.filename }

// Root returns the document's root node.
func (d *Document) Root() Node { return d.root }

// Name returns the node's tag.
func (n Node) Name() string { return n.name }

// Mapping returns the node's body as a mapping. A node with an empty body
// is an empty mapping.
func (n Node) Mapping() (Mapping, error) {
	if n.value == nil || (n.value.Kind == yaml.ScalarNode && n.value.Tag == "!!null") {
		return Mapping{node: &yaml.Node{Kind: yaml.MappingNode}}, nil
	}
	if n.value.Kind != yaml.MappingNode {
		return Mapping{}, fmt.Errorf("%s: %w", n.name, ErrNotMapping)
	}
	return Mapping{node: n.value}, nil
}

func (m Mapping) lookup(key string) *yaml.Node {
	if m.node == nil {
		return nil
	}
	for i := 0; i+1 < len(m.node.Content); i += 2 {
		if m.node.Content[i].Value == key {
			return m.node.Content[i+1]
		}
	}
	return nil
}

// Keys returns the mapping's keys in document order.
func (m Mapping) Keys() []string {
	if m.node == nil {
		return nil
	}
	keys := make([]string, 0, len(m.node.Content)/2)
	for i := 0; i+1 < len(m.node.Content); i += 2 {
		keys = append(keys, m.node.Content[i].Value)
	}
	return keys
}

// GetString reads a scalar value. ok is false when the key is missing or
// not a scalar; out is left untouched in that case.
func (m Mapping) GetString(key string, out *string) bool {
	v := m.lookup(key)
	if v == nil || v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
		return false
	}
	*out = v.Value
	return true
}

// GetInt reads an integer value.
func (m Mapping) GetInt(key string, out *int) bool {
	v := m.lookup(key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return false
	}
	var i int
	if err := v.Decode(&i); err != nil {
		return false
	}
	*out = i
	return true
}

// GetBool reads a boolean value.
func (m Mapping) GetBool(key string, out *bool) bool {
	v := m.lookup(key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return false
	}
	var b bool
	if err := v.Decode(&b); err != nil {
		return false
	}
	*out = b
	return true
}

// GetMapping reads a nested mapping.
func (m Mapping) GetMapping(key string) (Mapping, bool) {
	v := m.lookup(key)
	if v == nil || v.Kind != yaml.MappingNode {
		return Mapping{}, false
	}
	return Mapping{node: v}, true
}

// GetMappings reads a sequence of mappings. Non-mapping items are skipped.
func (m Mapping) GetMappings(key string) []Mapping {
	v := m.lookup(key)
	if v == nil || v.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]Mapping, 0, len(v.Content))
	for _, item := range v.Content {
		if item.Kind == yaml.MappingNode {
			out = append(out, Mapping{node: item})
		}
	}
	return out
}

// Decode decodes the whole mapping into v.
func (m Mapping) Decode(v any) error {
	if m.node == nil {
		return ErrNotMapping
	}
	return m.node.Decode(v)
}
