package ir

import (
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Family identifies one of the supported specification dialects.
type Family string

const (
	FamilySwagger2  Family = "swagger2"
	FamilyOpenAPI3  Family = "openapi3"
	FamilyOpenAPI31 Family = "openapi31"
	FamilyOpenAPI32 Family = "openapi32"
)

// Document is an already-parsed spec document. The raw tree is used for
// JSON-pointer lookups; the retained yaml node preserves declaration order
// for paths, methods and properties. Immutable after load.
type Document struct {
	Root map[string]any

	// Swagger holds the "swagger" version string ("2.0"), OpenAPI the
	// "openapi" one ("3.x.y"). At most one is non-empty.
	Swagger string
	OpenAPI string

	node *yaml.Node
}

// NewDocument wraps a decoded document tree. The node may be nil, in which
// case ordered iteration falls back to sorted keys.
func NewDocument(root map[string]any, node *yaml.Node) *Document {
	doc := &Document{Root: root, node: node}
	if v, ok := root["swagger"].(string); ok {
		doc.Swagger = v
	}
	if v, ok := root["openapi"].(string); ok {
		doc.OpenAPI = v
	}
	return doc
}

// Version returns the declared version string, or "" when absent.
func (d *Document) Version() string {
	if d.Swagger != "" {
		return d.Swagger
	}
	return d.OpenAPI
}

// Lookup resolves a JSON pointer ("#/components/schemas/Pet") against the
// raw tree. Returns false when any segment is missing.
func (d *Document) Lookup(pointer string) (any, bool) {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" || pointer == "/" {
		return d.Root, true
	}

	current := any(d.Root)
	for _, part := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		part = unescapePointer(part)
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			current = v[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// OrderedKeys returns the mapping keys at a JSON pointer in declaration
// order. When the yaml node is unavailable the keys come from the raw tree
// in sorted order, so iteration stays deterministic either way.
func (d *Document) OrderedKeys(pointer string) []string {
	if node := d.nodeAt(pointer); node != nil && node.Kind == yaml.MappingNode {
		keys := make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keys = append(keys, node.Content[i].Value)
		}
		return keys
	}

	raw, ok := d.Lookup(pointer)
	if !ok {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Document) nodeAt(pointer string) *yaml.Node {
	node := d.node
	if node == nil {
		return nil
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" || pointer == "/" {
		return node
	}

	for _, part := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		part = unescapePointer(part)
		switch node.Kind {
		case yaml.MappingNode:
			var next *yaml.Node
			for i := 0; i+1 < len(node.Content); i += 2 {
				if node.Content[i].Value == part {
					next = node.Content[i+1]
					break
				}
			}
			if next == nil {
				return nil
			}
			node = next
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node.Content) {
				return nil
			}
			node = node.Content[idx]
		default:
			return nil
		}
	}
	return node
}

// EscapePointer escapes a single JSON pointer token per RFC 6901.
func EscapePointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

func unescapePointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}
