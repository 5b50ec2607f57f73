// Package loader reads and decodes spec files into raw documents. It is a
// collaborator of the generation core: the core itself never touches the
// file system.
package loader

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/autoocto/clientgen/internal/ir"
)

// LoadFile reads a spec file (YAML or JSON) into a Document.
func LoadFile(path string) (*ir.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes spec bytes into a Document. The YAML decoder accepts JSON
// input as well. The yaml node is retained alongside the raw tree so the
// core can iterate paths and properties in declaration order.
func Parse(data []byte) (*ir.Document, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("document is empty")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		// The tree decoded; losing the node only costs declaration order.
		return ir.NewDocument(root, nil), nil
	}
	return ir.NewDocument(root, &node), nil
}
