// Package resolve turns the raw document tree into a de-duplicated schema
// graph: every $ref lands on exactly one SchemaNode, composition keywords
// collapse into merged or composite nodes, and dialect differences in
// nullability and literal sets normalize away so downstream components
// never see the source dialect.
package resolve

import (
	"fmt"
	"strings"

	"github.com/autoocto/clientgen/internal/dialect"
	"github.com/autoocto/clientgen/internal/ir"
)

// Resolver builds the schema graph for one run. The graph doubles as the
// resolution cache: nodes are inserted before they are populated, so a ref
// cycle encountered mid-resolution hands back the same (still filling)
// instance instead of recursing.
type Resolver struct {
	doc      *ir.Document
	features dialect.Features
	graph    *ir.Graph
	warnings *ir.Warnings
}

// New builds a resolver for one document under one family's capabilities.
func New(doc *ir.Document, features dialect.Features, warnings *ir.Warnings) *Resolver {
	return &Resolver{
		doc:      doc,
		features: features,
		graph:    ir.NewGraph(),
		warnings: warnings,
	}
}

// Graph returns the graph built so far. Operation-side locations are added
// lazily through ResolveValue as the operation builder walks them.
func (r *Resolver) Graph() *ir.Graph {
	return r.graph
}

// Resolve walks every schema declared under the family's schema root, in
// declaration order, and returns the graph. A dangling $ref anywhere in the
// reachable tree is a hard failure.
func (r *Resolver) Resolve() (*ir.Graph, error) {
	root := r.features.SchemaRoot
	if _, ok := r.doc.Lookup(root); !ok {
		return r.graph, nil
	}

	for _, name := range r.doc.OrderedKeys(root) {
		ref := root + "/" + ir.EscapePointer(name)
		node, err := r.resolveRef(ref, root)
		if err != nil {
			return nil, err
		}
		node.Name = name
		r.graph.Named = append(r.graph.Named, node)
	}
	return r.graph, nil
}

// ResolveValue resolves a schema value found at a document pointer: either
// a $ref, an inline schema object, or a boolean schema (2020-12). Resolving
// the same pointer twice returns the identical node.
func (r *Resolver) ResolveValue(raw any, pointer string) (*ir.SchemaNode, error) {
	if existing := r.graph.At(pointer); existing != nil {
		return existing, nil
	}

	switch v := raw.(type) {
	case bool:
		// 2020-12 boolean schemas: true admits anything, false is only
		// meaningful for validation, which is not this core's concern.
		return r.graph.Put(pointer, &ir.SchemaNode{Kind: ir.KindAny}), nil
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			node, err := r.resolveRef(ref, pointer)
			if err != nil {
				return nil, err
			}
			return r.graph.Put(pointer, node), nil
		}
		node := r.graph.Put(pointer, &ir.SchemaNode{})
		if err := r.populate(node, v, pointer); err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, &StructureError{Path: pointer, Message: fmt.Sprintf("expected a schema object, got %T", raw)}
	}
}

// ResolveAt resolves the schema stored at a document pointer.
func (r *Resolver) ResolveAt(pointer string) (*ir.SchemaNode, error) {
	raw, ok := r.doc.Lookup(pointer)
	if !ok {
		return nil, &StructureError{Path: pointer, Message: "no value at pointer"}
	}
	return r.ResolveValue(raw, pointer)
}

// resolveRef resolves a $ref to its single SchemaNode. The node enters the
// graph before population, so cyclic references terminate by returning the
// same instance as an indirect reference.
func (r *Resolver) resolveRef(ref, from string) (*ir.SchemaNode, error) {
	if !strings.HasPrefix(ref, "#") {
		// In-document references only; file and URL targets are a loader
		// concern this core does not take on.
		return nil, &RefError{Ref: ref, Path: from}
	}

	if existing := r.graph.At(ref); existing != nil {
		return existing, nil
	}

	raw, ok := r.doc.Lookup(ref)
	if !ok {
		return nil, &RefError{Ref: ref, Path: from}
	}
	m, ok := raw.(map[string]any)
	if !ok {
		if b, isBool := raw.(bool); isBool && b {
			return r.graph.Put(ref, &ir.SchemaNode{Kind: ir.KindAny, Ref: ref}), nil
		}
		return nil, &StructureError{Path: ref, Message: fmt.Sprintf("$ref target is %T, not an object", raw)}
	}

	if nested, ok := m["$ref"].(string); ok {
		target, err := r.resolveRef(nested, ref)
		if err != nil {
			return nil, err
		}
		return r.graph.Put(ref, target), nil
	}

	node := r.graph.Put(ref, &ir.SchemaNode{Ref: ref, Name: lastSegment(ref)})
	if err := r.populate(node, m, ref); err != nil {
		return nil, err
	}
	return node, nil
}

// populate fills a node from its raw schema object. pointer is the node's
// canonical location, used for child pointers and warning paths.
func (r *Resolver) populate(node *ir.SchemaNode, m map[string]any, pointer string) error {
	node.Description, _ = m["description"].(string)
	node.Format, _ = m["format"].(string)
	r.normalizeType(node, m)
	r.normalizeLiterals(node, m)

	if err := r.resolveComposition(node, m, pointer); err != nil {
		return err
	}
	if node.Compose == ir.ComposeOneOf || node.Compose == ir.ComposeAnyOf {
		node.Kind = ir.KindComposite
		node.Discriminator = r.parseDiscriminator(m)
		return nil
	}

	if props, ok := m["properties"].(map[string]any); ok {
		// Sibling properties next to an allOf merge into the same set as the
		// branch fields, under the same first-declaration-wins policy.
		seen := make(map[string]*ir.SchemaNode, len(node.Properties))
		for _, prop := range node.Properties {
			seen[prop.Name] = prop.Schema
		}
		for _, name := range r.doc.OrderedKeys(pointer + "/properties") {
			raw, ok := props[name]
			if !ok {
				continue
			}
			child, err := r.ResolveValue(raw, pointer+"/properties/"+ir.EscapePointer(name))
			if err != nil {
				return err
			}
			r.mergeProperty(node, seen, name, child, pointer)
		}
	}

	if req, ok := m["required"].([]any); ok {
		if node.Required == nil {
			node.Required = make(map[string]bool, len(req))
		}
		for _, v := range req {
			if s, ok := v.(string); ok {
				node.Required[s] = true
			}
		}
	}

	if items, ok := m["items"]; ok {
		child, err := r.ResolveValue(items, pointer+"/items")
		if err != nil {
			return err
		}
		node.Items = child
	}

	switch ap := m["additionalProperties"].(type) {
	case map[string]any:
		child, err := r.ResolveValue(ap, pointer+"/additionalProperties")
		if err != nil {
			return err
		}
		node.AdditionalProperties = child
	case bool:
		if ap {
			node.AdditionalProperties = &ir.SchemaNode{Kind: ir.KindAny}
		}
	}

	node.Kind = classify(node, m)
	if node.Kind == ir.KindObject && node.Discriminator == nil {
		node.Discriminator = r.parseDiscriminator(m)
	}
	return nil
}

// normalizeType reconciles the dialect's type encoding into a single type
// string plus the internal nullability flag. 2020-12 type arrays fold their
// "null" entry into Nullable; older dialects read the family's nullable
// keyword instead.
func (r *Resolver) normalizeType(node *ir.SchemaNode, m map[string]any) {
	switch t := m["type"].(type) {
	case string:
		node.Type = t
	case []any:
		if r.features.TypeArrays {
			for _, entry := range t {
				s, ok := entry.(string)
				if !ok {
					continue
				}
				if s == "null" {
					node.Nullable = true
				} else if node.Type == "" {
					node.Type = s
				}
			}
		} else if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				node.Type = s
			}
		}
	}

	if key := r.features.NullableKey; key != "" {
		if b, ok := m[key].(bool); ok && b {
			node.Nullable = true
		}
	}
}

// normalizeLiterals folds enum and (where the dialect supports it) const
// into one literal set.
func (r *Resolver) normalizeLiterals(node *ir.SchemaNode, m map[string]any) {
	if values, ok := m["enum"].([]any); ok {
		node.Enum = values
	}
	if !r.features.SupportsConst {
		return
	}
	if c, ok := m["const"]; ok && len(node.Enum) == 0 {
		node.Enum = []any{c}
	}
}

// resolveComposition handles allOf/oneOf/anyOf. allOf merges in place;
// the others collect ordered branch nodes for a composite.
func (r *Resolver) resolveComposition(node *ir.SchemaNode, m map[string]any, pointer string) error {
	if branches, ok := m["allOf"].([]any); ok {
		return r.mergeAllOf(node, branches, pointer)
	}

	keyword := "oneOf"
	branches, ok := m["oneOf"].([]any)
	if !ok {
		keyword = "anyOf"
		branches, ok = m["anyOf"].([]any)
	}
	if !ok {
		return nil
	}

	if keyword == "oneOf" {
		node.Compose = ir.ComposeOneOf
	} else {
		node.Compose = ir.ComposeAnyOf
	}
	for i, raw := range branches {
		branch, err := r.ResolveValue(raw, fmt.Sprintf("%s/%s/%d", pointer, keyword, i))
		if err != nil {
			return err
		}
		node.Branches = append(node.Branches, branch)
	}
	return nil
}

// mergeAllOf merges all branches field by field into the node. Required
// sets union across branches. A field redeclared with an incompatible type
// keeps the first branch's declaration and records a conflict warning.
func (r *Resolver) mergeAllOf(node *ir.SchemaNode, branches []any, pointer string) error {
	node.Compose = ir.ComposeAllOf
	node.Kind = ir.KindObject
	node.Required = make(map[string]bool)
	seen := make(map[string]*ir.SchemaNode)

	merge := func(branch *ir.SchemaNode) {
		for _, prop := range branch.Properties {
			r.mergeProperty(node, seen, prop.Name, prop.Schema, pointer)
		}
		for name := range branch.Required {
			node.Required[name] = true
		}
		if node.Description == "" {
			node.Description = branch.Description
		}
		if node.Discriminator == nil {
			node.Discriminator = branch.Discriminator
		}
	}

	for i, raw := range branches {
		branch, err := r.ResolveValue(raw, fmt.Sprintf("%s/allOf/%d", pointer, i))
		if err != nil {
			return err
		}
		node.Branches = append(node.Branches, branch)
		merge(branch)
	}
	return nil
}

// mergeProperty adds one property to a node unless the name is already
// bound. The first declaration wins; a duplicate that disagrees on type
// records a CompositionConflict warning.
func (r *Resolver) mergeProperty(node *ir.SchemaNode, seen map[string]*ir.SchemaNode, name string, schema *ir.SchemaNode, pointer string) {
	if first, dup := seen[name]; dup {
		if typeSignature(first) != typeSignature(schema) {
			r.warnings.Add(ir.WarnCompositionConflict, pointer,
				"field %q declared as both %s and %s; keeping the first",
				name, typeSignature(first), typeSignature(schema))
		}
		return
	}
	seen[name] = schema
	node.Properties = append(node.Properties, ir.Property{Name: name, Schema: schema})
}

func (r *Resolver) parseDiscriminator(m map[string]any) *ir.Discriminator {
	switch d := m["discriminator"].(type) {
	case string:
		if r.features.StringDiscriminator && d != "" {
			return &ir.Discriminator{PropertyName: d}
		}
	case map[string]any:
		name, _ := d["propertyName"].(string)
		if name == "" {
			return nil
		}
		disc := &ir.Discriminator{PropertyName: name}
		if mapping, ok := d["mapping"].(map[string]any); ok {
			disc.Mapping = make(map[string]string, len(mapping))
			for k, v := range mapping {
				if s, ok := v.(string); ok {
					disc.Mapping[k] = s
				}
			}
		}
		return disc
	}
	return nil
}

// classify picks the node kind after members are resolved. Objects are
// anything with properties or additionalProperties even without an explicit
// type, matching how real-world documents omit it.
func classify(node *ir.SchemaNode, m map[string]any) ir.SchemaKind {
	if node.Compose == ir.ComposeAllOf {
		return ir.KindObject
	}
	switch node.Type {
	case "array":
		return ir.KindArray
	case "object":
		return ir.KindObject
	case "string", "integer", "number", "boolean", "file":
		return ir.KindPrimitive
	}
	if len(node.Properties) > 0 || node.AdditionalProperties != nil {
		return ir.KindObject
	}
	if _, ok := m["items"]; ok {
		return ir.KindArray
	}
	return ir.KindAny
}

// typeSignature is a shallow comparable form used for allOf conflict
// detection: two declarations agree when their resolved type shape does.
func typeSignature(n *ir.SchemaNode) string {
	if n == nil {
		return "any"
	}
	if n.Ref != "" {
		return n.Ref
	}
	sig := n.Type
	if sig == "" {
		switch n.Kind {
		case ir.KindObject:
			sig = "object"
		case ir.KindArray:
			sig = "array"
		default:
			sig = "any"
		}
	}
	if n.Format != "" {
		sig += "/" + n.Format
	}
	if n.Kind == ir.KindArray && n.Items != nil {
		sig += "[" + typeSignature(n.Items) + "]"
	}
	return sig
}

func lastSegment(ref string) string {
	parts := strings.Split(ref, "/")
	if len(parts) == 0 {
		return ref
	}
	return parts[len(parts)-1]
}
