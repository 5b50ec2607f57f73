package build

import (
	"fmt"
	"sort"
	"strings"

	"github.com/autoocto/clientgen/internal/ir"
)

// ModelBuilder turns schema graph nodes into named model definitions.
// Named schemas keep their declared names; anonymous inline schemas get
// hint-derived names and structurally identical ones collapse into a
// single shared model.
type ModelBuilder struct {
	mapper   *TypeMapper
	warnings *ir.Warnings

	models    []*ir.Model
	byName    map[string]*ir.Model
	nodeNames map[*ir.SchemaNode]string
	sigNames  map[string]string
}

// NewModelBuilder builds a model builder and wires itself into the mapper
// as its model namer.
func NewModelBuilder(mapper *TypeMapper, warnings *ir.Warnings) *ModelBuilder {
	b := &ModelBuilder{
		mapper:    mapper,
		warnings:  warnings,
		byName:    make(map[string]*ir.Model),
		nodeNames: make(map[*ir.SchemaNode]string),
		sigNames:  make(map[string]string),
	}
	mapper.SetModelNamer(b.ModelFor)
	return b
}

// Build materializes a model for every named node in the graph, in
// declaration order. Anonymous operation-side schemas join the set later
// through the mapper callback.
func (b *ModelBuilder) Build(graph *ir.Graph) {
	for _, node := range graph.Named {
		b.ModelFor(node, node.Name)
	}
}

// Models returns every model built so far, names unique across the run.
func (b *ModelBuilder) Models() []ir.Model {
	out := make([]ir.Model, len(b.models))
	for i, m := range b.models {
		out[i] = *m
	}
	return out
}

// Model returns a built model by name, nil when absent.
func (b *ModelBuilder) Model(name string) *ir.Model {
	return b.byName[name]
}

// ModelFor ensures a model exists for the node and returns its name. It
// reports false for nodes that map to plain descriptors instead of models.
// Calling it twice for the same node, or for two structurally identical
// anonymous nodes, yields the same model.
func (b *ModelBuilder) ModelFor(node *ir.SchemaNode, hint string) (string, bool) {
	if !modelWorthy(node) {
		return "", false
	}
	if name, ok := b.nodeNames[node]; ok {
		return name, true
	}

	// Anonymous schemas deduplicate on structural shape, not location.
	var sig string
	if node.Name == "" {
		sig = signature(node)
		if name, ok := b.sigNames[sig]; ok {
			b.nodeNames[node] = name
			return name, true
		}
	}

	desired := node.Name
	if desired == "" {
		desired = hint
	}
	name := b.unique(ModelName(desired))

	// Register the name before building members so a cyclic reference back
	// into this node resolves to the model being built.
	b.nodeNames[node] = name
	if sig != "" {
		b.sigNames[sig] = name
	}
	model := &ir.Model{Name: name, Description: node.Description}
	b.byName[name] = model
	b.models = append(b.models, model)

	switch {
	case node.IsEnum():
		model.Kind = ir.ModelEnum
		model.Values = node.Enum
	case node.Kind == ir.KindComposite:
		b.buildUnion(model, node)
	default:
		b.buildStruct(model, node)
	}
	return name, true
}

func (b *ModelBuilder) buildStruct(model *ir.Model, node *ir.SchemaNode) {
	model.Kind = ir.ModelStruct
	for _, prop := range node.Properties {
		model.Fields = append(model.Fields, ir.Field{
			Name:     PascalCase(prop.Name),
			JSONName: prop.Name,
			Type:     b.mapper.Map(prop.Schema, model.Name+PascalCase(prop.Name)),
			Required: node.Required[prop.Name],
		})
	}
}

func (b *ModelBuilder) buildUnion(model *ir.Model, node *ir.SchemaNode) {
	model.Kind = ir.ModelUnion
	model.Discriminator = node.Discriminator

	for i, branch := range node.Branches {
		desc := b.mapper.Map(branch, fmt.Sprintf("%sVariant%d", model.Name, i+1))

		variant := ir.Variant{Type: desc}
		if desc.Kind == ir.TypeNamed {
			variant.Name = desc.Name
		} else {
			variant.Name = fmt.Sprintf("Variant%d", i+1)
		}
		variant.Required = sortedKeys(branch.Required)

		if node.Discriminator != nil {
			for value, target := range node.Discriminator.Mapping {
				if target == branch.Ref || lastRefSegment(target) == branch.Name {
					variant.DiscValue = value
					break
				}
			}
		}
		model.Variants = append(model.Variants, variant)
	}
}

// modelWorthy: composites, enums and objects with fixed properties become
// models; everything else stays a plain descriptor.
func modelWorthy(node *ir.SchemaNode) bool {
	if node == nil {
		return false
	}
	if node.IsEnum() || node.Kind == ir.KindComposite {
		return true
	}
	return node.Kind == ir.KindObject && len(node.Properties) > 0
}

// unique suffixes a numeral when a name is already taken, keeping model
// names unique within the run.
func (b *ModelBuilder) unique(name string) string {
	if _, taken := b.byName[name]; !taken {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s%d", name, i)
		if _, taken := b.byName[candidate]; !taken {
			return candidate
		}
	}
}

// signature is the normalized structural form used to deduplicate
// anonymous schemas: field names, shallow types and the required set.
// Source location never participates.
func signature(node *ir.SchemaNode) string {
	if node == nil {
		return "any"
	}
	if node.Ref != "" {
		return node.Ref
	}

	var sb strings.Builder
	switch {
	case node.IsEnum():
		sb.WriteString("enum(")
		sb.WriteString(node.Type)
		sb.WriteString(")[")
		values := make([]string, len(node.Enum))
		for i, v := range node.Enum {
			values[i] = fmt.Sprintf("%v", v)
		}
		sort.Strings(values)
		sb.WriteString(strings.Join(values, ","))
		sb.WriteString("]")
	case node.Kind == ir.KindComposite:
		sb.WriteString(node.Compose.String())
		sb.WriteString("[")
		for i, branch := range node.Branches {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(signature(branch))
		}
		sb.WriteString("]")
	case node.Kind == ir.KindObject:
		sb.WriteString("object{")
		fields := make([]string, 0, len(node.Properties))
		for _, prop := range node.Properties {
			req := ""
			if node.Required[prop.Name] {
				req = "!"
			}
			fields = append(fields, prop.Name+req+":"+signature(prop.Schema))
		}
		sort.Strings(fields)
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteString("}")
	case node.Kind == ir.KindArray:
		sb.WriteString("array[")
		sb.WriteString(signature(node.Items))
		sb.WriteString("]")
	default:
		sb.WriteString(node.Type)
		if node.Format != "" {
			sb.WriteString("/")
			sb.WriteString(node.Format)
		}
	}
	if node.Nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lastRefSegment(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}
