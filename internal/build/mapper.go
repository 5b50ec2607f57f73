package build

import (
	"github.com/autoocto/clientgen/internal/ir"
)

// TypeTable maps "type/format" pairs to language-agnostic primitives. The
// bare-type default lives under "type/".
type TypeTable map[string]ir.Primitive

// DefaultTypeTable covers the formats the supported dialects define.
var DefaultTypeTable = TypeTable{
	"string/":          ir.PrimString,
	"string/date":      ir.PrimTimestamp,
	"string/date-time": ir.PrimTimestamp,
	"string/byte":      ir.PrimBytes,
	"string/binary":    ir.PrimBytes,
	"string/uuid":      ir.PrimString,
	"string/uri":       ir.PrimString,
	"string/email":     ir.PrimString,
	"string/hostname":  ir.PrimString,
	"string/password":  ir.PrimString,
	"integer/":         ir.PrimInt,
	"integer/int32":    ir.PrimInt32,
	"integer/int64":    ir.PrimInt64,
	"number/":          ir.PrimFloat64,
	"number/float":     ir.PrimFloat32,
	"number/double":    ir.PrimFloat64,
	"boolean/":         ir.PrimBool,
	"file/":            ir.PrimBytes,
}

// TypeMapper maps resolved schema nodes to type descriptors through a
// deterministic table lookup. Nodes that need a named model delegate to the
// model namer wired in by the ModelBuilder; without one they degrade to the
// untyped descriptor.
type TypeMapper struct {
	table    TypeTable
	warnings *ir.Warnings

	// modelName ensures a model exists for the node and returns its name.
	// The second result is false for nodes that are not model-worthy.
	modelName func(node *ir.SchemaNode, hint string) (string, bool)
}

// NewTypeMapper builds a mapper over a type table.
func NewTypeMapper(table TypeTable, warnings *ir.Warnings) *TypeMapper {
	return &TypeMapper{table: table, warnings: warnings}
}

// SetModelNamer wires the callback that names (and materializes) models for
// object, enum and composite nodes.
func (m *TypeMapper) SetModelNamer(fn func(node *ir.SchemaNode, hint string) (string, bool)) {
	m.modelName = fn
}

// Map resolves a node to a type descriptor. hint seeds the name of any
// model generated for an anonymous schema. Unmapped combinations degrade
// with a warning, never an error.
func (m *TypeMapper) Map(node *ir.SchemaNode, hint string) ir.TypeDescriptor {
	if node == nil {
		return ir.AnyType()
	}
	inner := m.mapValue(node, hint)
	if node.Nullable {
		return ir.OptionalOf(inner)
	}
	return inner
}

func (m *TypeMapper) mapValue(node *ir.SchemaNode, hint string) ir.TypeDescriptor {
	if m.modelName != nil {
		if name, ok := m.modelName(node, hint); ok {
			return ir.Named(name)
		}
	}

	switch node.Kind {
	case ir.KindArray:
		return ir.ListOf(m.Map(node.Items, hint+"Item"))
	case ir.KindObject:
		if node.AdditionalProperties != nil && len(node.Properties) == 0 {
			return ir.MapOf(m.Map(node.AdditionalProperties, hint+"Value"))
		}
		if len(node.Properties) == 0 {
			return ir.MapOf(ir.AnyType())
		}
		// Object with properties but no model namer wired in.
		return ir.MapOf(ir.AnyType())
	case ir.KindPrimitive:
		return m.mapPrimitive(node)
	default:
		return ir.AnyType()
	}
}

// mapPrimitive is the table lookup. A known type with an unknown format
// degrades to the type's default; an unknown type degrades to the untyped
// descriptor. Both record an UnmappedType warning.
func (m *TypeMapper) mapPrimitive(node *ir.SchemaNode) ir.TypeDescriptor {
	if p, ok := m.table[node.Type+"/"+node.Format]; ok {
		return ir.Prim(p)
	}
	if p, ok := m.table[node.Type+"/"]; ok {
		m.warnings.Add(ir.WarnUnmappedType, node.Ref,
			"no mapping for %s format %q; using the %s default", node.Type, node.Format, node.Type)
		return ir.Prim(p)
	}
	m.warnings.Add(ir.WarnUnmappedType, node.Ref,
		"no mapping for type %q format %q; emitting untyped", node.Type, node.Format)
	return ir.AnyType()
}
