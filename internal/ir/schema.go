package ir

// SchemaKind classifies a resolved schema node.
type SchemaKind int

const (
	KindAny SchemaKind = iota
	KindPrimitive
	KindObject
	KindArray
	KindComposite
)

// ComposeKind identifies the composition keyword a composite node came from.
type ComposeKind int

const (
	ComposeNone ComposeKind = iota
	ComposeAllOf
	ComposeOneOf
	ComposeAnyOf
)

func (c ComposeKind) String() string {
	switch c {
	case ComposeAllOf:
		return "allOf"
	case ComposeOneOf:
		return "oneOf"
	case ComposeAnyOf:
		return "anyOf"
	default:
		return "none"
	}
}

// SchemaNode is a resolved schema unit. Nodes reached through a $ref are
// shared: resolving the same pointer twice yields the same instance.
type SchemaNode struct {
	// Name is set for schemas declared under the document's schema root
	// (components/schemas or definitions).
	Name string
	// Ref is the canonical pointer this node was resolved from, "" for
	// inline schemas.
	Ref string

	Kind        SchemaKind
	Type        string
	Format      string
	Description string

	Properties []Property
	Required   map[string]bool

	Items                *SchemaNode
	AdditionalProperties *SchemaNode

	Compose  ComposeKind
	Branches []*SchemaNode

	// Nullable is the dialect-normalized nullability flag: 3.1/3.2 type
	// arrays, 3.0 nullable and 2.0 x-nullable all land here.
	Nullable bool

	// Enum holds the literal set; a 2020-12 const becomes a single-value
	// set during resolution.
	Enum []any

	Discriminator *Discriminator
}

// Property is one named member of an object schema, in declaration order.
type Property struct {
	Name   string
	Schema *SchemaNode
}

// Discriminator tags which variant of a oneOf/anyOf composite a value is.
type Discriminator struct {
	PropertyName string
	Mapping      map[string]string
}

// IsEnum reports whether the node carries a fixed literal set.
func (n *SchemaNode) IsEnum() bool {
	return n != nil && len(n.Enum) > 0
}

// IsMapOnly reports whether the node is an object with no fixed properties,
// typed solely through additionalProperties.
func (n *SchemaNode) IsMapOnly() bool {
	return n != nil && n.Kind == KindObject && len(n.Properties) == 0 && n.AdditionalProperties != nil
}

// Graph is the resolved schema graph for one generation run. Nodes are
// indexed by the canonical pointer they were resolved at, named schemas
// additionally appear in Named in declaration order.
type Graph struct {
	Named []*SchemaNode

	nodes map[string]*SchemaNode
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*SchemaNode)}
}

// At returns the node resolved at the given pointer, nil when the location
// held no schema.
func (g *Graph) At(pointer string) *SchemaNode {
	return g.nodes[pointer]
}

// Put records a node at its canonical pointer. The first write wins so that
// re-resolution keeps identity stable.
func (g *Graph) Put(pointer string, node *SchemaNode) *SchemaNode {
	if existing, ok := g.nodes[pointer]; ok {
		return existing
	}
	g.nodes[pointer] = node
	return node
}

// Len returns the number of distinct resolved locations.
func (g *Graph) Len() int {
	return len(g.nodes)
}
