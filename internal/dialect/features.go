package dialect

import "github.com/autoocto/clientgen/internal/ir"

// Features is the per-family capability set consumed by the resolver and
// the operation builder. Adding a family means adding a table row, not new
// branching in the pipeline.
type Features struct {
	// SchemaRoot is the pointer to the document's reusable schema section.
	SchemaRoot string
	// SchemaDialect names the JSON Schema dialect the family speaks.
	SchemaDialect string

	// TypeArrays: `type` may be an array and nullability is encoded as
	// ["T","null"] (JSON Schema 2020-12).
	TypeArrays bool
	// SupportsConst: `const` denotes a single-value enum.
	SupportsConst bool
	// NullableKey is the boolean keyword signaling nullability for
	// families without type arrays ("nullable", "x-nullable"); empty when
	// the dialect has none.
	NullableKey string

	// BodyAsParameter: request bodies are declared as `in: body`
	// parameters rather than a requestBody object.
	BodyAsParameter bool
	// ResponseSchemaInContent: response schemas nest under content/<media
	// type> rather than directly on the response object.
	ResponseSchemaInContent bool
	// StringDiscriminator: `discriminator` is a bare property name, not an
	// object with propertyName/mapping.
	StringDiscriminator bool

	// Webhooks: the document may carry a top-level webhooks section.
	Webhooks bool
	// QueryMethod: the QUERY HTTP method is a valid path item key.
	QueryMethod bool
}

// FeatureTable maps every family to its capabilities.
type FeatureTable map[ir.Family]Features

// DefaultFeatureTable is the shipped capability table.
var DefaultFeatureTable = FeatureTable{
	ir.FamilySwagger2: {
		SchemaRoot:          "#/definitions",
		SchemaDialect:       "draft-04",
		NullableKey:         "x-nullable",
		BodyAsParameter:     true,
		StringDiscriminator: true,
	},
	ir.FamilyOpenAPI3: {
		SchemaRoot:              "#/components/schemas",
		SchemaDialect:           "oas-3.0",
		NullableKey:             "nullable",
		ResponseSchemaInContent: true,
	},
	ir.FamilyOpenAPI31: {
		SchemaRoot:              "#/components/schemas",
		SchemaDialect:           "2020-12",
		TypeArrays:              true,
		SupportsConst:           true,
		ResponseSchemaInContent: true,
		Webhooks:                true,
	},
	ir.FamilyOpenAPI32: {
		SchemaRoot:              "#/components/schemas",
		SchemaDialect:           "2020-12",
		TypeArrays:              true,
		SupportsConst:           true,
		ResponseSchemaInContent: true,
		Webhooks:                true,
		QueryMethod:             true,
	},
}

// Dispatcher hands out per-family capabilities. The table is immutable
// constructor configuration.
type Dispatcher struct {
	table FeatureTable
}

// NewDispatcher builds a dispatcher over a feature table.
func NewDispatcher(table FeatureTable) *Dispatcher {
	return &Dispatcher{table: table}
}

// CapabilitiesFor returns the family's feature set. Unknown families get
// the openapi3 baseline so a fallback-detected family always resolves.
func (d *Dispatcher) CapabilitiesFor(family ir.Family) Features {
	if f, ok := d.table[family]; ok {
		return f
	}
	return d.table[ir.FamilyOpenAPI3]
}
