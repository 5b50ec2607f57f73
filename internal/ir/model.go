package ir

import "strings"

// TypeKind discriminates TypeDescriptor shapes.
type TypeKind int

const (
	TypeAny TypeKind = iota
	TypePrimitive
	TypeNamed
	TypeList
	TypeMap
	TypeOptional
)

// Primitive is a target-language-agnostic scalar tag. The renderer decides
// what each one becomes in the output language.
type Primitive string

const (
	PrimString    Primitive = "string"
	PrimBool      Primitive = "bool"
	PrimInt       Primitive = "int"
	PrimInt32     Primitive = "int32"
	PrimInt64     Primitive = "int64"
	PrimFloat32   Primitive = "float32"
	PrimFloat64   Primitive = "float64"
	PrimBytes     Primitive = "bytes"
	PrimTimestamp Primitive = "timestamp"
)

// TypeDescriptor is a language-agnostic type tag: a primitive, a reference
// to a named model, a list/map/optional wrapper, or the untyped fallback.
type TypeDescriptor struct {
	Kind      TypeKind
	Primitive Primitive
	Name      string
	Elem      *TypeDescriptor
}

func AnyType() TypeDescriptor                     { return TypeDescriptor{Kind: TypeAny} }
func Prim(p Primitive) TypeDescriptor             { return TypeDescriptor{Kind: TypePrimitive, Primitive: p} }
func Named(name string) TypeDescriptor            { return TypeDescriptor{Kind: TypeNamed, Name: name} }
func ListOf(elem TypeDescriptor) TypeDescriptor   { return TypeDescriptor{Kind: TypeList, Elem: &elem} }
func MapOf(elem TypeDescriptor) TypeDescriptor    { return TypeDescriptor{Kind: TypeMap, Elem: &elem} }
func OptionalOf(e TypeDescriptor) TypeDescriptor  { return TypeDescriptor{Kind: TypeOptional, Elem: &e} }

// String renders a stable textual form, used for structural signatures and
// test assertions.
func (t TypeDescriptor) String() string {
	switch t.Kind {
	case TypePrimitive:
		return string(t.Primitive)
	case TypeNamed:
		return t.Name
	case TypeList:
		return "list<" + t.Elem.String() + ">"
	case TypeMap:
		return "map<" + t.Elem.String() + ">"
	case TypeOptional:
		return "optional<" + t.Elem.String() + ">"
	default:
		return "any"
	}
}

// ModelKind discriminates the emittable model shapes.
type ModelKind int

const (
	ModelStruct ModelKind = iota
	ModelEnum
	ModelUnion
)

// Model is a named, emittable type derived from one or more schema nodes.
type Model struct {
	Name        string
	Kind        ModelKind
	Description string

	// Struct models.
	Fields []Field

	// Enum models.
	Values []any

	// Union models.
	Variants      []Variant
	Discriminator *Discriminator
}

// Field is one typed member of a struct model.
type Field struct {
	Name     string
	JSONName string
	Type     TypeDescriptor
	Required bool
}

// Variant is one branch of a union model. DiscValue is set when the spec
// declared a discriminator mapping, otherwise variants are positional.
type Variant struct {
	Name      string
	Type      TypeDescriptor
	DiscValue string
	Required  []string
}

// FieldByJSONName returns the field bound to a wire name, nil when absent.
func (m *Model) FieldByJSONName(name string) *Field {
	for i := range m.Fields {
		if m.Fields[i].JSONName == name {
			return &m.Fields[i]
		}
	}
	return nil
}

// Operation is a typed binding for one path+method entry.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Deprecated  bool

	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []Response
}

// ParameterLocation is where a parameter travels on the wire.
type ParameterLocation string

const (
	LocationPath     ParameterLocation = "path"
	LocationQuery    ParameterLocation = "query"
	LocationHeader   ParameterLocation = "header"
	LocationCookie   ParameterLocation = "cookie"
	LocationFormData ParameterLocation = "formData"
)

// Parameter is one typed operation input, in declaration order.
type Parameter struct {
	Name        string
	In          ParameterLocation
	Type        TypeDescriptor
	Required    bool
	Description string
}

// RequestBody references the model carried in the request payload.
type RequestBody struct {
	Type      TypeDescriptor
	MediaType string
	Required  bool
}

// Response binds a status-code pattern ("200", "4XX", "default") to the
// model it carries. Type is the zero descriptor for bodyless responses.
type Response struct {
	Status      string
	Type        TypeDescriptor
	Description string
	HasBody     bool
}

// SuccessResponse returns the first 2xx (or default) response, nil when the
// operation declares none.
func (o *Operation) SuccessResponse() *Response {
	for i := range o.Responses {
		if strings.HasPrefix(o.Responses[i].Status, "2") {
			return &o.Responses[i]
		}
	}
	for i := range o.Responses {
		if o.Responses[i].Status == "default" {
			return &o.Responses[i]
		}
	}
	return nil
}
