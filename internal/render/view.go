package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/autoocto/clientgen/internal/build"
	"github.com/autoocto/clientgen/internal/ir"
)

// GoType maps a language-agnostic type descriptor to its Go spelling.
func GoType(t ir.TypeDescriptor) string {
	switch t.Kind {
	case ir.TypePrimitive:
		switch t.Primitive {
		case ir.PrimString:
			return "string"
		case ir.PrimBool:
			return "bool"
		case ir.PrimInt:
			return "int"
		case ir.PrimInt32:
			return "int32"
		case ir.PrimInt64:
			return "int64"
		case ir.PrimFloat32:
			return "float32"
		case ir.PrimFloat64:
			return "float64"
		case ir.PrimBytes:
			return "[]byte"
		case ir.PrimTimestamp:
			return "time.Time"
		}
		return "any"
	case ir.TypeNamed:
		return t.Name
	case ir.TypeList:
		return "[]" + GoType(*t.Elem)
	case ir.TypeMap:
		return "map[string]" + GoType(*t.Elem)
	case ir.TypeOptional:
		inner := GoType(*t.Elem)
		if strings.HasPrefix(inner, "[]") || strings.HasPrefix(inner, "map[") {
			return inner
		}
		return "*" + inner
	default:
		return "any"
	}
}

// ClientView is the fully precomputed input for the client templates. The
// templates only iterate and print; every Go-spelling decision is made here.
type ClientView struct {
	Package    string
	ClientType string

	Structs []StructView
	Enums   []EnumView
	Unions  []UnionView

	Operations []OperationView

	NeedsTime bool
}

type StructView struct {
	Name        string
	Description string
	Fields      []FieldView
}

type FieldView struct {
	Name    string
	GoType  string
	JSONTag string
}

type EnumView struct {
	Name        string
	Description string
	BaseType    string
	Values      []EnumValueView
}

type EnumValueView struct {
	ConstName string
	Literal   string
}

type UnionView struct {
	Name          string
	Description   string
	DiscProperty  string
	Variants      []UnionVariantView
	Discriminated bool
}

type UnionVariantView struct {
	FieldName string
	GoType    string
	DiscValue string
}

type OperationView struct {
	Name        string
	Summary     string
	Description string
	Deprecated  bool
	Method      string

	PathFormat string
	PathArgs   []ParamView

	Params       []ParamView
	QueryParams  []ParamView
	HeaderParams []ParamView
	CookieParams []ParamView

	Body *BodyView

	ReturnType string
	RetDecl    string
	RetExpr    string
}

type ParamView struct {
	ArgName  string
	WireName string
	GoType   string
	Pointer  bool
}

type BodyView struct {
	ArgName   string
	GoType    string
	MediaType string
	Required  bool
}

// BuildView flattens a generation result into the template input.
func BuildView(res *ir.Result, pkg, serviceName string) *ClientView {
	if serviceName == "" {
		serviceName = "API"
	}
	v := &ClientView{
		Package:    pkg,
		ClientType: build.PascalCase(serviceName) + "Client",
	}

	for i := range res.Models {
		m := &res.Models[i]
		switch m.Kind {
		case ir.ModelStruct:
			v.Structs = append(v.Structs, buildStructView(m))
		case ir.ModelEnum:
			v.Enums = append(v.Enums, buildEnumView(m))
		case ir.ModelUnion:
			v.Unions = append(v.Unions, buildUnionView(m))
		}
	}

	for i := range res.Operations {
		v.Operations = append(v.Operations, buildOperationView(&res.Operations[i]))
	}

	v.NeedsTime = needsTime(res)
	return v
}

func buildStructView(m *ir.Model) StructView {
	sv := StructView{Name: m.Name, Description: m.Description}
	for _, f := range m.Fields {
		goType := GoType(f.Type)
		tag := f.JSONName
		if !f.Required {
			if !strings.HasPrefix(goType, "*") && !strings.HasPrefix(goType, "[]") &&
				!strings.HasPrefix(goType, "map[") && goType != "any" {
				goType = "*" + goType
			}
			tag += ",omitempty"
		}
		sv.Fields = append(sv.Fields, FieldView{
			Name:    f.Name,
			GoType:  goType,
			JSONTag: tag,
		})
	}
	return sv
}

func buildEnumView(m *ir.Model) EnumView {
	ev := EnumView{Name: m.Name, Description: m.Description, BaseType: "string"}

	allStrings := true
	for _, val := range m.Values {
		if _, ok := val.(string); !ok {
			allStrings = false
			break
		}
	}
	if !allStrings {
		ev.BaseType = "int64"
	}

	for _, val := range m.Values {
		literal := fmt.Sprintf("%v", val)
		if s, ok := val.(string); ok {
			literal = fmt.Sprintf("%q", s)
		}
		ev.Values = append(ev.Values, EnumValueView{
			ConstName: enumConstName(m.Name, val),
			Literal:   literal,
		})
	}
	return ev
}

func enumConstName(model string, val any) string {
	suffix := build.PascalCase(fmt.Sprintf("%v", val))
	if suffix == "" || suffix[0] >= '0' && suffix[0] <= '9' {
		suffix = "Value" + suffix
	}
	return model + suffix
}

func buildUnionView(m *ir.Model) UnionView {
	uv := UnionView{Name: m.Name, Description: m.Description}
	if m.Discriminator != nil {
		uv.DiscProperty = m.Discriminator.PropertyName
		uv.Discriminated = true
	}
	for _, variant := range m.Variants {
		uv.Variants = append(uv.Variants, UnionVariantView{
			FieldName: variant.Name,
			GoType:    GoType(variant.Type),
			DiscValue: variant.DiscValue,
		})
	}
	return uv
}

func buildOperationView(op *ir.Operation) OperationView {
	ov := OperationView{
		Name:        build.OperationName(op.ID, op.Method, op.Path),
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
		Method:      op.Method,
	}

	params := make(map[string]ParamView, len(op.Parameters))
	for _, p := range op.Parameters {
		goType := GoType(p.Type)
		pointer := false
		if !p.Required && p.In != ir.LocationPath &&
			!strings.HasPrefix(goType, "*") && !strings.HasPrefix(goType, "[]") &&
			!strings.HasPrefix(goType, "map[") && goType != "any" {
			goType = "*" + goType
			pointer = true
		}
		pv := ParamView{
			ArgName:  argName(p.Name),
			WireName: p.Name,
			GoType:   goType,
			Pointer:  pointer || strings.HasPrefix(goType, "*"),
		}
		params[p.Name] = pv
		ov.Params = append(ov.Params, pv)
		switch p.In {
		case ir.LocationQuery, ir.LocationFormData:
			ov.QueryParams = append(ov.QueryParams, pv)
		case ir.LocationHeader:
			ov.HeaderParams = append(ov.HeaderParams, pv)
		case ir.LocationCookie:
			ov.CookieParams = append(ov.CookieParams, pv)
		}
	}

	ov.PathFormat, ov.PathArgs = pathFormat(op.Path, params)

	if op.RequestBody != nil {
		ov.Body = &BodyView{
			ArgName:   "body",
			GoType:    GoType(op.RequestBody.Type),
			MediaType: op.RequestBody.MediaType,
			Required:  op.RequestBody.Required,
		}
	}

	if success := op.SuccessResponse(); success != nil && success.HasBody {
		goType := GoType(success.Type)
		switch {
		// Pointer returns keep the error path a plain "return nil, err":
		// named models and non-nilable primitives both get one.
		case success.Type.Kind == ir.TypeNamed,
			success.Type.Kind == ir.TypePrimitive && success.Type.Primitive != ir.PrimBytes:
			ov.ReturnType = "*" + goType
			ov.RetDecl = goType
			ov.RetExpr = "&out"
		default:
			ov.ReturnType = goType
			ov.RetDecl = goType
			ov.RetExpr = "out"
		}
	}

	return ov
}

// pathFormat rewrites "/pets/{petId}" into a Sprintf format plus the
// parameters it consumes, in path order.
func pathFormat(path string, params map[string]ParamView) (string, []ParamView) {
	var args []ParamView
	var out strings.Builder
	for {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			out.WriteString(path)
			break
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			out.WriteString(path)
			break
		}
		name := path[start+1 : start+end]
		out.WriteString(path[:start])
		out.WriteString("%v")
		if pv, ok := params[name]; ok {
			args = append(args, pv)
		} else {
			// Path template names a parameter the operation never declared;
			// fall back to a string argument so the call still compiles.
			args = append(args, ParamView{ArgName: argName(name), WireName: name, GoType: "string"})
		}
		path = path[start+end+1:]
	}
	return out.String(), args
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

func argName(wire string) string {
	name := build.CamelCase(wire)
	if name == "" {
		name = "param"
	}
	if goKeywords[name] {
		name += "Param"
	}
	return name
}

func needsTime(res *ir.Result) bool {
	var uses func(t ir.TypeDescriptor) bool
	uses = func(t ir.TypeDescriptor) bool {
		if t.Kind == ir.TypePrimitive && t.Primitive == ir.PrimTimestamp {
			return true
		}
		if t.Elem != nil {
			return uses(*t.Elem)
		}
		return false
	}
	for _, m := range res.Models {
		for _, f := range m.Fields {
			if uses(f.Type) {
				return true
			}
		}
		for _, v := range m.Variants {
			if uses(v.Type) {
				return true
			}
		}
	}
	return false
}

// SortWarnings orders warnings by path then message for stable output.
func SortWarnings(ws ir.Warnings) {
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].Path != ws[j].Path {
			return ws[i].Path < ws[j].Path
		}
		return ws[i].Message < ws[j].Message
	})
}
