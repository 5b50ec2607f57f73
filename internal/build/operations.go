package build

import (
	"strconv"
	"strings"

	"github.com/autoocto/clientgen/internal/dialect"
	"github.com/autoocto/clientgen/internal/ir"
	"github.com/autoocto/clientgen/internal/resolve"
)

// OperationBuilder turns path+method entries into typed operation
// bindings. Paths, methods, parameters and responses all keep the
// document's declaration order.
type OperationBuilder struct {
	doc      *ir.Document
	resolver *resolve.Resolver
	features dialect.Features
	mapper   *TypeMapper
	warnings *ir.Warnings
}

// NewOperationBuilder wires the builder to the run's resolver and mapper.
func NewOperationBuilder(doc *ir.Document, resolver *resolve.Resolver, features dialect.Features, mapper *TypeMapper, warnings *ir.Warnings) *OperationBuilder {
	return &OperationBuilder{
		doc:      doc,
		resolver: resolver,
		features: features,
		mapper:   mapper,
		warnings: warnings,
	}
}

var httpMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

func (b *OperationBuilder) isMethod(key string) bool {
	if httpMethods[key] {
		return true
	}
	return key == "query" && b.features.QueryMethod
}

// Build walks every path item and returns the operations in declaration
// order. Schema resolution failures inside an operation are structural and
// abort, matching the resolver's contract.
func (b *OperationBuilder) Build() ([]ir.Operation, error) {
	var ops []ir.Operation

	for _, path := range b.doc.OrderedKeys("#/paths") {
		pathPtr := "#/paths/" + ir.EscapePointer(path)
		rawItem, ok := b.doc.Lookup(pathPtr)
		if !ok {
			continue
		}
		item, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}

		shared, _ := item["parameters"].([]any)
		sharedPtr := pathPtr + "/parameters"

		for _, key := range b.doc.OrderedKeys(pathPtr) {
			if !b.isMethod(key) {
				continue
			}
			opPtr := pathPtr + "/" + key
			rawOp, _ := item[key].(map[string]any)
			if rawOp == nil {
				continue
			}

			op, err := b.buildOperation(path, key, rawOp, opPtr, shared, sharedPtr)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func (b *OperationBuilder) buildOperation(path, method string, raw map[string]any, opPtr string, shared []any, sharedPtr string) (ir.Operation, error) {
	op := ir.Operation{
		Method: strings.ToUpper(method),
		Path:   path,
	}
	op.ID, _ = raw["operationId"].(string)
	op.Summary, _ = raw["summary"].(string)
	op.Description, _ = raw["description"].(string)
	op.Deprecated, _ = raw["deprecated"].(bool)

	opName := OperationName(op.ID, op.Method, op.Path)

	// Path-item parameters apply to every method; operation-level ones
	// with the same name and location override them.
	own, _ := raw["parameters"].([]any)
	if err := b.bindParameters(&op, opName, shared, sharedPtr, own, opPtr+"/parameters", raw); err != nil {
		return op, err
	}

	if !b.features.BodyAsParameter {
		if err := b.bindRequestBody(&op, opName, raw, opPtr); err != nil {
			return op, err
		}
	}

	if err := b.bindResponses(&op, opName, opPtr); err != nil {
		return op, err
	}
	return op, nil
}

func (b *OperationBuilder) bindParameters(op *ir.Operation, opName string, shared []any, sharedPtr string, own []any, ownPtr string, rawOp map[string]any) error {
	type key struct{ name, in string }
	overridden := make(map[key]bool)
	for _, raw := range own {
		if p, ok := raw.(map[string]any); ok {
			p = b.followParamRef(p)
			name, _ := p["name"].(string)
			in, _ := p["in"].(string)
			overridden[key{name, strings.ToLower(in)}] = true
		}
	}

	bind := func(list []any, base string, skipOverridden bool) error {
		for i, rawParam := range list {
			p, ok := rawParam.(map[string]any)
			if !ok {
				continue
			}
			ptr := base + "/" + strconv.Itoa(i)
			if ref, isRef := p["$ref"].(string); isRef {
				resolved, found := b.doc.Lookup(ref)
				if !found {
					return &resolve.RefError{Ref: ref, Path: ptr}
				}
				p, ok = resolved.(map[string]any)
				if !ok {
					continue
				}
				ptr = ref
			}

			name, _ := p["name"].(string)
			in, _ := p["in"].(string)
			in = strings.ToLower(in)
			if skipOverridden && overridden[key{name, in}] {
				continue
			}

			if in == "body" {
				if err := b.bindBodyParameter(op, opName, p, ptr, rawOp); err != nil {
					return err
				}
				continue
			}

			node, err := b.paramSchema(p, ptr)
			if err != nil {
				return err
			}
			required, _ := p["required"].(bool)
			if in == "path" {
				required = true
			}
			desc, _ := p["description"].(string)
			op.Parameters = append(op.Parameters, ir.Parameter{
				Name:        name,
				In:          ir.ParameterLocation(in),
				Type:        b.mapper.Map(node, opName+PascalCase(name)),
				Required:    required,
				Description: desc,
			})
		}
		return nil
	}

	if err := bind(shared, sharedPtr, true); err != nil {
		return err
	}
	return bind(own, ownPtr, false)
}

// followParamRef chases a parameter $ref for identity purposes only;
// unresolvable refs surface later during binding.
func (b *OperationBuilder) followParamRef(p map[string]any) map[string]any {
	ref, ok := p["$ref"].(string)
	if !ok {
		return p
	}
	if resolved, found := b.doc.Lookup(ref); found {
		if m, ok := resolved.(map[string]any); ok {
			return m
		}
	}
	return p
}

// paramSchema resolves the schema carried by a non-body parameter: a
// schema member (3.x), a content media type (3.2 querystring), or the
// parameter object itself (2.0 inline type keywords).
func (b *OperationBuilder) paramSchema(p map[string]any, ptr string) (*ir.SchemaNode, error) {
	if _, ok := p["schema"]; ok {
		return b.resolver.ResolveAt(ptr + "/schema")
	}
	if content, ok := p["content"].(map[string]any); ok {
		mt := pickMediaType(b.doc.OrderedKeys(ptr + "/content"))
		if inner, ok := content[mt].(map[string]any); ok {
			if _, ok := inner["schema"]; ok {
				return b.resolver.ResolveAt(ptr + "/content/" + ir.EscapePointer(mt) + "/schema")
			}
		}
		return nil, nil
	}
	if _, ok := p["type"]; ok {
		return b.resolver.ResolveValue(p, ptr)
	}
	return nil, nil
}

// bindBodyParameter handles the swagger2 in:body style, folding the single
// body parameter into the operation's request body.
func (b *OperationBuilder) bindBodyParameter(op *ir.Operation, opName string, p map[string]any, ptr string, rawOp map[string]any) error {
	if op.RequestBody != nil {
		return nil
	}
	node, err := b.resolver.ResolveAt(ptr + "/schema")
	if err != nil {
		return err
	}
	required, _ := p["required"].(bool)

	mediaType := "application/json"
	if consumes, ok := rawOp["consumes"].([]any); ok {
		keys := make([]string, 0, len(consumes))
		for _, c := range consumes {
			if s, ok := c.(string); ok {
				keys = append(keys, s)
			}
		}
		if mt := pickMediaType(keys); mt != "" {
			mediaType = mt
		}
	}

	op.RequestBody = &ir.RequestBody{
		Type:      b.mapper.Map(node, opName+"Body"),
		MediaType: mediaType,
		Required:  required,
	}
	return nil
}

func (b *OperationBuilder) bindRequestBody(op *ir.Operation, opName string, raw map[string]any, opPtr string) error {
	rb, ok := raw["requestBody"].(map[string]any)
	if !ok {
		return nil
	}
	ptr := opPtr + "/requestBody"
	if ref, isRef := rb["$ref"].(string); isRef {
		resolved, found := b.doc.Lookup(ref)
		if !found {
			return &resolve.RefError{Ref: ref, Path: ptr}
		}
		rb, ok = resolved.(map[string]any)
		if !ok {
			return nil
		}
		ptr = ref
	}

	content, ok := rb["content"].(map[string]any)
	if !ok {
		return nil
	}
	mt := pickMediaType(b.doc.OrderedKeys(ptr + "/content"))
	inner, ok := content[mt].(map[string]any)
	if !ok {
		return nil
	}

	body := &ir.RequestBody{MediaType: mt}
	body.Required, _ = rb["required"].(bool)
	if _, hasSchema := inner["schema"]; hasSchema {
		node, err := b.resolver.ResolveAt(ptr + "/content/" + ir.EscapePointer(mt) + "/schema")
		if err != nil {
			return err
		}
		body.Type = b.mapper.Map(node, opName+"Body")
	} else {
		body.Type = ir.AnyType()
	}
	op.RequestBody = body
	return nil
}

func (b *OperationBuilder) bindResponses(op *ir.Operation, opName, opPtr string) error {
	for _, status := range b.doc.OrderedKeys(opPtr + "/responses") {
		ptr := opPtr + "/responses/" + ir.EscapePointer(status)
		raw, ok := b.doc.Lookup(ptr)
		if !ok {
			continue
		}
		resp, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if ref, isRef := resp["$ref"].(string); isRef {
			resolved, found := b.doc.Lookup(ref)
			if !found {
				return &resolve.RefError{Ref: ref, Path: ptr}
			}
			resp, ok = resolved.(map[string]any)
			if !ok {
				continue
			}
			ptr = ref
		}

		response := ir.Response{Status: status}
		response.Description, _ = resp["description"].(string)

		schemaPtr := ""
		if b.features.ResponseSchemaInContent {
			if content, ok := resp["content"].(map[string]any); ok {
				mt := pickMediaType(b.doc.OrderedKeys(ptr + "/content"))
				if inner, ok := content[mt].(map[string]any); ok {
					if _, hasSchema := inner["schema"]; hasSchema {
						schemaPtr = ptr + "/content/" + ir.EscapePointer(mt) + "/schema"
					}
				}
			}
		} else if _, hasSchema := resp["schema"]; hasSchema {
			schemaPtr = ptr + "/schema"
		}

		if schemaPtr != "" {
			node, err := b.resolver.ResolveAt(schemaPtr)
			if err != nil {
				return err
			}
			response.Type = b.mapper.Map(node, opName+"Response")
			response.HasBody = true
		}
		op.Responses = append(op.Responses, response)
	}
	return nil
}

// pickMediaType prefers JSON content, falling back to the first declared
// media type.
func pickMediaType(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	for _, k := range keys {
		if k == "application/json" {
			return k
		}
	}
	for _, k := range keys {
		if strings.HasSuffix(k, "+json") {
			return k
		}
	}
	return keys[0]
}
