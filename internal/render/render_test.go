package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autoocto/clientgen/internal/ir"
)

func TestGoType(t *testing.T) {
	tests := []struct {
		name     string
		desc     ir.TypeDescriptor
		expected string
	}{
		{name: "string", desc: ir.Prim(ir.PrimString), expected: "string"},
		{name: "int64", desc: ir.Prim(ir.PrimInt64), expected: "int64"},
		{name: "bytes", desc: ir.Prim(ir.PrimBytes), expected: "[]byte"},
		{name: "timestamp", desc: ir.Prim(ir.PrimTimestamp), expected: "time.Time"},
		{name: "named", desc: ir.Named("Pet"), expected: "Pet"},
		{name: "list", desc: ir.ListOf(ir.Named("Pet")), expected: "[]Pet"},
		{name: "map", desc: ir.MapOf(ir.Prim(ir.PrimInt)), expected: "map[string]int"},
		{name: "optional scalar", desc: ir.OptionalOf(ir.Prim(ir.PrimString)), expected: "*string"},
		{name: "optional list stays nilable", desc: ir.OptionalOf(ir.ListOf(ir.Named("Pet"))), expected: "[]Pet"},
		{name: "any", desc: ir.AnyType(), expected: "any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, GoType(tt.desc))
		})
	}
}

func TestBuildViewStructFields(t *testing.T) {
	res := &ir.Result{
		Models: []ir.Model{{
			Name: "Pet",
			Kind: ir.ModelStruct,
			Fields: []ir.Field{
				{Name: "ID", JSONName: "id", Type: ir.Prim(ir.PrimInt64), Required: true},
				{Name: "Tag", JSONName: "tag", Type: ir.Prim(ir.PrimString), Required: false},
				{Name: "Labels", JSONName: "labels", Type: ir.ListOf(ir.Prim(ir.PrimString)), Required: false},
			},
		}},
	}

	view := BuildView(res, "client", "petstore")
	require.Equal(t, "PetstoreClient", view.ClientType)
	require.Len(t, view.Structs, 1)

	fields := view.Structs[0].Fields
	require.Equal(t, "int64", fields[0].GoType)
	require.Equal(t, "id", fields[0].JSONTag)
	// Optional scalars become pointers with omitempty; slices stay bare.
	require.Equal(t, "*string", fields[1].GoType)
	require.Equal(t, "tag,omitempty", fields[1].JSONTag)
	require.Equal(t, "[]string", fields[2].GoType)
	require.Equal(t, "labels,omitempty", fields[2].JSONTag)
}

func TestBuildViewOperation(t *testing.T) {
	res := &ir.Result{
		Operations: []ir.Operation{{
			ID:     "getPetById",
			Method: "GET",
			Path:   "/pets/{petId}",
			Parameters: []ir.Parameter{
				{Name: "petId", In: ir.LocationPath, Type: ir.Prim(ir.PrimInt64), Required: true},
				{Name: "verbose", In: ir.LocationQuery, Type: ir.Prim(ir.PrimBool), Required: false},
			},
			Responses: []ir.Response{
				{Status: "200", Type: ir.Named("Pet"), HasBody: true},
			},
		}},
	}

	view := BuildView(res, "client", "")
	require.Equal(t, "APIClient", view.ClientType)
	require.Len(t, view.Operations, 1)

	op := view.Operations[0]
	require.Equal(t, "GetPetByID", op.Name)
	require.Equal(t, "/pets/%v", op.PathFormat)
	require.Len(t, op.PathArgs, 1)
	require.Equal(t, "petID", op.PathArgs[0].ArgName)

	require.Len(t, op.Params, 2)
	require.Equal(t, "int64", op.Params[0].GoType)
	require.Equal(t, "*bool", op.Params[1].GoType)
	require.True(t, op.Params[1].Pointer)

	require.Equal(t, "*Pet", op.ReturnType)
	require.Equal(t, "Pet", op.RetDecl)
	require.Equal(t, "&out", op.RetExpr)
}

func TestBuildViewPrimitiveReturnGetsPointer(t *testing.T) {
	res := &ir.Result{
		Operations: []ir.Operation{{
			Method: "GET",
			Path:   "/count",
			Responses: []ir.Response{
				{Status: "200", Type: ir.Prim(ir.PrimInt64), HasBody: true},
			},
		}},
	}

	op := BuildView(res, "client", "").Operations[0]
	require.Equal(t, "*int64", op.ReturnType)
	require.Equal(t, "&out", op.RetExpr)
}

func TestPathFormatKeywordAndMissingParams(t *testing.T) {
	format, args := pathFormat("/types/{type}/items/{undeclared}", map[string]ParamView{
		"type": {ArgName: "typeParam", WireName: "type", GoType: "string"},
	})
	require.Equal(t, "/types/%v/items/%v", format)
	require.Len(t, args, 2)
	require.Equal(t, "typeParam", args[0].ArgName)
	// Undeclared path template names degrade to string arguments.
	require.Equal(t, "string", args[1].GoType)
}

func TestClientRendersCompilableSource(t *testing.T) {
	res := &ir.Result{
		Family: ir.FamilyOpenAPI3,
		Models: []ir.Model{
			{
				Name: "Pet",
				Kind: ir.ModelStruct,
				Fields: []ir.Field{
					{Name: "ID", JSONName: "id", Type: ir.Prim(ir.PrimInt64), Required: true},
					{Name: "Name", JSONName: "name", Type: ir.Prim(ir.PrimString), Required: true},
					{Name: "CreatedAt", JSONName: "createdAt", Type: ir.Prim(ir.PrimTimestamp), Required: false},
				},
			},
			{
				Name:   "Status",
				Kind:   ir.ModelEnum,
				Values: []any{"available", "pending", "sold"},
			},
			{
				Name: "Animal",
				Kind: ir.ModelUnion,
				Discriminator: &ir.Discriminator{
					PropertyName: "kind",
				},
				Variants: []ir.Variant{
					{Name: "Cat", Type: ir.Named("Cat"), DiscValue: "cat"},
					{Name: "Dog", Type: ir.Named("Dog"), DiscValue: "dog"},
				},
			},
			{Name: "Cat", Kind: ir.ModelStruct, Fields: []ir.Field{{Name: "Meow", JSONName: "meow", Type: ir.Prim(ir.PrimBool), Required: true}}},
			{Name: "Dog", Kind: ir.ModelStruct, Fields: []ir.Field{{Name: "Bark", JSONName: "bark", Type: ir.Prim(ir.PrimBool), Required: true}}},
		},
		Operations: []ir.Operation{
			{
				ID:     "getPetById",
				Method: "GET",
				Path:   "/pets/{petId}",
				Parameters: []ir.Parameter{
					{Name: "petId", In: ir.LocationPath, Type: ir.Prim(ir.PrimInt64), Required: true},
					{Name: "verbose", In: ir.LocationQuery, Type: ir.Prim(ir.PrimBool), Required: false},
				},
				Responses: []ir.Response{{Status: "200", Type: ir.Named("Pet"), HasBody: true}},
			},
			{
				ID:          "createPet",
				Method:      "POST",
				Path:        "/pets",
				RequestBody: &ir.RequestBody{Type: ir.Named("Pet"), MediaType: "application/json", Required: true},
				Responses:   []ir.Response{{Status: "201", Type: ir.Named("Pet"), HasBody: true}},
			},
			{
				ID:        "deletePet",
				Method:    "DELETE",
				Path:      "/pets/{petId}",
				Parameters: []ir.Parameter{
					{Name: "petId", In: ir.LocationPath, Type: ir.Prim(ir.PrimInt64), Required: true},
				},
				Responses: []ir.Response{{Status: "204"}},
			},
		},
	}

	files, err := Client(res, Options{Package: "petstore", ServiceName: "petstore"})
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "models.go", files[0].Name)
	require.Equal(t, "client.go", files[1].Name)

	models := string(files[0].Content)
	require.Contains(t, models, "package petstore")
	require.Contains(t, models, "type Pet struct {")
	// gofmt aligns struct fields, so match with flexible whitespace.
	require.Regexp(t, "ID\\s+int64\\s+`json:\"id\"`", models)
	require.Regexp(t, "CreatedAt\\s+\\*time.Time\\s+`json:\"createdAt,omitempty\"`", models)
	require.Contains(t, models, "type Status string")
	require.Regexp(t, `StatusAvailable\s+Status = "available"`, models)
	require.Contains(t, models, "type Animal struct {")
	require.Contains(t, models, "func (u *Animal) UnmarshalJSON(data []byte) error {")
	require.Contains(t, models, `case "cat":`)

	client := string(files[1].Content)
	require.Contains(t, client, "type PetstoreClient struct {")
	require.Contains(t, client, "func NewPetstoreClient(baseURL string, opts ...ClientOption) *PetstoreClient {")
	require.Contains(t, client, "func (c *PetstoreClient) GetPetByID(ctx context.Context, petID int64, verbose *bool) (*Pet, error) {")
	require.Contains(t, client, "func (c *PetstoreClient) CreatePet(ctx context.Context, body Pet) (*Pet, error) {")
	require.Contains(t, client, "func (c *PetstoreClient) DeletePet(ctx context.Context, petID int64) error {")
	require.Contains(t, client, `query.Set("verbose", fmt.Sprint(*verbose))`)
}

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestClientCustomTemplateOverride(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "models.go.tmpl", "// custom\npackage {{ .Package }}\n")

	res := &ir.Result{}
	files, err := Client(res, Options{Package: "petstore", TemplateDir: dir})
	require.NoError(t, err)
	require.Contains(t, string(files[0].Content), "// custom")
}
