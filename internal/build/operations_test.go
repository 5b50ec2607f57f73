package build

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autoocto/clientgen/internal/dialect"
	"github.com/autoocto/clientgen/internal/ir"
	"github.com/autoocto/clientgen/internal/loader"
	"github.com/autoocto/clientgen/internal/resolve"
)

func buildOperations(t *testing.T, src string, family ir.Family) ([]ir.Operation, *ir.Warnings) {
	t.Helper()
	doc, err := loader.Parse([]byte(src))
	require.NoError(t, err)

	var warnings ir.Warnings
	features := dialect.DefaultFeatureTable[family]
	resolver := resolve.New(doc, features, &warnings)
	_, err = resolver.Resolve()
	require.NoError(t, err)

	mapper := NewTypeMapper(DefaultTypeTable, &warnings)
	NewModelBuilder(mapper, &warnings)

	ops, err := NewOperationBuilder(doc, resolver, features, mapper, &warnings).Build()
	require.NoError(t, err)
	return ops, &warnings
}

func TestBuildOpenAPI3Operation(t *testing.T) {
	ops, _ := buildOperations(t, `
openapi: "3.0.3"
paths:
  /pets/{petId}:
    get:
      operationId: getPetById
      summary: Find a pet by ID
      parameters:
        - name: petId
          in: path
          required: true
          schema: {type: integer, format: int64}
        - name: verbose
          in: query
          schema: {type: boolean}
      responses:
        "200":
          description: the pet
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
        "404":
          description: not found
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id: {type: integer, format: int64}
        name: {type: string}
`, ir.FamilyOpenAPI3)

	require.Len(t, ops, 1)
	op := ops[0]
	require.Equal(t, "getPetById", op.ID)
	require.Equal(t, "GET", op.Method)
	require.Equal(t, "/pets/{petId}", op.Path)
	require.Equal(t, "Find a pet by ID", op.Summary)

	require.Len(t, op.Parameters, 2)
	require.Equal(t, "petId", op.Parameters[0].Name)
	require.Equal(t, ir.LocationPath, op.Parameters[0].In)
	require.True(t, op.Parameters[0].Required)
	require.Equal(t, "int64", op.Parameters[0].Type.String())
	require.Equal(t, ir.LocationQuery, op.Parameters[1].In)
	require.False(t, op.Parameters[1].Required)

	require.Len(t, op.Responses, 2)
	require.Equal(t, "200", op.Responses[0].Status)
	require.True(t, op.Responses[0].HasBody)
	require.Equal(t, "Pet", op.Responses[0].Type.String())
	require.Equal(t, "404", op.Responses[1].Status)
	require.False(t, op.Responses[1].HasBody)

	success := op.SuccessResponse()
	require.NotNil(t, success)
	require.Equal(t, "200", success.Status)
}

func TestBuildRequestBody(t *testing.T) {
	ops, _ := buildOperations(t, `
openapi: "3.0.3"
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Pet"
      responses:
        "201":
          description: created
components:
  schemas:
    Pet:
      type: object
      properties:
        name: {type: string}
`, ir.FamilyOpenAPI3)

	require.Len(t, ops, 1)
	body := ops[0].RequestBody
	require.NotNil(t, body)
	require.True(t, body.Required)
	require.Equal(t, "application/json", body.MediaType)
	require.Equal(t, "Pet", body.Type.String())
}

func TestSwagger2BodyParameterBecomesRequestBody(t *testing.T) {
	ops, _ := buildOperations(t, `
swagger: "2.0"
paths:
  /pets:
    post:
      operationId: createPet
      consumes: [application/json]
      parameters:
        - name: pet
          in: body
          required: true
          schema:
            $ref: "#/definitions/Pet"
        - name: dryRun
          in: query
          type: boolean
      responses:
        "201":
          description: created
          schema:
            $ref: "#/definitions/Pet"
definitions:
  Pet:
    type: object
    properties:
      name: {type: string}
`, ir.FamilySwagger2)

	require.Len(t, ops, 1)
	op := ops[0]

	// The body parameter folds into the request body, not the parameter list.
	require.Len(t, op.Parameters, 1)
	require.Equal(t, "dryRun", op.Parameters[0].Name)

	require.NotNil(t, op.RequestBody)
	require.True(t, op.RequestBody.Required)
	require.Equal(t, "application/json", op.RequestBody.MediaType)
	require.Equal(t, "Pet", op.RequestBody.Type.String())

	// Swagger2 response schemas sit directly on the response object.
	require.True(t, op.Responses[0].HasBody)
	require.Equal(t, "Pet", op.Responses[0].Type.String())
}

func TestPathLevelParametersApplyAndOverride(t *testing.T) {
	ops, _ := buildOperations(t, `
openapi: "3.0.3"
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema: {type: string}
      - name: trace
        in: header
        schema: {type: string}
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema: {type: integer, format: int64}
      responses:
        "200":
          description: ok
    delete:
      operationId: deletePet
      responses:
        "204":
          description: gone
`, ir.FamilyOpenAPI3)

	require.Len(t, ops, 2)

	get := ops[0]
	require.Len(t, get.Parameters, 2)
	// The operation-level petId overrides the shared string one.
	require.Equal(t, "trace", get.Parameters[0].Name)
	require.Equal(t, "petId", get.Parameters[1].Name)
	require.Equal(t, "int64", get.Parameters[1].Type.String())

	del := ops[1]
	require.Len(t, del.Parameters, 2)
	require.Equal(t, "petId", del.Parameters[0].Name)
	require.Equal(t, "string", del.Parameters[0].Type.String())
}

func TestParameterRefResolution(t *testing.T) {
	ops, _ := buildOperations(t, `
openapi: "3.0.3"
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - $ref: "#/components/parameters/Limit"
      responses:
        "200":
          description: ok
components:
  parameters:
    Limit:
      name: limit
      in: query
      schema: {type: integer, format: int32}
`, ir.FamilyOpenAPI3)

	require.Len(t, ops, 1)
	require.Len(t, ops[0].Parameters, 1)
	require.Equal(t, "limit", ops[0].Parameters[0].Name)
	require.Equal(t, "int32", ops[0].Parameters[0].Type.String())
}

func TestOperationsKeepDeclarationOrder(t *testing.T) {
	ops, _ := buildOperations(t, `
openapi: "3.0.3"
paths:
  /zebras:
    get:
      operationId: listZebras
      responses:
        "200": {description: ok}
  /apples:
    post:
      operationId: makeApple
      responses:
        "201": {description: ok}
    get:
      operationId: listApples
      responses:
        "200": {description: ok}
`, ir.FamilyOpenAPI3)

	ids := make([]string, len(ops))
	for i, op := range ops {
		ids[i] = op.ID
	}
	require.Equal(t, []string{"listZebras", "makeApple", "listApples"}, ids)
}

func TestQueryMethodOnlyIn32(t *testing.T) {
	src := `
openapi: "%s"
paths:
  /search:
    query:
      operationId: searchItems
      responses:
        "200": {description: ok}
`
	ops, _ := buildOperations(t, fmt.Sprintf(src, "3.1.0"), ir.FamilyOpenAPI31)
	require.Empty(t, ops)

	ops, _ = buildOperations(t, fmt.Sprintf(src, "3.2.0"), ir.FamilyOpenAPI32)
	require.Len(t, ops, 1)
	require.Equal(t, "QUERY", ops[0].Method)
}

func TestDanglingResponseRefFails(t *testing.T) {
	doc, err := loader.Parse([]byte(`
openapi: "3.0.3"
paths:
  /pets:
    get:
      responses:
        "200":
          $ref: "#/components/responses/Missing"
`))
	require.NoError(t, err)

	var warnings ir.Warnings
	features := dialect.DefaultFeatureTable[ir.FamilyOpenAPI3]
	resolver := resolve.New(doc, features, &warnings)
	mapper := NewTypeMapper(DefaultTypeTable, &warnings)
	NewModelBuilder(mapper, &warnings)

	_, err = NewOperationBuilder(doc, resolver, features, mapper, &warnings).Build()
	var refErr *resolve.RefError
	require.ErrorAs(t, err, &refErr)
}
