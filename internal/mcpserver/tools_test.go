package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersSpec = `openapi: "3.0.0"
info:
  title: Users
  version: "1.0.0"
tags:
  - name: users
paths:
  /users:
    get:
      operationId: listUsers
      tags: [users]
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/User"
components:
  schemas:
    User:
      type: object
      properties:
        id:
          type: integer
        name:
          type: string
`

const ordersSpec = `openapi: "3.0.0"
info:
  title: Orders
  version: "1.0.0"
paths:
  /orders:
    get:
      operationId: listOrders
      responses:
        "200":
          description: OK
  /users:
    get:
      operationId: listUsers
      responses:
        "404":
          description: Not found
components:
  schemas:
    Order:
      type: object
      properties:
        total:
          type: number
`

const conflictingUserSpec = `openapi: "3.0.0"
info: {title: Other, version: "1"}
paths: {}
components:
  schemas:
    User:
      type: string
`

// titledSpec is formatted with an integer to produce distinct documents.
const titledSpec = `openapi: "3.1.0"
info:
  title: Spec %d
  version: "1.0"
paths: {}
`

const fragmentSpec = `openapi: 3.1.0
info: {title: Accounts, version: "1"}
paths:
  /:
    get:
      operationId: listAccounts
      responses: {"200": {description: OK}}
  /{id}:
    get:
      operationId: getAccount
      parameters:
        - {name: id, in: path, required: true, schema: {type: string}}
      responses: {"200": {description: OK}}
`

func call[In, Out any](t *testing.T, h func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error), in In) (*mcp.CallToolResult, Out) {
	t.Helper()
	res, out, err := h(context.Background(), &mcp.CallToolRequest{}, in)
	require.NoError(t, err, "handlers report failures in the result, never as an error")
	return res, out
}

func errorText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.True(t, res.IsError)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestParseTool_Summary(t *testing.T) {
	res, out := call(t, handleParse, parseInput{Spec: specInput{Content: usersSpec}})
	require.Nil(t, res)

	assert.Equal(t, "3.0.0", out.Version)
	assert.Equal(t, "Users", out.Title)
	assert.Equal(t, "yaml", out.Format)
	assert.Equal(t, 1, out.PathCount)
	assert.Equal(t, 1, out.OperationCount)
	assert.Equal(t, 1, out.SchemaCount)
	assert.Equal(t, []string{"users"}, out.Tags)
	assert.Empty(t, out.FullDocument)
}

func TestParseTool_Full(t *testing.T) {
	res, out := call(t, handleParse, parseInput{Spec: specInput{Content: usersSpec}, Full: true})
	require.Nil(t, res)
	assert.Contains(t, out.FullDocument, "openapi: 3.0.3")
	assert.Contains(t, out.FullDocument, "#/components/schemas/User")
}

func TestParseTool_Invalid(t *testing.T) {
	res, _ := call(t, handleParse, parseInput{Spec: specInput{Content: "openapi: [unclosed"}})
	assert.NotEmpty(t, errorText(t, res))
}

func TestJoinTool_TwoSpecs(t *testing.T) {
	specCache.reset()
	res, out := call(t, handleJoin, joinInput{
		Specs: []specInput{{Content: usersSpec}, {Content: ordersSpec}},
	})
	require.Nil(t, res)

	assert.Equal(t, 2, out.SourceCount)
	assert.Equal(t, "3.0.3", out.Version, "the first document's version is kept")
	assert.Equal(t, 2, out.PathCount)
	assert.Equal(t, 2, out.OperationCount)
	assert.Equal(t, 2, out.SchemaCount)
	assert.Equal(t, 1, out.CollisionCount)
	require.Len(t, out.Warnings, 2)
	assert.Equal(t, "operation_merged", out.Warnings[0].Category)
	assert.Equal(t, "specs[1]", out.Warnings[0].Source)
	assert.Equal(t, "metadata_override", out.Warnings[1].Category, "the first info block is kept")

	assert.Contains(t, out.Document, "/orders:")
	assert.Contains(t, out.Document, `"404":`)
	assert.Contains(t, out.Summary, "Joined 2 documents")
	assert.Contains(t, out.Summary, "1 collision resolved")
}

func TestJoinTool_Options(t *testing.T) {
	specCache.reset()
	res, out := call(t, handleJoin, joinInput{
		Specs:           []specInput{{Content: usersSpec}, {Content: ordersSpec}},
		DuplicatePolicy: "overwrite",
		OpenAPIVersion:  "3.1",
		Format:          "json",
	})
	require.Nil(t, res)
	assert.Equal(t, "3.1.0", out.Version)
	assert.Equal(t, "operation_replaced", out.Warnings[0].Category)
	assert.Contains(t, out.Document, `"openapi": "3.1.0"`)
}

func TestJoinTool_Errors(t *testing.T) {
	specCache.reset()
	tests := []struct {
		name  string
		input joinInput
		want  string
	}{
		{"one spec", joinInput{Specs: []specInput{{Content: usersSpec}}}, "at least 2 specs"},
		{"duplicate rejected", joinInput{
			Specs:           []specInput{{Content: usersSpec}, {Content: ordersSpec}},
			DuplicatePolicy: "reject",
		}, "duplicate operation"},
		{"schema conflict", joinInput{
			Specs: []specInput{{Content: usersSpec}, {Content: conflictingUserSpec}},
		}, `schema conflict: "User"`},
		{"bad policy", joinInput{
			Specs:           []specInput{{Content: usersSpec}, {Content: ordersSpec}},
			DuplicatePolicy: "ignore",
		}, "duplicate policy"},
		{"bad version", joinInput{
			Specs:          []specInput{{Content: usersSpec}, {Content: ordersSpec}},
			OpenAPIVersion: "2.0",
		}, "openapi version"},
		{"unparsable spec", joinInput{
			Specs: []specInput{{Content: usersSpec}, {Content: "openapi: [unclosed"}},
		}, "spec[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := call(t, handleJoin, tt.input)
			assert.Contains(t, errorText(t, res), tt.want)
		})
	}
}

func TestJoinTool_WritesOutput(t *testing.T) {
	specCache.reset()
	path := filepath.Join(t.TempDir(), "joined.json")
	res, out := call(t, handleJoin, joinInput{
		Specs:  []specInput{{Content: usersSpec}, {Content: ordersSpec}},
		Output: path,
	})
	require.Nil(t, res)
	assert.Equal(t, path, out.WrittenTo)
	assert.Empty(t, out.Document)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"openapi": "3.0.3"`, "format follows the file extension")
}

func TestNestTool(t *testing.T) {
	specCache.reset()
	res, out := call(t, handleNest, nestInput{
		Parent: &specInput{Content: usersSpec},
		Mounts: []mountInput{{
			Prefix: "/api/accounts/",
			Spec:   specInput{Content: fragmentSpec},
			Tags:   []string{"accounts"},
		}},
	})
	require.Nil(t, res)

	assert.Equal(t, 1, out.SourceCount)
	assert.Equal(t, "3.0.3", out.Version, "the parent's version is kept")
	assert.Equal(t, 3, out.PathCount)
	assert.Equal(t, 3, out.OperationCount)
	assert.Contains(t, out.Document, "/api/accounts:")
	assert.Contains(t, out.Document, "/api/accounts/{id}:")
	assert.Contains(t, out.Document, "- accounts")
	assert.Contains(t, out.Summary, "Nested 1 document")
}

func TestNestTool_WithoutParent(t *testing.T) {
	specCache.reset()
	res, out := call(t, handleNest, nestInput{
		Mounts: []mountInput{
			{Prefix: "/a", Spec: specInput{Content: fragmentSpec}},
			{Prefix: "/b", Spec: specInput{Content: fragmentSpec}},
		},
	})
	require.Nil(t, res)
	assert.Equal(t, "3.1.0", out.Version)
	assert.Equal(t, 4, out.OperationCount)
}

func TestNestTool_Errors(t *testing.T) {
	specCache.reset()
	res, _ := call(t, handleNest, nestInput{})
	assert.Contains(t, errorText(t, res), "at least 1 mount")

	res, _ = call(t, handleNest, nestInput{Mounts: []mountInput{{Spec: specInput{Content: fragmentSpec}}}})
	assert.Contains(t, errorText(t, res), "prefix is required")

	res, _ = call(t, handleNest, nestInput{Mounts: []mountInput{{Prefix: "/{bad", Spec: specInput{Content: fragmentSpec}}}})
	assert.NotEmpty(t, errorText(t, res))
}

func TestValidateTool(t *testing.T) {
	res, out := call(t, handleValidate, validateInput{Spec: specInput{Content: usersSpec}})
	require.Nil(t, res)
	assert.True(t, out.Valid, "errors: %v", out.Errors)
	assert.Equal(t, "3.0.0", out.Version)
	assert.Zero(t, out.ErrorCount)
}

func TestValidateTool_Problems(t *testing.T) {
	spec := `openapi: 3.1.0
info: {version: "1"}
paths:
  /a:
    get:
      tags: [undeclared]
      responses: {"200": {description: ok}}
`
	res, out := call(t, handleValidate, validateInput{Spec: specInput{Content: spec}})
	require.Nil(t, res)
	assert.False(t, out.Valid)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "info.title", out.Errors[0].Path)
	assert.Equal(t, 1, out.WarningCount)
	assert.Equal(t, 2, out.Returned)

	noWarnings := true
	res, out = call(t, handleValidate, validateInput{Spec: specInput{Content: spec}, NoWarnings: &noWarnings})
	require.Nil(t, res)
	assert.Empty(t, out.Warnings)
	assert.Zero(t, out.WarningCount)

	res, out = call(t, handleValidate, validateInput{Spec: specInput{Content: spec}, Offset: 1})
	require.Nil(t, res)
	assert.Empty(t, out.Errors)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, 1, out.ErrorCount, "counts are not paginated")
}

func TestValidateTool_VersionAndInput(t *testing.T) {
	res, out := call(t, handleValidate, validateInput{Spec: specInput{Content: usersSpec}, OpenAPIVersion: "3.1"})
	require.Nil(t, res)
	assert.False(t, out.Valid)
	assert.Equal(t, "openapi", out.Errors[0].Path)

	res, _ = call(t, handleValidate, validateInput{Spec: specInput{Content: usersSpec}, OpenAPIVersion: "4"})
	assert.Contains(t, errorText(t, res), "openapi version")

	res, _ = call(t, handleValidate, validateInput{Spec: specInput{File: "/tmp/oascompose-missing/spec.yaml"}})
	assert.Contains(t, errorText(t, res), "<path>", "file paths are not leaked")

	path := writeSpec(t, "users.yaml", usersSpec)
	res, out = call(t, handleValidate, validateInput{Spec: specInput{File: path}})
	require.Nil(t, res)
	assert.True(t, out.Valid)
}
