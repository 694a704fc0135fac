package validator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/oaserrors"
	"github.com/erraggy/oascompose/serializer"
)

func TestMain(m *testing.M) {
	validatorLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	os.Exit(m.Run())
}

func petDocument(t *testing.T) *document.Document {
	t.Helper()
	doc := document.New(document.Info{Title: "Pets", Version: "1.0.0"})
	require.NoError(t, doc.RegisterSchema(document.SchemaEntry{
		Name:   "Tag",
		Schema: document.NewObject().WithProperty("name", document.NewPrimitive("string", ""), true),
	}))
	require.NoError(t, doc.RegisterSchema(document.SchemaEntry{
		Name: "Pet",
		Schema: document.NewObject().
			WithProperty("id", document.NewPrimitive("integer", "int64"), true).
			WithProperty("name", document.NewPrimitive("string", ""), true).
			WithProperty("tag", document.NewRef("Tag").AsNullable(), false),
	}))
	doc.AddTag(document.Tag{Name: "pets"})
	require.NoError(t, doc.AddOperation(&document.OperationEntry{
		Path:        "/pets/{id}",
		Method:      document.MethodGet,
		OperationID: "getPet",
		Tags:        []string{"pets"},
		Parameters: []*document.Parameter{{
			Name: "id", In: document.InPath, Required: true,
			Schema: document.NewPrimitive("integer", "int64"),
		}},
		Responses: map[string]*document.Response{
			"200": {
				Description: "OK",
				Content:     map[string]*document.MediaType{"application/json": {Schema: document.NewRef("Pet")}},
			},
		},
	}, document.PolicyReject))
	return doc
}

func TestValidateSerializedDocument(t *testing.T) {
	for _, version := range []document.OASVersion{document.Version30, document.Version31} {
		for _, format := range []serializer.Format{serializer.FormatJSON, serializer.FormatYAML} {
			t.Run(string(version)+"/"+string(format), func(t *testing.T) {
				cfg := document.DefaultConfig()
				cfg.OpenAPIVersion = version
				data, err := serializer.Marshal(petDocument(t), format, cfg)
				require.NoError(t, err)

				result, err := Validate(context.Background(), data, version)
				require.NoError(t, err)
				assert.True(t, result.Valid, "errors: %v", result.Errors)
				assert.Empty(t, result.Warnings)
				assert.Equal(t, version, result.OASVersion)
				assert.Equal(t, version.Full(), result.Version)
				assert.NoError(t, result.Err())
				if version == document.Version31 {
					// Tag, Pet, the path parameter and the response body
					assert.Equal(t, 4, result.SchemaCount)
				}
			})
		}
	}
}

func TestValidateDocument(t *testing.T) {
	cfg := document.DefaultConfig()
	result, err := ValidateDocument(context.Background(), petDocument(t), cfg)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, cfg.OpenAPIVersion, result.OASVersion)
}

func TestValidateDetectsVersion(t *testing.T) {
	data := []byte(`{"openapi": "3.1.0", "info": {"title": "t", "version": "1"}, "paths": {}}`)
	result, err := Validate(context.Background(), data, "")
	require.NoError(t, err)
	assert.Equal(t, document.Version31, result.OASVersion)
	assert.True(t, result.Valid)
}

func TestValidate30Problems(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "empty title",
			data: `
openapi: 3.0.3
info:
  title: ""
  version: "1"
paths: {}
`,
		},
		{
			name: "dangling reference",
			data: `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /orders:
    get:
      responses:
        200:
          description: ok
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Order"
`,
		},
		{
			name: "undeclared path parameter",
			data: `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /orders/{id}:
    get:
      responses:
        "200":
          description: ok
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate(context.Background(), []byte(tt.data), document.Version30)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, checkerOpenAPI3, result.Errors[0].Checker)
			assert.True(t, errors.Is(result.Err(), oaserrors.ErrValidation))
		})
	}
}

func TestValidate31Problems(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantPath string
	}{
		{
			name: "dangling reference",
			data: `
openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /orders:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Order"
`,
			wantPath: "paths./orders.get.responses.200.content.application/json.schema",
		},
		{
			name: "invalid pattern",
			data: `
openapi: 3.1.0
info: {title: t, version: "1"}
components:
  schemas:
    Bad:
      type: string
      pattern: "["
`,
			wantPath: "components.schemas.Bad",
		},
		{
			name: "invalid schema in component response",
			data: `
openapi: 3.1.0
info: {title: t, version: "1"}
components:
  responses:
    NotFound:
      description: not found
      content:
        application/json:
          schema:
            type: string
            pattern: "["
`,
			wantPath: "components.responses.NotFound.content.application/json.schema",
		},
		{
			name: "unresolved response reference",
			data: `
openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /orders:
    get:
      responses:
        "404":
          $ref: "#/components/responses/NotFound"
`,
			wantPath: "paths./orders.get.responses.404",
		},
		{
			name: "missing title",
			data: `
openapi: 3.1.0
info: {version: "1"}
paths: {}
`,
			wantPath: "info.title",
		},
		{
			name: "duplicate operationId",
			data: `
openapi: 3.1.0
info: {title: t, version: "1"}
paths:
  /a:
    get:
      operationId: list
      responses: {"200": {description: ok}}
  /b:
    get:
      operationId: list
      responses: {"200": {description: ok}}
`,
			wantPath: "paths./b.get.operationId",
		},
		{
			name: "no paths or components",
			data: `
openapi: 3.1.0
info: {title: t, version: "1"}
`,
			wantPath: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate(context.Background(), []byte(tt.data), document.Version31)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			require.Len(t, result.Errors, 1, "errors: %v", result.Errors)
			assert.Equal(t, tt.wantPath, result.Errors[0].Path)
			assert.Equal(t, 1, result.ErrorCount)
		})
	}
}

func TestValidate31Warnings(t *testing.T) {
	data := []byte(`
openapi: 3.1.0
info: {title: t, version: "1"}
tags:
  - name: pets
paths:
  /pets:
    get:
      tags: [pets, admin]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Count"
components:
  schemas:
    Count:
      type: integer
      example: abc
`)
	result, err := Validate(context.Background(), data, "")
	require.NoError(t, err)
	assert.True(t, result.Valid, "warnings never invalidate: %v", result.Errors)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "components.schemas.Count", result.Warnings[0].Path)
	assert.Contains(t, result.Warnings[0].Message, "example does not match schema")
	assert.Equal(t, "paths./pets.get.tags", result.Warnings[1].Path)
	assert.Contains(t, result.Warnings[1].Message, `"admin"`)

	quiet := New()
	quiet.IncludeWarnings = false
	result, err = quiet.ValidateBytes(context.Background(), data)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Zero(t, result.WarningCount)
}

func TestValidateVersionMismatch(t *testing.T) {
	data := []byte(`{"openapi": "3.0.3", "info": {"title": "t", "version": "1"}, "paths": {}}`)
	result, err := Validate(context.Background(), data, document.Version31)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "openapi", result.Errors[0].Path)
	assert.Contains(t, result.Errors[0].Message, "expected 3.1.0")
}

func TestValidateUnreadableInput(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		data string
	}{
		{"empty", "  \n"},
		{"not yaml", "openapi: [unclosed"},
		{"scalar", "just a string"},
		{"unknown version", `{"openapi": "2.0", "info": {}}`},
		{"missing version", `{"info": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate(ctx, []byte(tt.data), "")
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, oaserrors.ErrParse), "got %v", err)
		})
	}

	_, err := Validate(ctx, []byte(`{"openapi": "3.1.0"}`), "4.0")
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))
}

func TestValidateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Validate(ctx, []byte(`{"openapi": "3.1.0"}`), "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultErr(t *testing.T) {
	r := &ValidationResult{Errors: []ValidationError{
		{Path: "info.title", Message: "title is required"},
		{Path: "info.version", Message: "version is required"},
	}}
	err := r.Err()
	var verr *oaserrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "info.title", verr.Path)
	assert.Equal(t, "title is required (and 1 more)", verr.Message)

	assert.NoError(t, (&ValidationResult{Valid: true}).Err())
}

func TestNormalizeKeys(t *testing.T) {
	in := map[string]any{"responses": map[any]any{200: map[any]any{"description": "ok"}}, "list": []any{map[any]any{1: true}}}
	out := normalizeKeys(in).(map[string]any)
	assert.Equal(t, map[string]any{"200": map[string]any{"description": "ok"}}, out["responses"])
	assert.Equal(t, []any{map[string]any{"1": true}}, out["list"])
}
