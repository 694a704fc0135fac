package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascompose/docserver"
	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/mcpserver"
	"github.com/erraggy/oascompose/internal/severity"
	"github.com/erraggy/oascompose/oaserrors"
	"github.com/erraggy/oascompose/parser"
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

const invalidSpec = `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /orders/{id}:
    get:
      responses:
        "200":
          description: ok
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes the root command with args and returns stdout, stderr and
// the error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func captureCompose(t *testing.T) **ComposeConfig {
	t.Helper()
	var captured *ComposeConfig
	composeRunner = func(_ *cobra.Command, cfg *ComposeConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { composeRunner = runCompose })
	return &captured
}

func TestJoinConfigFromFlags(t *testing.T) {
	captured := captureCompose(t)

	_, _, err := run(t, "",
		"--verbose",
		"join",
		"-o", "out.json",
		"--format", "JSON",
		"--openapi-version", "3.0",
		"--duplicate-policy", "reject",
		"--info-override",
		"--property-order", "lexicographic",
		"--path-order", "lex",
		"--validate",
		"a.yaml", "b.yaml",
	)
	require.NoError(t, err)
	require.NotNil(t, *captured)

	cfg := *captured
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Inputs)
	assert.Equal(t, "out.json", cfg.Output)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "3.0", cfg.OpenAPIVersion)
	assert.Equal(t, "reject", cfg.DuplicatePolicy)
	assert.True(t, cfg.InfoOverride)
	assert.True(t, cfg.Validate)
	assert.True(t, cfg.Verbose)

	jc, err := cfg.joinerConfig(document.Version31)
	require.NoError(t, err)
	assert.Equal(t, document.PolicyReject, jc.DuplicatePolicy)
	assert.Equal(t, document.Version30, jc.Document.OpenAPIVersion)
	assert.Equal(t, document.OrderLexicographic, jc.Document.PropertyOrder)
	assert.Equal(t, document.OrderLexicographic, jc.Document.PathOrder)
}

func TestConfigFileThenFlags(t *testing.T) {
	captured := captureCompose(t)
	dir := t.TempDir()
	configPath := writeFile(t, dir, "compose.yaml", `
inputs: [users.yaml, orders.yaml]
format: json
openapi_version: "3.0"
duplicate_policy: reject
mounts:
  - {prefix: /ignored, file: x.yaml}
`)

	_, _, err := run(t, "", "--config", configPath, "join", "--duplicate-policy", "overwrite")
	require.NoError(t, err)

	cfg := *captured
	assert.Equal(t, configPath, cfg.ConfigPath)
	assert.Equal(t, []string{"users.yaml", "orders.yaml"}, cfg.Inputs)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "3.0", cfg.OpenAPIVersion)
	assert.Equal(t, "overwrite", cfg.DuplicatePolicy, "changed flags override the file")
	assert.Empty(t, cfg.Mounts, "join ignores mounts")

	// Positional args replace configured inputs.
	_, _, err = run(t, "", "--config", configPath, "join", "c.yaml", "d.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"c.yaml", "d.yaml"}, (*captured).Inputs)
	assert.Equal(t, "reject", (*captured).DuplicatePolicy)
}

func TestNestConfigFromFlags(t *testing.T) {
	captured := captureCompose(t)

	_, _, err := run(t, "", "nest",
		"--parent", "root.yaml",
		"--mount", "/api/users=users.yaml,users,people",
		"--mount", " /api/billing = billing.yaml ",
	)
	require.NoError(t, err)

	cfg := *captured
	assert.Equal(t, "root.yaml", cfg.Parent)
	assert.Equal(t, []MountConfig{
		{Prefix: "/api/users", File: "users.yaml", Tags: []string{"users", "people"}},
		{Prefix: "/api/billing", File: "billing.yaml"},
	}, cfg.Mounts)
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	users := writeFile(t, dir, "users.yaml", usersSpec)
	orders := writeFile(t, dir, "orders.yaml", ordersSpec)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"join", "--bogus", users, orders}, "unknown flag"},
		{"one input", []string{"join", users}, "at least 2 input files"},
		{"bad policy", []string{"join", "--duplicate-policy", "keep", users, orders}, "duplicate policy"},
		{"bad version", []string{"join", "--openapi-version", "2.0", users, orders}, "openapi version"},
		{"bad order", []string{"join", "--path-order", "random", users, orders}, "unknown order"},
		{"bad format", []string{"join", "--format", "xml", users, orders}, "unsupported --format"},
		{"output is input", []string{"join", "-o", users, users, orders}, "would overwrite input"},
		{"two stdin", []string{"join", "-", "-"}, "stdin"},
		{"no mounts", []string{"nest", "--parent", users}, "at least 1 --mount"},
		{"bad mount", []string{"nest", "--mount", "/api"}, "PREFIX=FILE"},
		{"bad viewer", []string{"serve", "--viewer", "elements", users}, "viewer"},
		{"missing config", []string{"--config", filepath.Join(dir, "missing.yaml"), "join", users, orders}, "config"},
		{"validate format", []string{"validate", "--format", "xml", users}, "unsupported --format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUsage)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, 2, ExitCode(err))
		})
	}
}

func TestJoinWritesFile(t *testing.T) {
	dir := t.TempDir()
	users := writeFile(t, dir, "users.yaml", usersSpec)
	orders := writeFile(t, dir, "orders.yaml", ordersSpec)
	out := filepath.Join(dir, "api.json")

	stdout, stderr, err := run(t, "", "join", "--validate", "-o", out, users, orders)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Paths: 2")
	assert.Contains(t, stderr, "Operations: 2")
	assert.Contains(t, stderr, "Schemas: 2")
	assert.Contains(t, stderr, "Output: ")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "extension selects JSON")

	result, err := parser.ParseFile(out)
	require.NoError(t, err)
	assert.Equal(t, document.Version30, result.OASVersion, "first input decides the version")
	_, ok := result.Document.Operations.Get("/orders", document.MethodGet)
	assert.True(t, ok)
	_, ok = result.Document.Schemas.Resolve("User")
	assert.True(t, ok)
}

func TestJoinFromStdinToStdout(t *testing.T) {
	dir := t.TempDir()
	orders := writeFile(t, dir, "orders.yaml", ordersSpec)

	stdout, _, err := run(t, usersSpec, "join", "--openapi-version", "3.1", "-", orders)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "openapi: 3.1.0"), stdout)
	assert.Contains(t, stdout, "/users:")
	assert.Contains(t, stdout, "/orders:")
}

func TestJoinSchemaConflict(t *testing.T) {
	dir := t.TempDir()
	users := writeFile(t, dir, "users.yaml", usersSpec)
	other := writeFile(t, dir, "other.yaml", conflictingUserSpec)
	out := filepath.Join(dir, "api.yaml")

	_, _, err := run(t, "", "join", "-o", out, users, other)
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrSchemaConflict)
	assert.Equal(t, 1, ExitCode(err))
	assert.NoFileExists(t, out, "nothing is written on failure")
}

func TestNestWritesFile(t *testing.T) {
	dir := t.TempDir()
	parent := writeFile(t, dir, "users.yaml", usersSpec)
	accounts := writeFile(t, dir, "accounts.yaml", fragmentSpec)
	out := filepath.Join(dir, "api.yaml")

	_, stderr, err := run(t, "", "nest", "--parent", parent, "--mount", "/api/accounts/="+accounts+",accounts", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Operations: 3")

	result, err := parser.ParseFile(out)
	require.NoError(t, err)
	assert.Equal(t, document.Version30, result.OASVersion, "the parent decides the version")

	list, ok := result.Document.Operations.Get("/api/accounts", document.MethodGet)
	require.True(t, ok, "a root child path is mounted at the prefix itself")
	assert.Contains(t, list.Tags, "accounts")
	_, ok = result.Document.Operations.Get("/api/accounts/{id}", document.MethodGet)
	assert.True(t, ok)
	_, ok = result.Document.Operations.Get("/users", document.MethodGet)
	assert.True(t, ok)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "users.yaml", usersSpec)
	invalid := writeFile(t, dir, "invalid.yaml", invalidSpec)

	stdout, _, err := run(t, "", "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Document is valid")
	assert.Contains(t, stdout, "OAS Version: 3.0.0")

	stdout, _, err = run(t, "", "validate", "--format", "json", invalid)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Equal(t, 1, ExitCode(err))
	var report validateReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.False(t, report.Valid)
	assert.Positive(t, report.ErrorCount)
	require.NotEmpty(t, report.Errors)
	assert.Equal(t, severity.SeverityError, report.Errors[0].Severity)

	stdout, _, err = run(t, usersSpec, "validate", "--quiet", "-")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	_, _, err = run(t, "", "validate", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUsage))
}

func TestServeConfigFromFlags(t *testing.T) {
	var captured *ComposeConfig
	serveRunner = func(_ *cobra.Command, cfg *ComposeConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { serveRunner = runServe })

	_, _, err := run(t, "", "serve",
		"--addr", ":9090",
		"--base-path", "/docs",
		"--viewer", "redoc,Scalar",
		"--spec-url", "https://example.com/openapi.json",
		"--title", "Reference",
		"--no-yaml",
		"api.yaml",
	)
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, ":9090", captured.Serve.Addr)
	assert.Equal(t, []string{"api.yaml"}, captured.Inputs)

	sc, err := captured.docserverConfig()
	require.NoError(t, err)
	assert.Equal(t, docserver.Config{
		BasePath:    "/docs",
		Viewers:     []docserver.Viewer{docserver.ViewerRedoc, docserver.ViewerScalar},
		SpecURL:     "https://example.com/openapi.json",
		Title:       "Reference",
		DisableYAML: true,
	}, sc)
}

func TestServeDefaults(t *testing.T) {
	cfg := defaultComposeConfig()
	cfg.Inputs = []string{"api.yaml"}
	require.NoError(t, cfg.validate("serve"))
	assert.Equal(t, "127.0.0.1:8080", cfg.Serve.Addr)

	sc, err := cfg.docserverConfig()
	require.NoError(t, err)
	assert.Equal(t, "/", sc.BasePath)
	assert.Empty(t, sc.Viewers, "the server fills in every viewer")
}

func TestMCPCommand(t *testing.T) {
	called := false
	mcpRunner = func(context.Context) error {
		called = true
		return nil
	}
	t.Cleanup(func() { mcpRunner = mcpserver.Run })

	_, _, err := run(t, "", "mcp")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Version: ")
	assert.Contains(t, stdout, "Go Version: ")
}

func TestParseMountFlag(t *testing.T) {
	m, err := parseMountFlag("/v1=api.yaml")
	require.NoError(t, err)
	assert.Equal(t, MountConfig{Prefix: "/v1", File: "api.yaml", Tags: []string{}}, m)

	for _, bad := range []string{"", "/v1", "/v1=", "/v1= "} {
		_, err := parseMountFlag(bad)
		assert.ErrorIs(t, err, ErrUsage, bad)
	}
}

func TestFormatSpecPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatSpecPath(StdinFilePath))
	assert.Equal(t, "api.yaml", FormatSpecPath("api.yaml"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(newUsageError("bad")))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}
