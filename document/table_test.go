package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascompose/oaserrors"
)

func jsonContent(s *Schema) map[string]*MediaType {
	return map[string]*MediaType{"application/json": {Schema: s}}
}

func getUsers() *OperationEntry {
	return &OperationEntry{
		Path:   "/users",
		Method: MethodGet,
		Tags:   []string{"users"},
		Responses: map[string]*Response{
			"200": {Description: "list", Content: jsonContent(NewArray(NewRef("User")))},
		},
	}
}

func TestTableInsertValidation(t *testing.T) {
	tests := []struct {
		name   string
		root   string
		op     *OperationEntry
		reason string
	}{
		{"empty path", "/", &OperationEntry{Path: "", Method: MethodGet}, "path is empty"},
		{"relative path", "/", &OperationEntry{Path: "users", Method: MethodGet}, "must start with /"},
		{"outside mount root", "/api", &OperationEntry{Path: "/users", Method: MethodGet}, `not under mount root "/api"`},
		{"bad template", "/", &OperationEntry{Path: "/users/{id", Method: MethodGet}, "unclosed"},
		{"bad method", "/", &OperationEntry{Path: "/users", Method: "FETCH"}, "unsupported method"},
		{"nil operation", "/", nil, "operation is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable(tt.root)
			_, err := table.Insert(tt.op, PolicyReject)
			require.ErrorIs(t, err, oaserrors.ErrInvalidPath)
			assert.Contains(t, err.Error(), tt.reason)
			assert.Equal(t, 0, table.Len())
			assert.Empty(t, table.Paths(OrderInsertion))
		})
	}

	t.Run("path under mount root accepted", func(t *testing.T) {
		table := NewTable("/api")
		_, err := table.Insert(&OperationEntry{Path: "/api/users", Method: MethodGet}, PolicyReject)
		require.NoError(t, err)
	})
}

func TestTableDuplicatePolicies(t *testing.T) {
	t.Run("reject", func(t *testing.T) {
		table := NewTable("/")
		_, err := table.Insert(getUsers(), PolicyReject)
		require.NoError(t, err)

		_, err = table.Insert(getUsers(), PolicyReject)
		var dup *oaserrors.DuplicateOperationError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "/users", dup.Path)
		assert.Equal(t, "GET", dup.Method)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("overwrite", func(t *testing.T) {
		table := NewTable("/")
		_, err := table.Insert(getUsers(), PolicyReject)
		require.NoError(t, err)

		replacement := &OperationEntry{Path: "/users", Method: MethodGet, Summary: "new"}
		outcome, err := table.Insert(replacement, PolicyOverwrite)
		require.NoError(t, err)
		assert.Equal(t, Replaced, outcome)

		got, ok := table.Get("/users", MethodGet)
		require.True(t, ok)
		assert.Equal(t, "new", got.Summary)
		assert.Empty(t, got.Tags)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("merge tags and responses", func(t *testing.T) {
		table := NewTable("/")
		first := getUsers()
		first.Summary = "list users"
		_, err := table.Insert(first, PolicyReject)
		require.NoError(t, err)

		second := &OperationEntry{
			Path:        "/users",
			Method:      MethodGet,
			Summary:     "ignored",
			Description: "Lists every user",
			OperationID: "listUsers",
			Tags:        []string{"admin", "users"},
			Responses: map[string]*Response{
				"200": {Description: "other", Content: map[string]*MediaType{"application/xml": {Schema: NewPrimitive("string", "")}}},
				"401": {Description: "unauthorized"},
			},
			Parameters: []*Parameter{{Name: "limit", In: InQuery, Schema: NewPrimitive("integer", "int32")}},
			Security:   []SecurityRequirement{{"bearer": nil}},
		}
		outcome, err := table.Insert(second, PolicyMergeTagsAndResponses)
		require.NoError(t, err)
		assert.Equal(t, Merged, outcome)

		got, _ := table.Get("/users", MethodGet)
		assert.Equal(t, "list users", got.Summary, "non-empty field of first wins")
		assert.Equal(t, "Lists every user", got.Description, "empty field filled from second")
		assert.Equal(t, "listUsers", got.OperationID)
		assert.Equal(t, []string{"users", "admin"}, got.Tags)
		require.Len(t, got.Responses, 2)
		assert.Equal(t, "list", got.Responses["200"].Description)
		assert.Len(t, got.Responses["200"].Content, 2)
		assert.Equal(t, "unauthorized", got.Responses["401"].Description)
		require.Len(t, got.Parameters, 1)
		assert.Len(t, got.Security, 1)
		assert.Equal(t, 1, table.Len())
	})
}

func TestTableInsertUnknownPolicy(t *testing.T) {
	for _, policy := range []DuplicatePolicy{"", "replace-all"} {
		t.Run(string(policy), func(t *testing.T) {
			table := NewTable("/")
			_, err := table.Insert(getUsers(), policy)
			var cfgErr *oaserrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "duplicate policy", cfgErr.Option)
			assert.NotErrorIs(t, err, oaserrors.ErrDuplicateOperation)
			assert.Equal(t, 0, table.Len())
			assert.Empty(t, table.Paths(OrderInsertion))
		})
	}
}

func TestMergeKeepsResponseReferences(t *testing.T) {
	table := NewTable("/")
	first := getUsers()
	first.Responses["404"] = NewResponseRef("NotFound")
	_, err := table.Insert(first, PolicyReject)
	require.NoError(t, err)

	second := &OperationEntry{Path: "/users", Method: MethodGet, Responses: map[string]*Response{
		"404": {Description: "missing", Content: jsonContent(NewPrimitive("string", ""))},
	}}
	_, err = table.Insert(second, PolicyMergeTagsAndResponses)
	require.NoError(t, err)

	got, _ := table.Get("/users", MethodGet)
	assert.Equal(t, NewResponseRef("NotFound"), got.Responses["404"])
}

func TestNilTable(t *testing.T) {
	var table *Table
	assert.Equal(t, "/", table.Root())
	assert.Nil(t, table.Methods("/users"))
	c := table.Clone()
	require.NotNil(t, c)
	_, err := c.Insert(getUsers(), PolicyReject)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestTableInsertCopies(t *testing.T) {
	table := NewTable("/")
	op := getUsers()
	_, err := table.Insert(op, PolicyReject)
	require.NoError(t, err)

	op.Tags[0] = "mutated"
	op.Responses["200"].Description = "mutated"

	got, _ := table.Get("/users", MethodGet)
	assert.Equal(t, []string{"users"}, got.Tags)
	assert.Equal(t, "list", got.Responses["200"].Description)
}

func TestTableIterate(t *testing.T) {
	table := NewTable("/")
	for _, op := range []*OperationEntry{
		{Path: "/zoo", Method: MethodPost},
		{Path: "/apple", Method: MethodDelete},
		{Path: "/zoo", Method: MethodGet},
		{Path: "/apple", Method: MethodGet},
		{Path: "/mid", Method: MethodTrace},
	} {
		_, err := table.Insert(op, PolicyReject)
		require.NoError(t, err)
	}

	collect := func(order Order) []string {
		var out []string
		for op := range table.Iterate(order) {
			out = append(out, string(op.Method)+" "+op.Path)
		}
		return out
	}

	assert.Equal(t, []string{"GET /zoo", "POST /zoo", "GET /apple", "DELETE /apple", "TRACE /mid"}, collect(OrderInsertion))
	assert.Equal(t, []string{"GET /apple", "DELETE /apple", "TRACE /mid", "GET /zoo", "POST /zoo"}, collect(OrderLexicographic))
	assert.Equal(t, collect(OrderInsertion), collect(OrderInsertion), "restartable")
	assert.Equal(t, []HTTPMethod{MethodGet, MethodPost}, table.Methods("/zoo"))
	assert.Nil(t, table.Methods("/missing"))
	assert.Equal(t, 5, table.Len())
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want DuplicatePolicy
	}{
		{"", PolicyMergeTagsAndResponses},
		{"merge", PolicyMergeTagsAndResponses},
		{"Reject", PolicyReject},
		{"fail", PolicyReject},
		{"overwrite", PolicyOverwrite},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDuplicatePolicy("random")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestMergeOperationsDoesNotMutateInputs(t *testing.T) {
	first := getUsers()
	second := &OperationEntry{Path: "/users", Method: MethodGet, Tags: []string{"extra"},
		Responses: map[string]*Response{"404": {Description: "missing"}}}

	merged := MergeOperations(first, second)
	assert.Equal(t, []string{"users", "extra"}, merged.Tags)
	assert.Equal(t, []string{"users"}, first.Tags)
	assert.Len(t, first.Responses, 1)
	assert.Len(t, merged.Responses, 2)
}
