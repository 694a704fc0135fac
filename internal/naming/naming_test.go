package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseConversions(t *testing.T) {
	tests := []struct {
		input  string
		pascal string
		camel  string
		snake  string
		kebab  string
	}{
		{"", "", "", "", ""},
		{"user_profile", "UserProfile", "userProfile", "user_profile", "user-profile"},
		{"api-client", "ApiClient", "apiClient", "api_client", "api-client"},
		{"com.example.api", "ComExampleApi", "comExampleApi", "com_example_api", "com-example-api"},
		{"/api/v1/users", "ApiV1Users", "apiV1Users", "_api_v1_users", "-api-v1-users"},
		{"UserProfile", "UserProfile", "userProfile", "user_profile", "user-profile"},
		{"double__under", "DoubleUnder", "doubleUnder", "double__under", "double--under"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.pascal, ToPascalCase(tt.input))
			assert.Equal(t, tt.camel, ToCamelCase(tt.input))
			assert.Equal(t, tt.snake, ToSnakeCase(tt.input))
			assert.Equal(t, tt.kebab, ToKebabCase(tt.input))
		})
	}
}

func TestToTitleCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"int64", "Int64"},
		{"user", "User"},
		{"userID", "UserID"},
		{"user id", "User Id"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToTitleCase(tt.input))
		})
	}
}
