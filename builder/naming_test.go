package builder

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenericName(t *testing.T) {
	tests := []struct {
		base string
		args []string
		want string
	}{
		{"Page", []string{"models.User"}, "Page_User"},
		{"Pair", []string{"string", "int64"}, "Pair_String_Int64"},
		{"Page", []string{"List[models.User]"}, "Page_List_User"},
		{"Page", []string{"*github.com/acme/models.User"}, "Page_User"},
		{"Page", []string{"[]user"}, "Page_User"},
		{"Plain", nil, "Plain"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, GenericName(tt.base, tt.args...))
		})
	}

	// distinct instantiations never share a name
	assert.NotEqual(t, GenericName("Page", "User"), GenericName("Page", "Order"))
}

func TestGenericNameStrategies(t *testing.T) {
	args := []string{"Map[string,int]"}
	assert.Equal(t, "Result_Map_String_Int", genericName(GenericNamingUnderscore, "Result", args))
	assert.Equal(t, "ResultOfMapOfStringAndInt", genericName(GenericNamingOf, "Result", args))
	assert.Equal(t, "ResultMapStringInt", genericName(GenericNamingFlattened, "Result", args))
}

func TestExtractGenericParams(t *testing.T) {
	assert.Nil(t, extractGenericParams("User"))
	assert.Equal(t, []string{"string", "int"}, extractGenericParams("Map[string, int]"))
	assert.Equal(t, []string{"List[User]", "int"}, extractGenericParams("Pair[List[User],int]"))
	assert.Equal(t, "Response", extractBaseTypeName("Response[List[User]]"))
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "github.com_org_models", sanitizePath("github.com/org/models"))
	assert.Equal(t, "a_b", sanitizePath("a~b"))
}

func TestAnonymousTypeName(t *testing.T) {
	n := &schemaNamer{}
	assert.Equal(t, anonymousTypeName, n.name(reflect.TypeOf(struct{ A int }{})))
	assert.Equal(t, "Tag", n.name(reflect.TypeOf(&Tag{})))
}
