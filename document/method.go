package document

import (
	"fmt"
	"strings"
)

// HTTPMethod is an operation's HTTP method in upper case.
type HTTPMethod string

// HTTP methods supported by OpenAPI path items.
const (
	MethodGet     HTTPMethod = "GET"
	MethodPut     HTTPMethod = "PUT"
	MethodPost    HTTPMethod = "POST"
	MethodDelete  HTTPMethod = "DELETE"
	MethodOptions HTTPMethod = "OPTIONS"
	MethodHead    HTTPMethod = "HEAD"
	MethodPatch   HTTPMethod = "PATCH"
	MethodTrace   HTTPMethod = "TRACE"
)

// Methods returns all methods in path item field order.
func Methods() []HTTPMethod {
	return []HTTPMethod{
		MethodGet, MethodPut, MethodPost, MethodDelete,
		MethodOptions, MethodHead, MethodPatch, MethodTrace,
	}
}

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (HTTPMethod, error) {
	m := HTTPMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown HTTP method %q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the supported methods.
func (m HTTPMethod) Valid() bool {
	return m.rank() >= 0
}

// Lower returns the lower-case form used as a path item key.
func (m HTTPMethod) Lower() string {
	return strings.ToLower(string(m))
}

func (m HTTPMethod) rank() int {
	switch m {
	case MethodGet:
		return 0
	case MethodPut:
		return 1
	case MethodPost:
		return 2
	case MethodDelete:
		return 3
	case MethodOptions:
		return 4
	case MethodHead:
		return 5
	case MethodPatch:
		return 6
	case MethodTrace:
		return 7
	default:
		return -1
	}
}
