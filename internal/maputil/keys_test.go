package maputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]bool
		expected []string
	}{
		{"sorted keys", map[string]bool{"zebra": true, "apple": true, "mango": true}, []string{"apple", "mango", "zebra"}},
		{"single key", map[string]bool{"only": true}, []string{"only"}},
		{"empty map", map[string]bool{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SortedKeys(tt.input))
		})
	}
}

func TestStatusCodes(t *testing.T) {
	m := map[string]int{"default": 0, "404": 0, "200": 0, "4XX": 0, "201": 0}
	assert.Equal(t, []string{"200", "201", "404", "4XX", "default"}, StatusCodes(m))
}
