package registry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConflict = errors.New("conflict")

func newIntRegistry() *Registry[int] {
	return New(
		func(a, b int) bool { return a == b },
		func(name string, first, second int) error {
			return fmt.Errorf("%s: %d vs %d: %w", name, first, second, errConflict)
		},
	)
}

func TestRegister(t *testing.T) {
	t.Run("identical registration is idempotent", func(t *testing.T) {
		r := newIntRegistry()
		require.NoError(t, r.Register("a", 1))
		require.NoError(t, r.Register("a", 1))
		assert.Equal(t, 1, r.Len())
	})

	t.Run("different value conflicts and keeps first", func(t *testing.T) {
		r := newIntRegistry()
		require.NoError(t, r.Register("a", 1))
		err := r.Register("a", 2)
		require.ErrorIs(t, err, errConflict)
		assert.Contains(t, err.Error(), "a: 1 vs 2")

		v, ok := r.Resolve("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("default conflict func", func(t *testing.T) {
		r := New[int](func(a, b int) bool { return a == b }, nil)
		require.NoError(t, r.Register("a", 1))
		assert.Error(t, r.Register("a", 2))
	})
}

func TestReplace(t *testing.T) {
	r := newIntRegistry()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))
	r.Replace("a", 10)
	r.Replace("c", 3)

	assert.Equal(t, []string{"a", "b", "c"}, r.Names(Insertion))
	v, _ := r.Resolve("a")
	assert.Equal(t, 10, v)
}

func TestResolve(t *testing.T) {
	r := newIntRegistry()
	_, ok := r.Resolve("missing")
	assert.False(t, ok)
	assert.False(t, r.Has("missing"))

	var nilReg *Registry[int]
	_, ok = nilReg.Resolve("x")
	assert.False(t, ok)
	assert.Equal(t, 0, nilReg.Len())
}

func TestAllOrders(t *testing.T) {
	r := newIntRegistry()
	for i, name := range []string{"zeta", "alpha", "mu"} {
		require.NoError(t, r.Register(name, i))
	}

	tests := []struct {
		name  string
		order Order
		want  []string
	}{
		{"insertion", Insertion, []string{"zeta", "alpha", "mu"}},
		{"lexicographic", Lexicographic, []string{"alpha", "mu", "zeta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Names(tt.order))
		})
	}

	t.Run("restartable", func(t *testing.T) {
		seq := r.All(Insertion)
		var first, second []string
		for name := range seq {
			first = append(first, name)
		}
		for name := range seq {
			second = append(second, name)
		}
		assert.Equal(t, first, second)
	})

	t.Run("early break", func(t *testing.T) {
		var got []string
		for name := range r.All(Lexicographic) {
			got = append(got, name)
			break
		}
		assert.Equal(t, []string{"alpha"}, got)
	})

	t.Run("lexicographic does not disturb insertion order", func(t *testing.T) {
		_ = r.Names(Lexicographic)
		assert.Equal(t, []string{"zeta", "alpha", "mu"}, r.Names(Insertion))
	})
}

func TestClone(t *testing.T) {
	r := newIntRegistry()
	require.NoError(t, r.Register("a", 1))

	c := r.Clone(func(v int) int { return v * 10 })
	require.NoError(t, c.Register("b", 2))

	assert.Equal(t, 1, r.Len())
	v, _ := c.Resolve("a")
	assert.Equal(t, 10, v)
	assert.ErrorIs(t, c.Register("a", 1), errConflict)
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{"", Insertion, false},
		{"insertion", Insertion, false},
		{"Lexicographic", Lexicographic, false},
		{"sorted", Lexicographic, false},
		{"random", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrder(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
