package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []any
	}{
		{"nil yields no arguments", nil, nil},
		{"false yields no arguments", false, nil},
		{"zero yields no arguments", 0, nil},
		{"empty string yields no arguments", "", nil},
		{"nil slice yields no arguments", []any(nil), nil},
		{"scalar is wrapped", "v", []any{"v"}},
		{"true is wrapped", true, []any{true}},
		{"struct is wrapped", struct{ A int }{1}, []any{struct{ A int }{1}}},
		{"typed slice is wrapped as one value", []string{"a", "b"}, []any{[]string{"a", "b"}}},
		{"list is used as-is", []any{"a", 2}, []any{"a", 2}},
		{"empty list yields empty list", []any{}, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_CopiesList(t *testing.T) {
	list := []any{"a", "b"}
	got := Normalize(list)
	got[0] = "changed"
	assert.Equal(t, "a", list[0])
}

func TestIsFalsy(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]int

	assert.True(t, IsFalsy(nilPtr))
	assert.True(t, IsFalsy(nilMap))
	assert.True(t, IsFalsy(uint8(0)))
	assert.True(t, IsFalsy(0.0))
	assert.True(t, IsFalsy(math.NaN()))

	one := 1
	assert.False(t, IsFalsy(&one))
	assert.False(t, IsFalsy(-1))
	assert.False(t, IsFalsy(map[string]int{}))
	assert.False(t, IsFalsy(struct{}{}))
}
