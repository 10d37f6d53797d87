package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/membertoken/internal/crypto/domain"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		payload  any
		expected string
	}{
		{name: "string", payload: "user-42", expected: `"user-42"`},
		{name: "empty string", payload: "", expected: `""`},
		{name: "number", payload: 42, expected: `42`},
		{name: "float", payload: 1.5, expected: `1.5`},
		{name: "bool", payload: true, expected: `true`},
		{name: "null", payload: nil, expected: `null`},
		{name: "html is not escaped", payload: "<a&b>", expected: `"<a&b>"`},
		{name: "line separators are not escaped", payload: "a\u2028b\u2029c", expected: "\"a\u2028b\u2029c\""},
		{name: "escaped backslash before u2028 text", payload: `a\u2028b`, expected: `"a\\u2028b"`},
		{name: "replacement character", payload: "user\uFFFD", expected: "\"user\uFFFD\""},
		{
			name:     "map keys are sorted",
			payload:  map[string]any{"z": 1, "a": []any{"x", 2}, "m": map[string]any{"b": 1, "a": 2}},
			expected: `{"a":["x",2],"m":{"a":2,"b":1},"z":1}`,
		},
		{
			name: "struct fields are sorted by json name",
			payload: struct {
				UserID string `json:"userId"`
				Hash   string `json:"hash"`
			}{UserID: "u", Hash: "h"},
			expected: `{"hash":"h","userId":"u"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
			assert.True(t, IsCanonical(got))
		})
	}
}

func TestCanonicalize_Unsupported(t *testing.T) {
	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	payloads := map[string]any{
		"function": func() {},
		"channel":  make(chan int),
		"nan":      math.NaN(),
		"infinity": math.Inf(1),
		"cycle":    cyclic,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			_, err := Canonicalize(payload)
			assert.ErrorIs(t, err, cryptoDomain.ErrSerialization)
		})
	}
}

func TestCanonicalize_InvalidUTF8(t *testing.T) {
	type wrapper struct {
		Name   string            `json:"name"`
		Tags   []string          `json:"tags"`
		Labels map[string]string `json:"labels"`
		Raw    []byte            `json:"raw"`
		hidden string
	}

	payloads := map[string]any{
		"string":         "user\xff",
		"lone surrogate": "user\xed\xa0\x80",
		"truncated rune": "user\xe2\x82",
		"pointer":        func() *string { s := "user\xff"; return &s }(),
		"struct field":   wrapper{Name: "user\xff"},
		"slice element":  wrapper{Name: "ok", Tags: []string{"ok", "bad\xff"}},
		"map value":      map[string]any{"userId": "user\xff"},
		"map key":        map[string]any{"user\xff": "ok"},
		"nested map":     wrapper{Labels: map[string]string{"k": "\xc3"}},
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			got, err := Canonicalize(payload)
			assert.ErrorIs(t, err, cryptoDomain.ErrSerialization)
			assert.Nil(t, got)
		})
	}

	t.Run("bytes and unexported fields are not strings", func(t *testing.T) {
		got, err := Canonicalize(wrapper{Name: "ok", Raw: []byte{0xff}, hidden: "\xff"})
		require.NoError(t, err)
		assert.Equal(t, `{"labels":null,"name":"ok","raw":"/w==","tags":null}`, string(got))
	})
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical([]byte(`{"a":1,"b":2}`)))
	assert.False(t, IsCanonical([]byte(`{"b":2,"a":1}`)))
	assert.False(t, IsCanonical([]byte(`{"a": 1}`)))
	assert.False(t, IsCanonical([]byte(`{"a":1}{}`)))
	assert.False(t, IsCanonical([]byte(`not json`)))
	assert.False(t, IsCanonical([]byte(``)))
	assert.True(t, IsCanonical([]byte("\"a\u2028b\"")))
	assert.False(t, IsCanonical([]byte(`"a\u2028b"`)))
	assert.True(t, IsCanonical([]byte(`1.0`)))
}
