package mcmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedCompactKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"width":     16,
		"frametime": uint16(2),
		"height":    16,
		"nested":    map[string]any{"b": true, "a": []any{"x", int64(3)}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"frametime":2,"height":16,"nested":{"a":["x",3],"b":true},"width":16}`, string(data))
}

func TestMarshalCanonical_UTF16KeyOrdering(t *testing.T) {
	// U+1F600 encodes to surrogates 0xD83D.. which sort before U+FF61 in UTF-16
	// but after it in UTF-8.
	data, err := MarshalCanonical(map[string]any{"\uff61": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uff61\":1}", string(data))
}

func TestMarshalCanonical_StringEscaping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`a"b`, `"a\"b"`},
		{`a\b`, `"a\\b"`},
		{"tab\there", `"tab\there"`},
		{"nl\n", `"nl\n"`},
		{"\x01", `"\u0001"`},
		{"<&>", `"<&>"`},
		{"\u2028", "\"\u2028\""},
	}
	for _, tt := range tests {
		data, err := MarshalCanonical(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data), "input %q", tt.in)
	}
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	decomposed := "e\u0301"
	data, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.ErrorContains(t, err, "null")

	_, err = MarshalCanonical(map[string]any{"ratio": 1.5})
	assert.ErrorContains(t, err, "floats")

	_, err = MarshalCanonical(struct{}{})
	assert.ErrorContains(t, err, "unsupported")
}
