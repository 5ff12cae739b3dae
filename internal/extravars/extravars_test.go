package extravars

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ValidObject(t *testing.T) {
	parsed, err := Normalize(`{"k":"v","n":3}`)
	require.NoError(t, err)
	assert.Equal(t, "v", parsed["k"])
	assert.Equal(t, json.Number("3"), parsed["n"])
}

func TestNormalize_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		parsed, err := Normalize(input)
		require.NoError(t, err, "input %q", input)
		assert.Nil(t, parsed, "input %q", input)
	}
}

func TestNormalize_ObjectObjectPrefix(t *testing.T) {
	clean, err := Normalize(`{"k":"v"}`)
	require.NoError(t, err)

	contaminated, err := Normalize(`[object Object]{"k":"v"}`)
	require.NoError(t, err)

	// The contaminated form must parse to the same structure as the clean one.
	assert.Equal(t, clean, contaminated)
}

func TestNormalize_ObjectObjectPrefixOnly(t *testing.T) {
	parsed, err := Normalize(`[object Object]`)
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unquoted keys", `{k: 'v'}`},
		{"bare word", `hello`},
		{"top-level array", `[1,2,3]`},
		{"top-level string", `"just a string"`},
		{"trailing garbage", `{"k":"v"} trailing`},
		{"two objects", `{"a":1}{"b":2}`},
		{"unknown prefix", `[object Array]{"k":"v"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Normalize(test.input)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			// The offending input must be identified in the error.
			assert.Contains(t, err.Error(), test.input)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := Normalize(`{"a":{"b":[1,2]}}`)
	require.NoError(t, err)

	round, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := Normalize(string(round))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
