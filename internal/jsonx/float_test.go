package jsonx

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFloatMarshal tests null serialization of non-finite values
func TestFloatMarshal(t *testing.T) {
	cases := map[Float]string{
		Float(1.5):             "1.5",
		Float(0):               "0",
		Float(math.NaN()):      "null",
		Float(math.Inf(1)):     "null",
		Float(math.Inf(-1)):    "null",
		Float(1.2345678e-300): "1.2345678e-300",
	}
	for in, want := range cases {
		got, err := json.Marshal(in)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}

// TestFloatMarshalInStruct tests that structs with NaN fields encode
func TestFloatMarshalInStruct(t *testing.T) {
	payload := struct {
		A Float `json:"a"`
		B Float `json:"b"`
	}{A: Float(math.NaN()), B: Float(2)}

	got, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": null, "b": 2}`, string(got))
}

// TestFloatUnmarshal tests the null-to-NaN reverse mapping
func TestFloatUnmarshal(t *testing.T) {
	var f Float
	require.NoError(t, json.Unmarshal([]byte("null"), &f))
	assert.True(t, math.IsNaN(float64(f)))

	require.NoError(t, json.Unmarshal([]byte("3.25"), &f))
	assert.Equal(t, Float(3.25), f)
}
