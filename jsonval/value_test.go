package jsonval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	src := `{"b":2,"a":1,"nested":{"z":true,"y":[1,2,3]},"s":"hi\n"}`
	v, err := Decode([]byte(src))
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())

	// Keys preserve source order.
	require.Equal(t, []string{"b", "a", "nested", "s"}, v.Keys())

	out := Encode(v)
	v2, err := Decode([]byte(out))
	require.NoError(t, err)
	require.True(t, DeepEqual(v, v2))
}

func TestDeepEqualIgnoresKeyOrder(t *testing.T) {
	a, err := Decode([]byte(`{"x":1,"y":2}`))
	require.NoError(t, err)
	b, err := Decode([]byte(`{"y":2,"x":1}`))
	require.NoError(t, err)
	require.True(t, DeepEqual(a, b))
}

func TestArrayAppendMutatesInPlace(t *testing.T) {
	v := Array([]Value{Number(1)})
	v2 := v.Append(Number(2))
	require.Equal(t, 2, v.Len())
	require.Equal(t, 2, v2.Len())
}

func TestFormatNumberIntegral(t *testing.T) {
	require.Equal(t, "3", formatNumber(3.0))
	require.Equal(t, "3.5", formatNumber(3.5))
}

func TestPointer(t *testing.T) {
	require.Equal(t, "/resources/0/methods", PointerIndex(Pointer("resources"), 0)+"/methods")
}
