package rbmarshal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttributes_PreservesInsertionOrder(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("z", NewInt(1))
	attrs.Set("a", NewInt(2))
	attrs.Set("m", NewInt(3))

	require.Equal(t, []Symbol{"z", "a", "m"}, attrs.Names())
}

func TestAttributes_SetOverwritesInPlace(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("a", NewInt(1))
	attrs.Set("b", NewInt(2))
	attrs.Set("a", NewInt(99))

	require.Equal(t, []Symbol{"a", "b"}, attrs.Names())
	v, ok := attrs.Get("a")
	require.True(t, ok)
	require.Equal(t, NewInt(99), v)
}

func TestAttributes_NilSafe(t *testing.T) {
	var attrs *Attributes
	require.Equal(t, 0, attrs.Len())
	_, ok := attrs.Get("x")
	require.False(t, ok)
	require.Nil(t, attrs.Names())
	attrs.Each(func(Symbol, Value) { t.Fatal("should never be called") })
}
