package rbmarshal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValuesEqual_NaNTreatedAsEqual(t *testing.T) {
	a := &Float{V: math.NaN()}
	b := &Float{V: math.NaN()}
	require.True(t, ValuesEqual(a, b))
}

func TestValuesEqual_DifferentKindsNeverEqual(t *testing.T) {
	require.False(t, ValuesEqual(NewInt(1), NewText("1")))
}

func TestValuesEqual_CyclicArrayDoesNotHang(t *testing.T) {
	a := &Array{}
	a.Items = []Value{a}
	b := &Array{}
	b.Items = []Value{b}
	require.True(t, ValuesEqual(a, b))
}

func TestValuesEqual_HashOrderMatters(t *testing.T) {
	h1 := &Hash{Entries: []HashEntry{
		{Key: NewText("a"), Value: NewInt(1)},
		{Key: NewText("b"), Value: NewInt(2)},
	}}
	h2 := &Hash{Entries: []HashEntry{
		{Key: NewText("b"), Value: NewInt(2)},
		{Key: NewText("a"), Value: NewInt(1)},
	}}
	require.False(t, ValuesEqual(h1, h2))
}

func TestValuesEqual_AttributesCompared(t *testing.T) {
	a1 := NewAttributes()
	a1.Set("x", NewInt(1))
	a2 := NewAttributes()
	a2.Set("x", NewInt(2))

	o1 := &Object{Class: "Foo", Attrs: a1}
	o2 := &Object{Class: "Foo", Attrs: a2}
	require.False(t, ValuesEqual(o1, o2))

	a2.Set("x", NewInt(1))
	require.True(t, ValuesEqual(o1, o2))
}
