package rbmarshal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type unrepresentableValue struct{}

func (unrepresentableValue) Kind() Kind { return Kind(255) }

func TestWrite_UnrepresentableValue(t *testing.T) {
	_, err := Writes(unrepresentableValue{})
	require.ErrorIs(t, err, ErrUnrepresentable)
}

func TestWrite_UserDefWithoutAttrsRoundTrip(t *testing.T) {
	ud := &UserDef{Class: "MyClass", Data: []byte{0x01, 0x02, 0x03}}
	out, err := Writes(ud)
	require.NoError(t, err)

	back, err := Loads(out)
	require.NoError(t, err)
	got, ok := back.(*UserDef)
	require.True(t, ok)
	require.Equal(t, ud.Class, got.Class)
	require.Equal(t, ud.Data, got.Data)
	require.Equal(t, 0, got.Attrs.Len())
}

func TestWrite_UserDefWithAttrsRoundTrip(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("tz", NewText("UTC"))
	ud := &UserDef{Class: "Time", Data: []byte{0xAA}, Attrs: attrs}

	out, err := Writes(ud)
	require.NoError(t, err)

	back, err := Loads(out)
	require.NoError(t, err)
	got, ok := back.(*UserDef)
	require.True(t, ok)
	require.Equal(t, 1, got.Attrs.Len())
	v, ok := got.Attrs.Get("tz")
	require.True(t, ok)
	ds, ok := v.(*DecodedString)
	require.True(t, ok)
	require.Equal(t, "UTC", ds.Text)
}

func TestWrite_SharedFloatIdentity(t *testing.T) {
	f := &Float{V: 2.5}
	arr := &Array{Items: []Value{f, f, f}}

	out, err := Writes(arr)
	require.NoError(t, err)

	back, err := Loads(out)
	require.NoError(t, err)
	got := back.(*Array)
	require.Same(t, got.Items[0].(*Float), got.Items[1].(*Float))
	require.Same(t, got.Items[0].(*Float), got.Items[2].(*Float))
}

func TestWrite_NullValue(t *testing.T) {
	out, err := Writes(Null{})
	require.NoError(t, err)
	require.Equal(t, header(tagNull), out)
}

func TestWrite_StructRoundTrip(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("x", NewInt(1))
	s := &StructValue{Class: "Point", Attrs: attrs}

	out, err := Writes(s)
	require.NoError(t, err)
	back, err := Loads(out)
	require.NoError(t, err)
	got, ok := back.(*StructValue)
	require.True(t, ok)
	require.Equal(t, Symbol("Point"), got.Class)
}

func TestWrite_ExtendedRoundTrip(t *testing.T) {
	ext := &ExtendedValue{Modules: []Symbol{"Enumerable", "Comparable"}, Inner: NewInt(5)}
	out, err := Writes(ext)
	require.NoError(t, err)

	back, err := Loads(out)
	require.NoError(t, err)
	got, ok := back.(*ExtendedValue)
	require.True(t, ok)
	require.Equal(t, []Symbol{"Enumerable", "Comparable"}, got.Modules)
	require.True(t, ValuesEqual(NewInt(5), got.Inner))
}

func TestWrite_DataRoundTrip(t *testing.T) {
	d := &DataValue{Class: "Time", Inner: NewText("2024-01-01")}
	out, err := Writes(d)
	require.NoError(t, err)

	back, err := Loads(out)
	require.NoError(t, err)
	got, ok := back.(*DataValue)
	require.True(t, ok)
	require.Equal(t, Symbol("Time"), got.Class)
}
