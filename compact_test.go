package rbmarshal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_WithCompaction_PreservesContent(t *testing.T) {
	arr := &Array{Items: []Value{
		NewText("repeated"),
		NewText("repeated"),
		&ByteString{Data: []byte("repeated")},
	}}
	encoded, err := Writes(arr)
	require.NoError(t, err)

	back, err := Loads(encoded, WithCompaction())
	require.NoError(t, err)

	got, ok := back.(*Array)
	require.True(t, ok)
	require.Len(t, got.Items, 3)
	require.Equal(t, "repeated", got.Items[0].(*DecodedString).Text)
	require.Equal(t, "repeated", got.Items[1].(*DecodedString).Text)
	require.Equal(t, []byte("repeated"), got.Items[2].(*ByteString).Data)
}

func TestLoad_WithCompaction_EmptyTreeIsNoOp(t *testing.T) {
	encoded, err := Writes(Null{})
	require.NoError(t, err)

	back, err := Loads(encoded, WithCompaction())
	require.NoError(t, err)
	require.Equal(t, Null{}, back)
}

func TestLoad_WithoutCompaction_StillRoundTrips(t *testing.T) {
	arr := &Array{Items: []Value{NewText("a"), NewText("b")}}
	encoded, err := Writes(arr)
	require.NoError(t, err)

	back, err := Loads(encoded)
	require.NoError(t, err)
	require.True(t, ValuesEqual(arr, back))
}
