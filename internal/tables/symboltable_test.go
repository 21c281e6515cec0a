package tables

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbolTable_AddAndAt(t *testing.T) {
	st := NewSymbolTable()
	require.Equal(t, 0, st.Add("hello"))
	require.Equal(t, 1, st.Add("world"))
	require.Equal(t, 2, st.Len())

	name, err := st.At(0)
	require.NoError(t, err)
	require.Equal(t, "hello", name)

	name, err = st.At(1)
	require.NoError(t, err)
	require.Equal(t, "world", name)
}

func TestSymbolTable_IndexOutOfRange(t *testing.T) {
	st := NewSymbolTable()
	st.Add("only")

	_, err := st.At(1)
	require.Error(t, err)

	_, err = st.At(-1)
	require.Error(t, err)
}

func TestWriterSymbolTable_InternAndLookup(t *testing.T) {
	wt := NewWriterSymbolTable()

	_, ok := wt.Lookup("hello")
	require.False(t, ok)

	idx := wt.Intern("hello")
	require.Equal(t, int64(0), idx)

	got, ok := wt.Lookup("hello")
	require.True(t, ok)
	require.Equal(t, int64(0), got)

	idx2 := wt.Intern("world")
	require.Equal(t, int64(1), idx2)
}
