package compact

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestInterner_SameContentSharesBacking(t *testing.T) {
	corpus := []string{"hello world", "hello there", "hello world"}
	in := NewInterner(corpus)

	a := in.Intern("hello world")
	b := in.Intern("hello world")
	require.Equal(t, "hello world", a)
	require.Equal(t, "hello world", b)
	require.Same(t, unsafe.StringData(a), unsafe.StringData(b))
}

func TestInterner_EmptyCorpus(t *testing.T) {
	in := NewInterner(nil)
	require.Equal(t, "anything", in.Intern("anything"))
}

func TestInterner_PreservesContent(t *testing.T) {
	corpus := []string{"abcabcabc", "abcxyzabc", "xyzxyzxyz"}
	in := NewInterner(corpus)
	for _, s := range corpus {
		require.Equal(t, s, in.Intern(s))
	}
}
