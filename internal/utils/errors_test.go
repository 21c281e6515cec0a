package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecError_Error(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		context  string
		cause    error
		expected string
	}{
		{
			name:     "with cause",
			kind:     KindTruncatedInput,
			context:  "reading packed long",
			cause:    errors.New("unexpected EOF"),
			expected: "truncated input: reading packed long: unexpected EOF",
		},
		{
			name:     "without cause",
			kind:     KindUnknownTag,
			context:  "tag 0x7f",
			expected: "unknown tag: tag 0x7f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &CodecError{Kind: tt.kind, Context: tt.context, Cause: tt.cause}
			require.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestWrapError_NilCause(t *testing.T) {
	require.Nil(t, WrapError(KindTruncatedInput, "anything", nil))
}

func TestWrapError_Unwrap(t *testing.T) {
	base := errors.New("short read")
	wrapped := WrapError(KindTruncatedInput, "reading header", base)

	require.NotNil(t, wrapped)
	require.Equal(t, base, errors.Unwrap(wrapped))
	require.True(t, errors.Is(wrapped, base))
}

func TestCodecError_IsBySentinel(t *testing.T) {
	err := WrapError(KindIndexOutOfRange, "object link 3", errors.New("table has 2 entries"))

	require.True(t, errors.Is(err, ErrIndexOutOfRange))
	require.False(t, errors.Is(err, ErrBadHeader))
}

func TestKindOf(t *testing.T) {
	err := NewError(KindSymbolExpected, "class name position")

	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindSymbolExpected, kind)

	_, ok = KindOf(errors.New("plain error"))
	require.False(t, ok)
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "bad header", KindBadHeader.String())
	require.Equal(t, "unrepresentable", KindUnrepresentable.String())
}
