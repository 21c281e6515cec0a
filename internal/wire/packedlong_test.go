package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadLong_SpecVectors(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		want  int64
	}{
		{"zero", []byte{0x00}, 0},
		{"one", []byte{0x06}, 1},
		{"one hundred twenty two", []byte{0x7F}, 122},
		{"one hundred twenty three", []byte{0x01, 0x7B}, 123},
		{"negative one", []byte{0xFA}, -1},
		{"negative one hundred twenty four", []byte{0xFF, 0x84}, -124},
		{"negative two hundred fifty seven", []byte{0xFE, 0xFF, 0xFE}, -257},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLong(bytes.NewReader(tt.bytes))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestWriteLong_SpecVectors(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		want  []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"one", 1, []byte{0x06}},
		{"one hundred twenty two", 122, []byte{0x7F}},
		{"one hundred twenty three", 123, []byte{0x01, 0x7B}},
		{"negative one", -1, []byte{0xFA}},
		{"negative one hundred twenty four", -124, []byte{0xFF, 0x84}},
		{"negative two hundred fifty seven", -257, []byte{0xFE, 0xFF, 0xFE}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteLong(&buf, tt.value))
			require.Equal(t, tt.want, buf.Bytes())
		})
	}
}

func TestPackedLong_RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 122, 123, -123, -124, 1000, -1000, 1 << 20, -(1 << 20), 1 << 39, -(1 << 39)}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, WriteLong(&buf, v))
		got, err := ReadLong(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestPackedLong_Minimal(t *testing.T) {
	// No encoded form should be longer than necessary: small magnitudes
	// fit in the single-byte direct ranges.
	var buf bytes.Buffer
	require.NoError(t, WriteLong(&buf, 1))
	require.Len(t, buf.Bytes(), 1)

	buf.Reset()
	require.NoError(t, WriteLong(&buf, 123))
	require.Len(t, buf.Bytes(), 2)
}
