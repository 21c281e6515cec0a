package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUbyteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUbyte(&buf, 0xAB))
	v, err := ReadUbyte(&buf)
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), v)
}

func TestUshortRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUshort(&buf, 0x1234))
	encoded := append([]byte(nil), buf.Bytes()...)
	v, err := ReadUshort(&buf)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v)
	require.Equal(t, []byte{0x34, 0x12}, encoded) // little-endian sanity
}

func TestReadBytes_RejectsOversizedLength(t *testing.T) {
	_, err := ReadBytes(bytes.NewReader(nil), 1<<30, 1024, "attacker-controlled length")
	require.Error(t, err)
}

func TestReadBytes_Truncated(t *testing.T) {
	_, err := ReadBytes(bytes.NewReader([]byte{1, 2}), 5, 1024, "short read")
	require.Error(t, err)
}
