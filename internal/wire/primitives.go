// Package wire implements the primitive byte-level codec for the RB
// serialization format: unsigned 16-bit little-endian, signed byte,
// unsigned byte, and the variable-length "packed long" integer encoding
// used pervasively for lengths and for the fixnum type.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/scigolib/rbmarshal/internal/utils"
)

// ReadUbyte reads one unsigned byte.
func ReadUbyte(r io.Reader) (byte, error) {
	buf := utils.GetBuffer(1)
	defer utils.ReleaseBuffer(buf)

	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, utils.WrapError(utils.KindTruncatedInput, "reading ubyte", err)
	}
	return buf[0], nil
}

// ReadSbyte reads one signed byte.
func ReadSbyte(r io.Reader) (int8, error) {
	b, err := ReadUbyte(r)
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

// ReadUshort reads a little-endian unsigned 16-bit value.
func ReadUshort(r io.Reader) (uint16, error) {
	buf := utils.GetBuffer(2)
	defer utils.ReleaseBuffer(buf)

	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, utils.WrapError(utils.KindTruncatedInput, "reading ushort", err)
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// WriteUbyte writes one unsigned byte.
func WriteUbyte(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

// WriteSbyte writes one signed byte.
func WriteSbyte(w io.Writer, v int8) error {
	return WriteUbyte(w, byte(v))
}

// WriteUshort writes a little-endian unsigned 16-bit value.
func WriteUshort(w io.Writer, v uint16) error {
	buf := utils.GetBuffer(2)
	defer utils.ReleaseBuffer(buf)

	binary.LittleEndian.PutUint16(buf, v)
	_, err := w.Write(buf)
	return err
}

// ReadBytes reads exactly n bytes, validating n against maxSize before
// allocating — n is attacker-controlled whenever it comes from a length
// prefix on an untrusted stream.
func ReadBytes(r io.Reader, n int, maxSize uint64, description string) ([]byte, error) {
	if err := utils.ValidateBufferSize(uint64(n), maxSize, description); err != nil {
		return nil, utils.WrapError(utils.KindTruncatedInput, description, err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, utils.WrapError(utils.KindTruncatedInput, description, err)
	}
	return buf, nil
}
