package wire

import (
	"io"

	"github.com/scigolib/rbmarshal/internal/utils"
)

// ReadLong reads one packed long and returns it as an int64.
// The encoding covers roughly ±2^40, well within int64 range.
func ReadLong(r io.Reader) (int64, error) {
	h, err := ReadSbyte(r)
	if err != nil {
		return 0, err
	}

	switch {
	case h == 0:
		return 0, nil
	case h > 5 && h < 128:
		return int64(h) - 5, nil
	case h > -129 && h < -5:
		return int64(h) + 5, nil
	}

	n := int(h)
	if n < 0 {
		n = -n
	}
	if n > 5 {
		return 0, utils.NewError(utils.KindTruncatedInput, "packed long byte count exceeds 5")
	}

	var v int64
	var factor int64 = 1
	for i := 0; i < n; i++ {
		b, err := ReadUbyte(r)
		if err != nil {
			return 0, err
		}
		v += int64(b) * factor
		factor *= 256
	}

	if h < 0 {
		v -= factor
	}
	return v, nil
}

// WriteLong writes v as a packed long, choosing the shortest encoding
// that round-trips it.
func WriteLong(w io.Writer, v int64) error {
	switch {
	case v == 0:
		return WriteSbyte(w, 0)
	case v > 0 && v < 123:
		return WriteSbyte(w, int8(v+5))
	case v < 0 && v > -124:
		return WriteSbyte(w, int8(v-5))
	}

	bytes, neg := magnitudeBytes(v)
	n := len(bytes)
	if n > 5 {
		return utils.NewError(utils.KindUnrepresentable, "integer too large for packed long")
	}

	sign := int8(n)
	if neg {
		sign = -sign
	}
	if err := WriteSbyte(w, sign); err != nil {
		return err
	}
	for _, b := range bytes {
		if err := WriteUbyte(w, b); err != nil {
			return err
		}
	}
	return nil
}

// magnitudeBytes returns the minimal little-endian byte sequence such
// that, when later reconstituted by ReadLong's "v - 256^n" rule for
// negative values (or directly for positive values), it reproduces v.
func magnitudeBytes(v int64) (bytes []byte, neg bool) {
	neg = v < 0

	var mag uint64
	if neg {
		mag = uint64(-v)
	} else {
		mag = uint64(v)
	}

	if !neg {
		for mag > 0 {
			bytes = append(bytes, byte(mag&0xff))
			mag >>= 8
		}
		return bytes, neg
	}

	// Find the smallest n such that 256^n - mag fits in n unsigned bytes,
	// i.e. mag <= 256^n. This mirrors the reference writer's approach of
	// picking the byte-count from the value's bit length and adjusting.
	n := 1
	limit := uint64(256)
	for mag > limit {
		n++
		limit *= 256
	}
	encoded := limit - mag
	bytes = make([]byte, n)
	for i := 0; i < n; i++ {
		bytes[i] = byte(encoded & 0xff)
		encoded >>= 8
	}
	return bytes, neg
}
