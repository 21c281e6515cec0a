package rbmarshal

import (
	"bytes"
	"fmt"
	"io"

	"github.com/scigolib/rbmarshal/archive"
)

// LoadCompressed decodes a value that was previously produced by
// WriteCompressed: a one-byte archive.Tag followed by a compressed RB
// stream. The caller supplies the codec explicitly, symmetric with
// WriteCompressed; the leading tag byte is still checked against it so a
// stream compressed with a different codec is rejected instead of
// silently decompressed with the wrong algorithm. It is a convenience
// wrapper — the wire format itself has no notion of compression, so this
// framing is local to this library and never appears inside a plain
// Load/Loads stream.
func LoadCompressed(source io.Reader, codec archive.Codec, opts ...ReadOption) (Value, error) {
	data, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("rbmarshal: reading compressed stream: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("rbmarshal: empty compressed stream")
	}
	if archive.Tag(data[0]) != codec.Tag() {
		return nil, fmt.Errorf("rbmarshal: compressed stream tag %d does not match codec tag %d", data[0], codec.Tag())
	}

	plain, err := codec.Decompress(data[1:])
	if err != nil {
		return nil, fmt.Errorf("rbmarshal: decompressing stream: %w", err)
	}
	return Loads(plain, opts...)
}

// WriteCompressed encodes v and compresses the result with codec,
// prefixing the output with codec's one-byte tag so LoadCompressed can
// reject the stream when it is given a different codec.
func WriteCompressed(sink io.Writer, v Value, codec archive.Codec) error {
	var buf bytes.Buffer
	if err := Write(&buf, v); err != nil {
		return err
	}
	compressed, err := codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("rbmarshal: compressing stream: %w", err)
	}
	if _, err := sink.Write([]byte{byte(codec.Tag())}); err != nil {
		return err
	}
	_, err = sink.Write(compressed)
	return err
}
