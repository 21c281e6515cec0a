package rbmarshal

import (
	"bytes"
	"io"
	"math"
	"math/big"
	"regexp"
	"strconv"

	"github.com/scigolib/rbmarshal/internal/tables"
	"github.com/scigolib/rbmarshal/internal/utils"
	"github.com/scigolib/rbmarshal/internal/wire"
)

// trimmableFloat matches a formatted float with no sign and no exponent
// whose trailing zeros after the decimal point should be trimmed. This
// exact, slightly quirky shape — not a general shortest-decimal rule —
// is what bit-exact round-tripping against the reference encoder needs.
var trimmableFloat = regexp.MustCompile(`^[0-9]+\.[0-9]*0+$`)

// maxBignumBits is the threshold above which an Int is written as a
// bignum instead of a packed-long fixnum.
const maxBignumBits = 40

// writer is the type-dispatched recursive encoder.
type writer struct {
	w       io.Writer
	symbols *tables.WriterSymbolTable
	objects *tables.WriterObjectTable
}

// Write encodes v to sink, preceded by the 04 08 version header.
func Write(sink io.Writer, v Value) error {
	w := &writer{
		w:       sink,
		symbols: tables.NewWriterSymbolTable(),
		objects: tables.NewWriterObjectTable(),
	}
	if err := wire.WriteUbyte(w.w, versionMajor); err != nil {
		return err
	}
	if err := wire.WriteUbyte(w.w, versionMinor); err != nil {
		return err
	}
	return w.writeValue(v)
}

// Writes encodes v into a freshly allocated byte buffer.
func Writes(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *writer) writeValue(v Value) error {
	if v == nil {
		return wire.WriteUbyte(w.w, tagNull)
	}
	switch val := v.(type) {
	case Null:
		return wire.WriteUbyte(w.w, tagNull)
	case Bool:
		if val {
			return wire.WriteUbyte(w.w, tagTrue)
		}
		return wire.WriteUbyte(w.w, tagFalse)
	case Int:
		return w.writeInt(val)
	case Symbol:
		return w.writeSymbol(val)
	case *Float:
		return w.writeShareable(val, func() error { return w.writeFloatBody(val) })
	case *ByteString:
		return w.writeRawString(val.Data)
	case *DecodedString:
		return w.writeShareable(val, func() error { return w.writeDecodedStringBody(val) })
	case *Regex:
		return w.writeShareable(val, func() error { return w.writeRegexBody(val) })
	case *Array:
		return w.writeShareable(val, func() error { return w.writeArrayBody(val) })
	case *Hash:
		return w.writeShareable(val, func() error { return w.writeHashBody(val) })
	case *UserMarshal:
		return w.writeShareable(val, func() error { return w.writeUserMarshalBody(val) })
	case *UserDef:
		return w.writeUserDef(val)
	case *Object:
		return w.writeShareable(val, func() error { return w.writeObjectBody(val) })
	case *Module:
		return w.writeShareable(val, func() error { return w.writeModuleBody(val) })
	case *Class:
		return w.writeShareable(val, func() error { return w.writeClassBody(val) })
	case *StructValue:
		return w.writeShareable(val, func() error { return w.writeStructBody(val) })
	case *DataValue:
		return w.writeShareable(val, func() error { return w.writeDataBody(val) })
	case *ExtendedValue:
		return w.writeShareable(val, func() error { return w.writeExtendedBody(val) })
	default:
		return utils.NewError(utils.KindUnrepresentable, "no wire mapping for value")
	}
}

// writeShareable implements the consult-map/link-or-install protocol
// for every pointer-identity-shareable variant.
func (w *writer) writeShareable(key any, body func() error) error {
	if idx, ok := w.objects.Lookup(key); ok {
		if err := wire.WriteUbyte(w.w, tagLink); err != nil {
			return err
		}
		return wire.WriteLong(w.w, idx)
	}
	w.objects.Install(key)
	return body()
}

func (w *writer) writeInt(v Int) error {
	if v.V == nil {
		v.V = big.NewInt(0)
	}
	if v.V.BitLen() <= maxBignumBits {
		if err := wire.WriteUbyte(w.w, tagInt); err != nil {
			return err
		}
		return wire.WriteLong(w.w, v.V.Int64())
	}
	return w.writeShareable(v.V, func() error { return w.writeBignumBody(v.V) })
}

func (w *writer) writeBignumBody(v *big.Int) error {
	mag := new(big.Int).Abs(v)
	sign := byte('+')
	if v.Sign() < 0 {
		sign = '-'
	}
	if err := wire.WriteUbyte(w.w, tagBignum); err != nil {
		return err
	}
	if err := wire.WriteUbyte(w.w, sign); err != nil {
		return err
	}

	base := big.NewInt(65536)
	var limbs []uint16
	tmp := new(big.Int).Set(mag)
	rem := new(big.Int)
	for tmp.Sign() > 0 {
		tmp.QuoRem(tmp, base, rem)
		limbs = append(limbs, uint16(rem.Uint64()))
	}
	if err := wire.WriteLong(w.w, int64(len(limbs))); err != nil {
		return err
	}
	for _, limb := range limbs {
		if err := wire.WriteUshort(w.w, limb); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeSymbol(s Symbol) error {
	name := string(s)
	if idx, ok := w.symbols.Lookup(name); ok {
		if err := wire.WriteUbyte(w.w, tagSymlink); err != nil {
			return err
		}
		return wire.WriteLong(w.w, idx)
	}
	w.symbols.Intern(name)
	if err := wire.WriteUbyte(w.w, tagSymbol); err != nil {
		return err
	}
	data := []byte(name)
	if err := wire.WriteLong(w.w, int64(len(data))); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

// writeRawString emits a bare byte string with no object-table
// consultation: raw strings are never shared on the wire, unlike the
// IVAR-wrapped, shareable forms.
func (w *writer) writeRawString(data []byte) error {
	if err := wire.WriteUbyte(w.w, tagString); err != nil {
		return err
	}
	if err := wire.WriteLong(w.w, int64(len(data))); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

func (w *writer) writeFloatBody(f *Float) error {
	text := formatFloat(f.V)
	if err := wire.WriteUbyte(w.w, tagFloat); err != nil {
		return err
	}
	data := []byte(text)
	if err := wire.WriteLong(w.w, int64(len(data))); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', 20, 64)
	if trimmableFloat.MatchString(s) {
		for len(s) > 0 && s[len(s)-1] == '0' {
			s = s[:len(s)-1]
		}
	}
	return s
}

func (w *writer) writeDecodedStringBody(ds *DecodedString) error {
	if err := wire.WriteUbyte(w.w, tagIVAR); err != nil {
		return err
	}
	if err := w.writeRawString([]byte(ds.Text)); err != nil {
		return err
	}
	attrs := NewAttributes()
	switch ds.Encoding {
	case "UTF-8":
		attrs.Set("E", Bool(true))
	case "US-ASCII", "":
		attrs.Set("E", Bool(false))
	default:
		attrs.Set("encoding", &ByteString{Data: []byte(ds.Encoding)})
	}
	ds.Attrs.Each(func(name Symbol, value Value) {
		attrs.Set(name, value)
	})
	return w.writeAttributeBlock(attrs)
}

func (w *writer) writeRegexBody(re *Regex) error {
	if err := wire.WriteUbyte(w.w, tagIVAR); err != nil {
		return err
	}
	if err := wire.WriteUbyte(w.w, tagRegex); err != nil {
		return err
	}
	pattern := []byte(re.Pattern)
	if err := wire.WriteLong(w.w, int64(len(pattern))); err != nil {
		return err
	}
	if _, err := w.w.Write(pattern); err != nil {
		return err
	}
	var opts byte
	if re.IgnoreCase {
		opts |= 0x01
	}
	if re.Multiline {
		opts |= 0x04
	}
	if err := wire.WriteUbyte(w.w, opts); err != nil {
		return err
	}

	attrs := re.Attrs
	if attrs == nil || attrs.Len() == 0 {
		attrs = NewAttributes()
		attrs.Set("E", Bool(false))
	}
	return w.writeAttributeBlock(attrs)
}

func (w *writer) writeAttributeBlock(attrs *Attributes) error {
	if err := wire.WriteLong(w.w, int64(attrs.Len())); err != nil {
		return err
	}
	var outerErr error
	attrs.Each(func(name Symbol, value Value) {
		if outerErr != nil {
			return
		}
		if err := w.writeSymbol(name); err != nil {
			outerErr = err
			return
		}
		outerErr = w.writeValue(value)
	})
	return outerErr
}

func (w *writer) writeArrayBody(arr *Array) error {
	if err := wire.WriteUbyte(w.w, tagArray); err != nil {
		return err
	}
	if err := wire.WriteLong(w.w, int64(len(arr.Items))); err != nil {
		return err
	}
	for _, item := range arr.Items {
		if err := w.writeValue(item); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeHashBody(h *Hash) error {
	if err := wire.WriteUbyte(w.w, tagHash); err != nil {
		return err
	}
	if err := wire.WriteLong(w.w, int64(len(h.Entries))); err != nil {
		return err
	}
	for _, e := range h.Entries {
		if err := w.writeValue(e.Key); err != nil {
			return err
		}
		if err := w.writeValue(e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeUserMarshalBody(um *UserMarshal) error {
	if err := wire.WriteUbyte(w.w, tagUserMarshal); err != nil {
		return err
	}
	if err := w.writeSymbol(um.Class); err != nil {
		return err
	}
	return w.writeValue(um.Inner)
}

// writeUserDef handles the one variant whose object-table participation
// is conditional: a UserDef with no attributes is written bare (and
// reserves its own slot); one with attributes is IVAR-wrapped, and the
// wrapper's slot stands in for it.
func (w *writer) writeUserDef(ud *UserDef) error {
	if ud.Attrs != nil && ud.Attrs.Len() > 0 {
		return w.writeShareable(ud, func() error {
			if err := wire.WriteUbyte(w.w, tagIVAR); err != nil {
				return err
			}
			if err := w.writeUserDefBody(ud); err != nil {
				return err
			}
			return w.writeAttributeBlock(ud.Attrs)
		})
	}
	return w.writeShareable(ud, func() error { return w.writeUserDefBody(ud) })
}

func (w *writer) writeUserDefBody(ud *UserDef) error {
	if err := wire.WriteUbyte(w.w, tagUserDef); err != nil {
		return err
	}
	if err := w.writeSymbol(ud.Class); err != nil {
		return err
	}
	if err := wire.WriteLong(w.w, int64(len(ud.Data))); err != nil {
		return err
	}
	_, err := w.w.Write(ud.Data)
	return err
}

func (w *writer) writeObjectBody(obj *Object) error {
	if err := wire.WriteUbyte(w.w, tagObject); err != nil {
		return err
	}
	if err := w.writeSymbol(obj.Class); err != nil {
		return err
	}
	return w.writeAttributeBlock(obj.Attrs)
}

func (w *writer) writeModuleBody(m *Module) error {
	if err := wire.WriteUbyte(w.w, tagModule); err != nil {
		return err
	}
	data := []byte(m.Name)
	if err := wire.WriteLong(w.w, int64(len(data))); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

func (w *writer) writeClassBody(c *Class) error {
	if err := wire.WriteUbyte(w.w, tagClass); err != nil {
		return err
	}
	data := []byte(c.Name)
	if err := wire.WriteLong(w.w, int64(len(data))); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

func (w *writer) writeStructBody(s *StructValue) error {
	if err := wire.WriteUbyte(w.w, tagStruct); err != nil {
		return err
	}
	if err := w.writeSymbol(s.Class); err != nil {
		return err
	}
	return w.writeAttributeBlock(s.Attrs)
}

func (w *writer) writeDataBody(d *DataValue) error {
	if err := wire.WriteUbyte(w.w, tagData); err != nil {
		return err
	}
	if err := w.writeSymbol(d.Class); err != nil {
		return err
	}
	return w.writeValue(d.Inner)
}

func (w *writer) writeExtendedBody(e *ExtendedValue) error {
	for _, mod := range e.Modules {
		if err := wire.WriteUbyte(w.w, tagExtended); err != nil {
			return err
		}
		if err := w.writeSymbol(mod); err != nil {
			return err
		}
	}
	return w.writeValue(e.Inner)
}
