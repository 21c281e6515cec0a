package rbmarshal

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes a stable structural hash of v, suitable for
// deduplicating or indexing decoded values without re-encoding them.
// Two acyclic values that are ValuesEqual always hash the same. Repeated
// (shared) substructure is hashed again at each occurrence; a reference
// back into a value that is still being hashed (a cycle) contributes a
// fixed marker instead of being expanded, so a fingerprint terminates on
// any value Load can produce. Cyclic values that ValuesEqual accepts can
// still hash differently when their cycles close at different depths.
func Fingerprint(v Value) uint64 {
	d := xxhash.New()
	visiting := map[any]bool{}
	writeFingerprint(d, v, visiting)
	return d.Sum64()
}

func writeFingerprint(d *xxhash.Digest, v Value, visiting map[any]bool) {
	if v == nil {
		d.Write([]byte{byte(KindNull), 0})
		return
	}

	var buf [8]byte
	writeKind := func(k Kind) { d.Write([]byte{byte(k)}) }

	if visiting[v] {
		writeKind(KindObject)
		d.Write([]byte("<cycle>"))
		return
	}

	switch val := v.(type) {
	case Null:
		writeKind(KindNull)
	case Bool:
		writeKind(KindBool)
		if val {
			d.Write([]byte{1})
		} else {
			d.Write([]byte{0})
		}
	case Int:
		writeKind(KindInt)
		if val.V != nil {
			d.Write(val.V.Bytes())
			d.Write([]byte{byte(val.V.Sign() + 1)})
		}
	case Symbol:
		writeKind(KindSymbol)
		d.Write([]byte(val))
	case *Float:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindFloat)
		bits := math.Float64bits(val.V)
		switch {
		case val.V == 0:
			bits = 0 // 0 and -0 are ValuesEqual
		case math.IsNaN(val.V):
			bits = math.Float64bits(math.NaN()) // all NaNs are ValuesEqual
		}
		binary.LittleEndian.PutUint64(buf[:], bits)
		d.Write(buf[:])
	case *ByteString:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindByteString)
		d.Write(val.Data)
	case *DecodedString:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindDecodedString)
		d.Write([]byte(val.Text))
		d.Write([]byte(val.Encoding))
	case *Regex:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindRegex)
		d.Write([]byte(val.Pattern))
		flags := byte(0)
		if val.IgnoreCase {
			flags |= 1
		}
		if val.Multiline {
			flags |= 2
		}
		d.Write([]byte{flags})
	case *Array:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindArray)
		binary.LittleEndian.PutUint64(buf[:], uint64(len(val.Items)))
		d.Write(buf[:])
		for _, item := range val.Items {
			writeFingerprint(d, item, visiting)
		}
	case *Hash:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindHash)
		binary.LittleEndian.PutUint64(buf[:], uint64(len(val.Entries)))
		d.Write(buf[:])
		for _, e := range val.Entries {
			writeFingerprint(d, e.Key, visiting)
			writeFingerprint(d, e.Value, visiting)
		}
	case *UserMarshal:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindUserMarshal)
		d.Write([]byte(val.Class))
		writeFingerprint(d, val.Inner, visiting)
	case *UserDef:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindUserDef)
		d.Write([]byte(val.Class))
		d.Write(val.Data)
	case *Object:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindObject)
		d.Write([]byte(val.Class))
		writeAttrFingerprint(d, val.Attrs, visiting)
	case *Module:
		writeKind(KindModule)
		d.Write([]byte(val.Name))
	case *Class:
		writeKind(KindClass)
		d.Write([]byte(val.Name))
	case *StructValue:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindStruct)
		d.Write([]byte(val.Class))
		writeAttrFingerprint(d, val.Attrs, visiting)
	case *DataValue:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindData)
		d.Write([]byte(val.Class))
		writeFingerprint(d, val.Inner, visiting)
	case *ExtendedValue:
		visiting[v] = true
		defer delete(visiting, v)
		writeKind(KindExtended)
		for _, m := range val.Modules {
			d.Write([]byte(m))
		}
		writeFingerprint(d, val.Inner, visiting)
	}
}

func writeAttrFingerprint(d *xxhash.Digest, attrs *Attributes, visiting map[any]bool) {
	attrs.Each(func(name Symbol, value Value) {
		d.Write([]byte(name))
		writeFingerprint(d, value, visiting)
	})
}
