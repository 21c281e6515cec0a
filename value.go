// Package rbmarshal implements a codec for the RB binary object
// serialization format: a reader that decodes a byte stream into an
// in-memory value tree, and a writer that encodes such a tree back into
// bytes, bit-exact, including cyclic and shared substructures.
package rbmarshal

import (
	"math/big"
)

// Kind identifies which of the fifteen wire variants (plus the three
// optional struct/data/extended tags) a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindSymbol
	KindByteString
	KindDecodedString
	KindRegex
	KindArray
	KindHash
	KindUserMarshal
	KindUserDef
	KindObject
	KindModule
	KindClass
	KindStruct
	KindData
	KindExtended
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindSymbol:
		return "Symbol"
	case KindByteString:
		return "ByteString"
	case KindDecodedString:
		return "DecodedString"
	case KindRegex:
		return "Regex"
	case KindArray:
		return "Array"
	case KindHash:
		return "Hash"
	case KindUserMarshal:
		return "UserMarshal"
	case KindUserDef:
		return "UserDef"
	case KindObject:
		return "Object"
	case KindModule:
		return "Module"
	case KindClass:
		return "Class"
	case KindStruct:
		return "Struct"
	case KindData:
		return "Data"
	case KindExtended:
		return "Extended"
	default:
		return "Unknown"
	}
}

// Value is the tagged-sum value-tree node. It is implemented by one
// concrete type per variant rather than an inheritance chain:
// a type switch on the concrete type, or a call to Kind, dispatches.
type Value interface {
	Kind() Kind
}

// Null is the wire's Nil token. It carries no payload and is never
// shared: by-value, never entered into the object table.
type Null struct{}

// Kind implements Value.
func (Null) Kind() Kind { return KindNull }

// Bool is the wire's True/False token.
type Bool bool

// Kind implements Value.
func (Bool) Kind() Kind { return KindBool }

// Int is the RB fixnum/bignum integer, a signed arbitrary-precision
// value. A fixnum (bit length up to 40) is by-value like Null, Bool, and
// Symbol and never entered into the object table; a bignum occupies an
// object-table slot, keyed on the identity of its *big.Int.
type Int struct {
	V *big.Int
}

// Kind implements Value.
func (Int) Kind() Kind { return KindInt }

// NewInt builds an Int from a native int64.
func NewInt(v int64) Int {
	return Int{V: big.NewInt(v)}
}

// Float is a 64-bit IEEE-754 value. Unlike Int, Float is shareable —
// the foreign runtime treats floats as
// heap objects with identity, so Float is a pointer type: two Floats
// built from the same pointer are the same object and will be written
// as an object-link the second time they're encountered.
type Float struct {
	V float64
}

// Kind implements Value.
func (*Float) Kind() Kind { return KindFloat }

// Symbol is an interned name. Two decoded Symbols with equal text are
// equal under Go's own string comparison, which is sufficient to satisfy
// the "same name means same value" property without
// needing an explicit process-wide interning table on this side.
type Symbol string

// Kind implements Value.
func (Symbol) Kind() Kind { return KindSymbol }

// ByteString is a raw, undecoded byte payload. Per the reference
// implementation, a bare byte string (not wrapped in an IVAR) is never
// entered into the object table even though the data model calls
// ByteString shareable in the abstract — sharing only happens once a
// string is IVAR-wrapped, at which point the decoder produces a
// DecodedString instead (see reader.go's ivar handling).
type ByteString struct {
	Data []byte
}

// Kind implements Value.
func (*ByteString) Kind() Kind { return KindByteString }

// DecodedString is a byte payload with an attached attribute map and,
// implicitly, a declared text encoding (tracked via the reserved "E" and
// "encoding" attribute keys). Text holds the bytes reinterpreted
// as a Go string without any transcoding — Go strings are just byte
// sequences, so this is lossless and keeps writes(loads(b)) bit-exact
// even for encodings Go cannot itself decode.
type DecodedString struct {
	Text     string
	Encoding string // "UTF-8", "US-ASCII", or an arbitrary registered name
	Attrs    *Attributes
}

// Kind implements Value.
func (*DecodedString) Kind() Kind { return KindDecodedString }

// NewText builds a UTF-8 DecodedString, the Go equivalent of the foreign
// runtime's native string literal.
func NewText(s string) *DecodedString {
	return &DecodedString{Text: s, Encoding: "UTF-8"}
}

// Regex is a pattern plus its flag set.
type Regex struct {
	Pattern    string
	IgnoreCase bool
	// Multiline is wire flag-bit 2. Ruby's own Regexp::MULTILINE is
	// actually dot-matches-newline ("dotall") semantics, not line-anchor
	// semantics; this field is named to match the wire bit's common name,
	// not to claim a particular regex-engine meaning.
	Multiline bool
	Attrs     *Attributes
}

// Kind implements Value.
func (*Regex) Kind() Kind { return KindRegex }

// Array is an ordered, mutable sequence of values.
type Array struct {
	Items []Value
}

// Kind implements Value.
func (*Array) Kind() Kind { return KindArray }

// HashEntry is one (key, value) pair of a Hash, preserving wire order.
type HashEntry struct {
	Key   Value
	Value Value
}

// Hash is an insertion-ordered mapping, represented as an ordered pair
// list rather than a Go map so that key order survives round-tripping.
type Hash struct {
	Entries []HashEntry
}

// Kind implements Value.
func (*Hash) Kind() Kind { return KindHash }

// Get returns the value for key, and whether it was found. Keys are
// matched with valuesEqual: scalars and strings by content, other kinds
// by identity.
func (h *Hash) Get(key Value) (Value, bool) {
	for _, e := range h.Entries {
		if valuesEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Set appends key/value, or updates it in place if key is already present.
func (h *Hash) Set(key, value Value) {
	for i, e := range h.Entries {
		if valuesEqual(e.Key, key) {
			h.Entries[i].Value = value
			return
		}
	}
	h.Entries = append(h.Entries, HashEntry{Key: key, Value: value})
}

// UserMarshal is a value with a user-defined serialization format using
// the foreign runtime's marshal_dump/marshal_load protocol: the inner
// Value is whatever marshal_dump returned, opaque to this codec.
type UserMarshal struct {
	Class Symbol
	Inner Value
}

// Kind implements Value.
func (*UserMarshal) Kind() Kind { return KindUserMarshal }

// UserDef is a value with a user-defined serialization format using the
// foreign runtime's _dump/_load protocol: Data is the opaque byte blob
// _dump produced. Executing _load is out of scope; Data is surfaced as-is.
type UserDef struct {
	Class Symbol
	Data  []byte
	Attrs *Attributes
}

// Kind implements Value.
func (*UserDef) Kind() Kind { return KindUserDef }

// Object is a plain instance: a class name plus its instance-variable
// attribute map.
type Object struct {
	Class Symbol
	Attrs *Attributes
}

// Kind implements Value.
func (*Object) Kind() Kind { return KindObject }

// Module names a module (namespace) value.
type Module struct {
	Name string
}

// Kind implements Value.
func (*Module) Kind() Kind { return KindModule }

// Class names a class value.
type Class struct {
	Name string
}

// Kind implements Value.
func (*Class) Kind() Kind { return KindClass }

// StructValue decodes the optional "S" tag. Its wire shape is
// identical to Object's; it is kept as a distinct Go type purely so a
// decoded Struct re-encodes as "S" rather than silently turning into "o".
type StructValue struct {
	Class Symbol
	Attrs *Attributes
}

// Kind implements Value.
func (*StructValue) Kind() Kind { return KindStruct }

// DataValue decodes the optional "d" tag. Its wire shape is
// identical to UserMarshal's, kept distinct for the same re-encoding reason.
type DataValue struct {
	Class Symbol
	Inner Value
}

// Kind implements Value.
func (*DataValue) Kind() Kind { return KindData }

// ExtendedValue decodes the optional "e" tag: zero or more
// module symbols extending a single inner value.
type ExtendedValue struct {
	Modules []Symbol
	Inner   Value
}

// Kind implements Value.
func (*ExtendedValue) Kind() Kind { return KindExtended }
