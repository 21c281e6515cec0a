package rbmarshal

import (
	"bytes"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/scigolib/rbmarshal/internal/tables"
	"github.com/scigolib/rbmarshal/internal/utils"
	"github.com/scigolib/rbmarshal/internal/wire"
)

const (
	tagNull        = '0'
	tagTrue        = 'T'
	tagFalse       = 'F'
	tagInt         = 'i'
	tagBignum      = 'l'
	tagFloat       = 'f'
	tagSymbol      = ':'
	tagSymlink     = ';'
	tagLink        = '@'
	tagArray       = '['
	tagHash        = '{'
	tagString      = '"'
	tagRegex       = '/'
	tagIVAR        = 'I'
	tagUserMarshal = 'U'
	tagUserDef     = 'u'
	tagObject      = 'o'
	tagModule      = 'm'
	tagClass       = 'c'
	tagStruct      = 'S'
	tagData        = 'd'
	tagExtended    = 'e'
)

const (
	versionMajor = 4
	versionMinor = 8
)

// readConfig holds options shared by Load and Loads.
type readConfig struct {
	registry      *Registry
	compaction    bool
	lossyEncoding bool
}

// ReadOption configures Load/Loads.
type ReadOption func(*readConfig)

// WithRegistry supplies a class registry for hydrating Object, UserMarshal,
// and UserDef variants by class name.
func WithRegistry(reg *Registry) ReadOption {
	return func(c *readConfig) { c.registry = reg }
}

// WithCompaction enables opportunistic in-memory string compaction of the
// decoded value tree's strings (see internal/compact); it has no effect on the
// decoded value tree's contents, only on how repeated string payloads
// share backing storage.
func WithCompaction() ReadOption {
	return func(c *readConfig) { c.compaction = true }
}

// WithStrictEncoding rejects an IVAR-wrapped string whose declared
// encoding is UTF-8 but whose bytes are not valid UTF-8, returning
// ErrEncodingFailure instead of the default lossy byte-preserving
// fallback.
func WithStrictEncoding() ReadOption {
	return func(c *readConfig) { c.lossyEncoding = false }
}

func newReadConfig(opts []ReadOption) *readConfig {
	c := &readConfig{lossyEncoding: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// reader is the token-dispatched recursive decoder. It owns
// one symbol table and one object table for the lifetime of a single
// decode; neither is shared across calls.
type reader struct {
	r        io.Reader
	symbols  *tables.SymbolTable
	objects  *tables.ObjectTable
	cfg      *readConfig
}

// Load decodes one value from source. The stream must begin with the
// two-byte version header 04 08 followed by exactly one encoded value.
func Load(source io.Reader, opts ...ReadOption) (Value, error) {
	cfg := newReadConfig(opts)
	rd := &reader{
		r:       source,
		symbols: tables.NewSymbolTable(),
		objects: tables.NewObjectTable(),
		cfg:     cfg,
	}
	if err := rd.readHeader(); err != nil {
		return nil, err
	}
	v, err := rd.readValue()
	if err != nil {
		return nil, err
	}
	if cfg.compaction {
		compactStrings(v)
	}
	return v, nil
}

// Loads decodes one value from an in-memory byte buffer.
func Loads(b []byte, opts ...ReadOption) (Value, error) {
	return Load(bytes.NewReader(b), opts...)
}

func (r *reader) readHeader() error {
	major, err := wire.ReadUbyte(r.r)
	if err != nil {
		return utils.WrapError(utils.KindBadHeader, "reading version major", err)
	}
	minor, err := wire.ReadUbyte(r.r)
	if err != nil {
		return utils.WrapError(utils.KindBadHeader, "reading version minor", err)
	}
	if major != versionMajor || minor != versionMinor {
		return utils.NewError(utils.KindBadHeader, "version header is not 04 08")
	}
	return nil
}

func (r *reader) readValue() (Value, error) {
	tag, err := wire.ReadUbyte(r.r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagNull:
		return Null{}, nil
	case tagTrue:
		return Bool(true), nil
	case tagFalse:
		return Bool(false), nil
	case tagInt:
		return r.readInt()
	case tagBignum:
		return r.readBignum()
	case tagFloat:
		return r.readFloat()
	case tagSymbol:
		return r.readSymbolLiteral()
	case tagSymlink:
		return r.readSymlink()
	case tagLink:
		return r.readObjectLink()
	case tagArray:
		return r.readArray()
	case tagHash:
		return r.readHash()
	case tagString:
		return r.readRawString()
	case tagRegex:
		return r.readRegex()
	case tagIVAR:
		return r.readIVAR()
	case tagUserMarshal:
		return r.readUserMarshal()
	case tagUserDef:
		return r.readUserDef()
	case tagObject:
		return r.readObject()
	case tagModule:
		return r.readModule()
	case tagClass:
		return r.readClass()
	case tagStruct:
		return r.readStruct()
	case tagData:
		return r.readData()
	case tagExtended:
		return r.readExtended()
	default:
		return nil, utils.NewError(utils.KindUnknownTag, "tag byte '"+string(rune(tag))+"' not recognized")
	}
}

func (r *reader) readInt() (Value, error) {
	v, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	return NewInt(v), nil
}

func (r *reader) readBignum() (Value, error) {
	idx := r.objects.Reserve()

	signByte, err := wire.ReadUbyte(r.r)
	if err != nil {
		return nil, err
	}
	neg := signByte == '-'

	wordCount, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	if wordCount < 0 || wordCount > int64(utils.MaxBignumLimbs) {
		return nil, utils.NewError(utils.KindTruncatedInput, "bignum word count out of range")
	}
	limbBytes, err := utils.SafeMultiply(uint64(wordCount), 2)
	if err != nil {
		return nil, utils.WrapError(utils.KindTruncatedInput, "bignum byte size", err)
	}
	if err := utils.ValidateBufferSize(limbBytes, utils.MaxStringSize, "bignum limbs"); err != nil {
		return nil, utils.WrapError(utils.KindTruncatedInput, "bignum limbs", err)
	}

	mag := new(big.Int)
	base := big.NewInt(65536)
	limbs := make([]uint16, wordCount)
	for i := range limbs {
		w, err := wire.ReadUshort(r.r)
		if err != nil {
			return nil, err
		}
		limbs[i] = w
	}
	for i := len(limbs) - 1; i >= 0; i-- {
		mag.Mul(mag, base)
		mag.Add(mag, big.NewInt(int64(limbs[i])))
	}
	if neg {
		mag.Neg(mag)
	}

	v := Int{V: mag}
	r.objects.Fill(idx, v)
	return v, nil
}

func (r *reader) readFloat() (Value, error) {
	idx := r.objects.Reserve()

	length, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	raw, err := wire.ReadBytes(r.r, int(length), utils.MaxStringSize, "float literal")
	if err != nil {
		return nil, err
	}

	s := string(raw)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}

	var f float64
	switch s {
	case "inf":
		f = math.Inf(1)
	case "-inf":
		f = math.Inf(-1)
	case "nan":
		f = math.NaN()
	default:
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, utils.WrapError(utils.KindEncodingFailure, "parsing float literal "+strconv.Quote(s), err)
		}
	}

	fv := &Float{V: f}
	r.objects.Fill(idx, fv)
	return fv, nil
}

func (r *reader) readSymbolLiteral() (Value, error) {
	length, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	data, err := wire.ReadBytes(r.r, int(length), utils.MaxStringSize, "symbol literal")
	if err != nil {
		return nil, err
	}
	name := string(data)
	r.symbols.Add(name)
	return Symbol(name), nil
}

func (r *reader) readSymlink() (Value, error) {
	idx, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	name, err := r.symbols.At(idx)
	if err != nil {
		return nil, err
	}
	return Symbol(name), nil
}

func (r *reader) readObjectLink() (Value, error) {
	idx, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	v, err := r.objects.At(idx)
	if err != nil {
		return nil, err
	}
	val, ok := v.(Value)
	if !ok {
		return nil, utils.NewError(utils.KindIndexOutOfRange, "object link target not yet populated")
	}
	return val, nil
}

func (r *reader) readArray() (Value, error) {
	idx := r.objects.Reserve()
	arr := &Array{}
	r.objects.Fill(idx, arr)

	count, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateBufferSize(uint64(count), utils.MaxContainerCount, "array length"); err != nil {
		return nil, err
	}

	arr.Items = make([]Value, count)
	for i := range arr.Items {
		v, err := r.readValue()
		if err != nil {
			return nil, err
		}
		arr.Items[i] = v
	}
	return arr, nil
}

func (r *reader) readHash() (Value, error) {
	idx := r.objects.Reserve()
	h := &Hash{}
	r.objects.Fill(idx, h)

	count, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateBufferSize(uint64(count), utils.MaxContainerCount, "hash entry count"); err != nil {
		return nil, err
	}

	h.Entries = make([]HashEntry, count)
	for i := range h.Entries {
		k, err := r.readValue()
		if err != nil {
			return nil, err
		}
		v, err := r.readValue()
		if err != nil {
			return nil, err
		}
		h.Entries[i] = HashEntry{Key: k, Value: v}
	}
	return h, nil
}

func (r *reader) readRawString() (Value, error) {
	length, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	data, err := wire.ReadBytes(r.r, int(length), utils.MaxStringSize, "byte string")
	if err != nil {
		return nil, err
	}
	return &ByteString{Data: data}, nil
}

func (r *reader) readRegex() (Value, error) {
	idx := r.objects.Reserve()

	length, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	pattern, err := wire.ReadBytes(r.r, int(length), utils.MaxStringSize, "regex pattern")
	if err != nil {
		return nil, err
	}
	opts, err := wire.ReadUbyte(r.r)
	if err != nil {
		return nil, err
	}

	re := &Regex{
		Pattern:    string(pattern),
		IgnoreCase: opts&0x01 != 0,
		Multiline:  opts&0x04 != 0,
	}
	r.objects.Fill(idx, re)
	return re, nil
}

// readAttributeBlock reads a packed-long count followed by that many
// (symbol, value) pairs.
func (r *reader) readAttributeBlock() (*Attributes, error) {
	n, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateBufferSize(uint64(n), utils.MaxContainerCount, "attribute count"); err != nil {
		return nil, err
	}

	attrs := NewAttributes()
	for i := int64(0); i < n; i++ {
		key, err := r.readValue()
		if err != nil {
			return nil, err
		}
		sym, ok := key.(Symbol)
		if !ok {
			return nil, utils.NewError(utils.KindSymbolExpected, "attribute name must be a symbol")
		}
		val, err := r.readValue()
		if err != nil {
			return nil, err
		}
		attrs.Set(sym, val)
	}
	return attrs, nil
}

// readIVAR reads the inner value and then its attribute block. Only
// the ByteString case needs its own object-table slot here, reserved
// before the attribute block is read, matching the writer's order:
// Regex and UserDef already reserved and filled their own slot while
// readValue decoded them, so attaching attributes mutates that same
// object in place rather than installing a second, redundant slot for
// what is really one shareable identity.
func (r *reader) readIVAR() (Value, error) {
	inner, err := r.readValue()
	if err != nil {
		return nil, err
	}
	idx := -1
	if _, ok := inner.(*ByteString); ok {
		idx = r.objects.Reserve()
	}
	attrs, err := r.readAttributeBlock()
	if err != nil {
		return nil, err
	}

	switch v := inner.(type) {
	case *ByteString:
		result, err := r.promoteDecodedString(v, attrs)
		if err != nil {
			return nil, err
		}
		r.objects.Fill(idx, result)
		return result, nil
	case *Regex:
		v.Attrs = attrs
		return v, nil
	case *UserDef:
		v.Attrs = attrs
		return v, nil
	default:
		return inner, nil
	}
}

// promoteDecodedString turns a raw byte string plus its IVAR attribute
// block into a DecodedString, consuming the reserved E/encoding keys
// and preserving any others.
func (r *reader) promoteDecodedString(bs *ByteString, attrs *Attributes) (*DecodedString, error) {
	ds := &DecodedString{Text: string(bs.Data), Encoding: "US-ASCII"}
	rest := NewAttributes()

	for _, name := range attrs.Names() {
		val, _ := attrs.Get(name)
		switch name {
		case "E":
			if b, ok := val.(Bool); ok && bool(b) {
				ds.Encoding = "UTF-8"
			} else {
				ds.Encoding = "US-ASCII"
			}
		case "encoding":
			switch v := val.(type) {
			case *ByteString:
				ds.Encoding = string(v.Data)
			case *DecodedString:
				ds.Encoding = v.Text
			}
		default:
			rest.Set(name, val)
		}
	}
	if rest.Len() > 0 {
		ds.Attrs = rest
	}

	if ds.Encoding == "UTF-8" && !r.cfg.lossyEncoding && !utf8.ValidString(ds.Text) {
		return nil, utils.NewError(utils.KindEncodingFailure, "declared UTF-8 string is not valid UTF-8")
	}
	return ds, nil
}

func (r *reader) readClassSymbol() (Symbol, error) {
	v, err := r.readValue()
	if err != nil {
		return "", err
	}
	sym, ok := v.(Symbol)
	if !ok {
		return "", utils.NewError(utils.KindSymbolExpected, "expected a class-name symbol")
	}
	return sym, nil
}

func (r *reader) readUserMarshal() (Value, error) {
	idx := r.objects.Reserve()

	class, err := r.readClassSymbol()
	if err != nil {
		return nil, err
	}
	if kind := r.cfg.registry.classKind(string(class)); kind != "" && kind != "UserMarshal" {
		return nil, utils.NewError(utils.KindRegistryMismatch, "class "+string(class)+" registered as "+kind+", not UserMarshal")
	}

	um := &UserMarshal{Class: class}
	r.objects.Fill(idx, um)

	inner, err := r.readValue()
	if err != nil {
		return nil, err
	}
	um.Inner = inner
	return um, nil
}

func (r *reader) readUserDef() (Value, error) {
	idx := r.objects.Reserve()

	class, err := r.readClassSymbol()
	if err != nil {
		return nil, err
	}
	if kind := r.cfg.registry.classKind(string(class)); kind != "" && kind != "UserDef" {
		return nil, utils.NewError(utils.KindRegistryMismatch, "class "+string(class)+" registered as "+kind+", not UserDef")
	}
	length, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	data, err := wire.ReadBytes(r.r, int(length), utils.MaxStringSize, "userdef payload")
	if err != nil {
		return nil, err
	}

	ud := &UserDef{Class: class, Data: data}
	r.objects.Fill(idx, ud)
	return ud, nil
}

func (r *reader) readObject() (Value, error) {
	idx := r.objects.Reserve()

	class, err := r.readClassSymbol()
	if err != nil {
		return nil, err
	}
	if kind := r.cfg.registry.classKind(string(class)); kind != "" && kind != "Object" {
		return nil, utils.NewError(utils.KindRegistryMismatch, "class "+string(class)+" registered as "+kind+", not Object")
	}

	obj := &Object{Class: class}
	r.objects.Fill(idx, obj)

	attrs, err := r.readAttributeBlock()
	if err != nil {
		return nil, err
	}
	obj.Attrs = attrs
	return obj, nil
}

func (r *reader) readModule() (Value, error) {
	idx := r.objects.Reserve()
	length, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	data, err := wire.ReadBytes(r.r, int(length), utils.MaxStringSize, "module name")
	if err != nil {
		return nil, err
	}
	m := &Module{Name: string(data)}
	r.objects.Fill(idx, m)
	return m, nil
}

func (r *reader) readClass() (Value, error) {
	idx := r.objects.Reserve()
	length, err := wire.ReadLong(r.r)
	if err != nil {
		return nil, err
	}
	data, err := wire.ReadBytes(r.r, int(length), utils.MaxStringSize, "class name")
	if err != nil {
		return nil, err
	}
	c := &Class{Name: string(data)}
	r.objects.Fill(idx, c)
	return c, nil
}

func (r *reader) readStruct() (Value, error) {
	idx := r.objects.Reserve()
	class, err := r.readClassSymbol()
	if err != nil {
		return nil, err
	}

	s := &StructValue{Class: class}
	r.objects.Fill(idx, s)

	attrs, err := r.readAttributeBlock()
	if err != nil {
		return nil, err
	}
	s.Attrs = attrs
	return s, nil
}

func (r *reader) readData() (Value, error) {
	idx := r.objects.Reserve()
	class, err := r.readClassSymbol()
	if err != nil {
		return nil, err
	}

	d := &DataValue{Class: class}
	r.objects.Fill(idx, d)

	inner, err := r.readValue()
	if err != nil {
		return nil, err
	}
	d.Inner = inner
	return d, nil
}

func (r *reader) readExtended() (Value, error) {
	idx := r.objects.Reserve()
	mod, err := r.readClassSymbol()
	if err != nil {
		return nil, err
	}

	ext := &ExtendedValue{Modules: []Symbol{mod}}
	r.objects.Fill(idx, ext)

	inner, err := r.readValue()
	if err != nil {
		return nil, err
	}
	if nested, ok := inner.(*ExtendedValue); ok {
		ext.Modules = append(ext.Modules, nested.Modules...)
		ext.Inner = nested.Inner
	} else {
		ext.Inner = inner
	}
	return ext, nil
}
