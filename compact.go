package rbmarshal

import "github.com/scigolib/rbmarshal/internal/compact"

// compactStrings performs in-place string interning over a decoded tree
// (WithCompaction). It does not change any string's observable content.
// DecodedString texts with equal content end up sharing one backing
// string; each ByteString payload is replaced by its own fresh copy, so
// ByteStrings do not share storage.
func compactStrings(root Value) {
	corpus := make([]string, 0, 64)
	walkStrings(root, map[any]bool{}, func(s string) { corpus = append(corpus, s) })
	if len(corpus) == 0 {
		return
	}
	interner := compact.NewInterner(corpus)
	walkIntern(root, map[any]bool{}, interner)
}

func walkStrings(v Value, seen map[any]bool, visit func(string)) {
	if v == nil || seen[v] {
		return
	}
	switch val := v.(type) {
	case *ByteString:
		seen[v] = true
		visit(string(val.Data))
	case *DecodedString:
		seen[v] = true
		visit(val.Text)
	case *Array:
		seen[v] = true
		for _, item := range val.Items {
			walkStrings(item, seen, visit)
		}
	case *Hash:
		seen[v] = true
		for _, e := range val.Entries {
			walkStrings(e.Key, seen, visit)
			walkStrings(e.Value, seen, visit)
		}
	case *UserMarshal:
		seen[v] = true
		walkStrings(val.Inner, seen, visit)
	case *DataValue:
		seen[v] = true
		walkStrings(val.Inner, seen, visit)
	case *ExtendedValue:
		seen[v] = true
		walkStrings(val.Inner, seen, visit)
	case *Object:
		seen[v] = true
		walkAttrStrings(val.Attrs, seen, visit)
	case *StructValue:
		seen[v] = true
		walkAttrStrings(val.Attrs, seen, visit)
	case *UserDef:
		seen[v] = true
		walkAttrStrings(val.Attrs, seen, visit)
	case *Regex:
		seen[v] = true
		walkAttrStrings(val.Attrs, seen, visit)
	}
}

func walkAttrStrings(attrs *Attributes, seen map[any]bool, visit func(string)) {
	attrs.Each(func(_ Symbol, value Value) {
		walkStrings(value, seen, visit)
	})
}

func walkIntern(v Value, seen map[any]bool, in *compact.Interner) {
	if v == nil || seen[v] {
		return
	}
	switch val := v.(type) {
	case *ByteString:
		seen[v] = true
		val.Data = []byte(in.Intern(string(val.Data)))
	case *DecodedString:
		seen[v] = true
		val.Text = in.Intern(val.Text)
	case *Array:
		seen[v] = true
		for _, item := range val.Items {
			walkIntern(item, seen, in)
		}
	case *Hash:
		seen[v] = true
		for _, e := range val.Entries {
			walkIntern(e.Key, seen, in)
			walkIntern(e.Value, seen, in)
		}
	case *UserMarshal:
		seen[v] = true
		walkIntern(val.Inner, seen, in)
	case *DataValue:
		seen[v] = true
		walkIntern(val.Inner, seen, in)
	case *ExtendedValue:
		seen[v] = true
		walkIntern(val.Inner, seen, in)
	case *Object:
		seen[v] = true
		walkAttrIntern(val.Attrs, seen, in)
	case *StructValue:
		seen[v] = true
		walkAttrIntern(val.Attrs, seen, in)
	case *UserDef:
		seen[v] = true
		walkAttrIntern(val.Attrs, seen, in)
	case *Regex:
		seen[v] = true
		walkAttrIntern(val.Attrs, seen, in)
	}
}

func walkAttrIntern(attrs *Attributes, seen map[any]bool, in *compact.Interner) {
	attrs.Each(func(_ Symbol, value Value) {
		walkIntern(value, seen, in)
	})
}
