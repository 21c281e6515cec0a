package rbmarshal

import "math"

// valuesEqual reports structural equality between two scalar-ish Values
// for the purpose of Hash key lookup. Container and reference-heavy
// kinds (Array, Hash, Object, ...) are compared by identity, matching
// how the foreign runtime actually hashes them by default: two distinct
// container instances are different keys even if their contents match.
func valuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Int:
		bv := b.(Int)
		if av.V == nil || bv.V == nil {
			return av.V == bv.V
		}
		return av.V.Cmp(bv.V) == 0
	case Symbol:
		return av == b.(Symbol)
	case *ByteString:
		bv := b.(*ByteString)
		return string(av.Data) == string(bv.Data)
	case *DecodedString:
		bv := b.(*DecodedString)
		return av.Text == bv.Text && av.Encoding == bv.Encoding
	case *Float:
		return av == b.(*Float)
	default:
		return a == b
	}
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// ValuesEqual reports deep structural equality between two value trees,
// following Array/Hash/Object substructure and tolerating shared or
// cyclic references (a visited-pair set breaks cycles rather than
// recursing forever). It is exported for tests exercising round-trip
// fidelity; the codec itself never needs full structural equality.
func ValuesEqual(a, b Value) bool {
	return valuesEqualDeep(a, b, map[[2]any]bool{})
}

func valuesEqualDeep(a, b Value, seen map[[2]any]bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}

	key := [2]any{a, b}
	if seen[key] {
		return true
	}
	seen[key] = true

	switch av := a.(type) {
	case Null, Bool, Int, Symbol:
		return valuesEqual(a, b)
	case *ByteString:
		bv := b.(*ByteString)
		return string(av.Data) == string(bv.Data)
	case *DecodedString:
		bv := b.(*DecodedString)
		if av.Text != bv.Text || av.Encoding != bv.Encoding {
			return false
		}
		return attrsEqualDeep(av.Attrs, bv.Attrs, seen)
	case *Float:
		bv := b.(*Float)
		return floatEqual(av.V, bv.V)
	case *Regex:
		bv := b.(*Regex)
		if av.Pattern != bv.Pattern || av.IgnoreCase != bv.IgnoreCase || av.Multiline != bv.Multiline {
			return false
		}
		return attrsEqualDeep(av.Attrs, bv.Attrs, seen)
	case *Array:
		bv := b.(*Array)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !valuesEqualDeep(av.Items[i], bv.Items[i], seen) {
				return false
			}
		}
		return true
	case *Hash:
		bv := b.(*Hash)
		if len(av.Entries) != len(bv.Entries) {
			return false
		}
		for i := range av.Entries {
			if !valuesEqualDeep(av.Entries[i].Key, bv.Entries[i].Key, seen) {
				return false
			}
			if !valuesEqualDeep(av.Entries[i].Value, bv.Entries[i].Value, seen) {
				return false
			}
		}
		return true
	case *UserMarshal:
		bv := b.(*UserMarshal)
		return av.Class == bv.Class && valuesEqualDeep(av.Inner, bv.Inner, seen)
	case *UserDef:
		bv := b.(*UserDef)
		if av.Class != bv.Class || string(av.Data) != string(bv.Data) {
			return false
		}
		return attrsEqualDeep(av.Attrs, bv.Attrs, seen)
	case *Object:
		bv := b.(*Object)
		if av.Class != bv.Class {
			return false
		}
		return attrsEqualDeep(av.Attrs, bv.Attrs, seen)
	case *Module:
		return av.Name == b.(*Module).Name
	case *Class:
		return av.Name == b.(*Class).Name
	case *StructValue:
		bv := b.(*StructValue)
		if av.Class != bv.Class {
			return false
		}
		return attrsEqualDeep(av.Attrs, bv.Attrs, seen)
	case *DataValue:
		bv := b.(*DataValue)
		return av.Class == bv.Class && valuesEqualDeep(av.Inner, bv.Inner, seen)
	case *ExtendedValue:
		bv := b.(*ExtendedValue)
		if len(av.Modules) != len(bv.Modules) {
			return false
		}
		for i := range av.Modules {
			if av.Modules[i] != bv.Modules[i] {
				return false
			}
		}
		return valuesEqualDeep(av.Inner, bv.Inner, seen)
	default:
		return a == b
	}
}

func attrsEqualDeep(a, b *Attributes, seen map[[2]any]bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	an, bn := a.Names(), b.Names()
	for i := range an {
		if an[i] != bn[i] {
			return false
		}
		av, _ := a.Get(an[i])
		bv, _ := b.Get(bn[i])
		if !valuesEqualDeep(av, bv, seen) {
			return false
		}
	}
	return true
}
