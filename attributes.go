package rbmarshal

// Attributes is the insertion-ordered instance-variable map carried by
// IVAR-wrapped strings, Objects, Structs, Regexes, and UserDefs. Order
// matters: the writer re-emits attributes in the order they were read,
// which is required for bit-exact round-tripping.
type Attributes struct {
	pairs []attrPair
}

type attrPair struct {
	name  Symbol
	value Value
}

// NewAttributes returns an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{}
}

// Len reports how many attributes are present.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.pairs)
}

// Get returns the value bound to name, if present.
func (a *Attributes) Get(name Symbol) (Value, bool) {
	if a == nil {
		return nil, false
	}
	for _, p := range a.pairs {
		if p.name == name {
			return p.value, true
		}
	}
	return nil, false
}

// Set appends name/value, or overwrites the existing binding in place if
// name is already present, preserving its original position.
func (a *Attributes) Set(name Symbol, value Value) {
	for i, p := range a.pairs {
		if p.name == name {
			a.pairs[i].value = value
			return
		}
	}
	a.pairs = append(a.pairs, attrPair{name: name, value: value})
}

// Each calls fn once per attribute in insertion order.
func (a *Attributes) Each(fn func(name Symbol, value Value)) {
	if a == nil {
		return
	}
	for _, p := range a.pairs {
		fn(p.name, p.value)
	}
}

// Names returns the attribute names in insertion order.
func (a *Attributes) Names() []Symbol {
	if a == nil {
		return nil
	}
	names := make([]Symbol, len(a.pairs))
	for i, p := range a.pairs {
		names[i] = p.name
	}
	return names
}
