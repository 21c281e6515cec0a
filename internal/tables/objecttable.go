package tables

import "github.com/scigolib/rbmarshal/internal/utils"

// ObjectTable is the reader-side view of the shared-object table. A slot
// is reserved the moment a shareable token is entered — before its
// children are decoded — so that a cyclic reference back into the
// enclosing container resolves to the in-progress (possibly still nil)
// slot rather than failing. This ordering is load-bearing.
type ObjectTable struct {
	slots []any
}

// NewObjectTable returns an empty object table.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{}
}

// Reserve appends an empty slot and returns its index. Call this before
// decoding a shareable token's children.
func (t *ObjectTable) Reserve() int {
	t.slots = append(t.slots, nil)
	return len(t.slots) - 1
}

// Fill installs the fully-constructed value into a previously-reserved slot.
func (t *ObjectTable) Fill(index int, value any) {
	t.slots[index] = value
}

// Len reports how many slots have been reserved so far.
func (t *ObjectTable) Len() int {
	return len(t.slots)
}

// At resolves an object-link index. A reference to a slot
// that is reserved but not yet filled returns the slot's current
// contents (nil) rather than erroring; deciding what to do with a nil
// result is left to the caller. The container decode paths fill their
// slot before reading any children, so a cycle back into them finds the
// live value rather than nil.
func (t *ObjectTable) At(index int64) (any, error) {
	if index < 0 || index >= int64(len(t.slots)) {
		return nil, utils.NewError(utils.KindIndexOutOfRange, "object table index out of range")
	}
	return t.slots[index], nil
}

// WriterObjectTable is the writer-side view: it tracks shareable values
// by identity (pointer equality, not structural equality) so repeated
// emissions of the same in-memory object become object-link tokens.
type WriterObjectTable struct {
	indices map[any]int64
}

// NewWriterObjectTable returns an empty writer-side object table.
func NewWriterObjectTable() *WriterObjectTable {
	return &WriterObjectTable{indices: make(map[any]int64)}
}

// Lookup reports the index a value was previously assigned, if any. The
// key is compared by identity: callers must pass the same pointer-typed
// value that was previously installed via Install, not a structurally
// equal copy.
func (t *WriterObjectTable) Lookup(v any) (int64, bool) {
	idx, ok := t.indices[v]
	return idx, ok
}

// Install reserves the next index for v and records it for future Lookups.
func (t *WriterObjectTable) Install(v any) int64 {
	idx := int64(len(t.indices))
	t.indices[v] = idx
	return idx
}

// Len reports how many distinct identities have been installed so far.
func (t *WriterObjectTable) Len() int {
	return len(t.indices)
}
