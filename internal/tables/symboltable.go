// Package tables implements the two append-only reference tables that
// give the RB format its structural sharing: the symbol table (interned
// names) and the object table (every structurally-shareable value).
// Both tables are strictly append-only and index-addressed; readers and
// writers must advance them in lockstep for the wire format to round-trip.
package tables

import "github.com/scigolib/rbmarshal/internal/utils"

// SymbolTable is the reader-side view: an append-only list of interned
// symbol names, addressed by dense, monotonically increasing index.
type SymbolTable struct {
	names []string
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Add appends a newly-decoded symbol name and returns its index.
func (t *SymbolTable) Add(name string) int {
	t.names = append(t.names, name)
	return len(t.names) - 1
}

// Len reports how many symbols have been interned so far.
func (t *SymbolTable) Len() int {
	return len(t.names)
}

// At resolves a symbol-link index. The index must be strictly less than
// the table's current length; a forward or out-of-range reference is a
// format error.
func (t *SymbolTable) At(index int64) (string, error) {
	if index < 0 || index >= int64(len(t.names)) {
		return "", utils.NewError(utils.KindIndexOutOfRange, "symbol table index out of range")
	}
	return t.names[index], nil
}

// WriterSymbolTable is the writer-side view: it additionally tracks a
// reverse name→index map so repeated symbols become symbol-link tokens.
type WriterSymbolTable struct {
	names   []string
	indices map[string]int64
}

// NewWriterSymbolTable returns an empty writer-side symbol table.
func NewWriterSymbolTable() *WriterSymbolTable {
	return &WriterSymbolTable{indices: make(map[string]int64)}
}

// Lookup reports the index of a previously-emitted symbol, if any.
func (t *WriterSymbolTable) Lookup(name string) (int64, bool) {
	idx, ok := t.indices[name]
	return idx, ok
}

// Intern records a newly-emitted symbol literal and returns its index.
// Callers must only call Intern for names not already present (check
// Lookup first); the symbol table is append-only and never deduplicates
// on its own.
func (t *WriterSymbolTable) Intern(name string) int64 {
	idx := int64(len(t.names))
	t.names = append(t.names, name)
	t.indices[name] = idx
	return idx
}
