// Package compact implements opt-in in-memory string compaction for a
// decoded value tree. It trains an FSST symbol table across every
// string payload in the tree, then re-interns each string's backing
// bytes through a single encode/decode round trip keyed by content —
// identical strings across the tree end up sharing one backing array
// instead of each holding its own copy. This has no effect on the wire
// format; it only reduces the decoded tree's live heap footprint when a
// caller loads many payloads with a lot of repeated string content.
package compact

import (
	"github.com/axiomhq/fsst"
)

// Interner deduplicates decoded string bytes via a shared FSST table.
type Interner struct {
	table *fsst.Table
	cache map[string]string
}

// NewInterner trains a table over the given corpus of string contents.
// An empty corpus yields an Interner that still deduplicates (via the
// cache alone) but performs no FSST compression work.
func NewInterner(corpus []string) *Interner {
	in := &Interner{cache: make(map[string]string, len(corpus))}
	if len(corpus) > 0 {
		in.table = fsst.TrainStrings(corpus)
	}
	return in
}

// Intern returns a canonical copy of s: the first call for a given
// content allocates and (if a table is present) round-trips it through
// FSST encode/decode to normalize its backing storage; every later call
// with equal content returns the exact same backing string.
func (in *Interner) Intern(s string) string {
	if cached, ok := in.cache[s]; ok {
		return cached
	}

	canon := s
	if in.table != nil {
		encoded := in.table.EncodeAll([]byte(s))
		decoded := in.table.DecodeAll(encoded)
		canon = string(decoded)
	}
	in.cache[s] = canon
	return canon
}
