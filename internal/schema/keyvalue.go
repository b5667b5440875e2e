package schema

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeyValue is an ordered tuple of per-column components used to identify a
// row for primary-key uniqueness or foreign-key lookup. Each component is
// already the string form of a column's (possibly list-flattened) parsed
// value; equality and Hash operate purely on these strings, so KeyValue
// never needs to know which datatype produced them.
type KeyValue struct {
	Components []string
}

// Equal reports whether two KeyValues carry the same ordered components.
func (k KeyValue) Equal(other KeyValue) bool {
	if len(k.Components) != len(other.Components) {
		return false
	}
	for i := range k.Components {
		if k.Components[i] != other.Components[i] {
			return false
		}
	}
	return true
}

// Empty reports whether every component is the empty string — an "absent"
// foreign key per §4.5, which must be ignored rather than looked up.
func (k KeyValue) Empty() bool {
	for _, c := range k.Components {
		if c != "" {
			return false
		}
	}
	return true
}

// String renders the key as a comma-joined list, the form used in
// duplicate_key error content ("key already present - <comma-joined key>").
func (k KeyValue) String() string {
	return strings.Join(k.Components, ", ")
}

// Hash returns a stable, non-cryptographic hash of the key's components,
// used only to bucket candidate duplicates in pass 1 of the table pipeline
// (§4.4, §9). A collision must never be reported as duplicate_key without
// the pass-2 verification step confirming true equality.
func (k KeyValue) Hash() uint64 {
	h := xxhash.New()
	for _, c := range k.Components {
		_, _ = h.WriteString(c)
		_, _ = h.Write([]byte{0}) // separator so ("ab","c") != ("a","bc")
	}
	return h.Sum64()
}

// KeyValueWithContext bundles a row number and a mutable duplicate flag.
// Equality and hashing ignore RowNumber, per §3 — KeyValueSet below
// implements that contract as a concrete set type instead of relying on Go
// map equality (which would include RowNumber if this were used as a map
// key directly).
type KeyValueWithContext struct {
	Key         KeyValue
	RowNumber   int
	IsDuplicate bool
}

// KeyValueSet is a set of KeyValueWithContext keyed by KeyValue, used for
// both the FK-definition and FK-reference accumulation in §4.4: the second
// insertion of an equal key sets the first entry's IsDuplicate flag for
// FK-reference sets, while for FK-definition sets, duplicates simply
// collapse (set semantics) — callers choose which via Add/AddOrMarkDuplicate.
type KeyValueSet struct {
	byHash map[uint64][]*KeyValueWithContext
}

// NewKeyValueSet returns an empty set.
func NewKeyValueSet() *KeyValueSet {
	return &KeyValueSet{byHash: make(map[uint64][]*KeyValueWithContext)}
}

// find returns the existing entry equal to key, or nil.
func (s *KeyValueSet) find(key KeyValue) *KeyValueWithContext {
	for _, e := range s.byHash[key.Hash()] {
		if e.Key.Equal(key) {
			return e
		}
	}
	return nil
}

// Add inserts key if not already present (duplicate key values collapse),
// matching the FK-definition accumulation rule in §4.4.
func (s *KeyValueSet) Add(key KeyValue, row int) {
	if s.find(key) != nil {
		return
	}
	h := key.Hash()
	s.byHash[h] = append(s.byHash[h], &KeyValueWithContext{Key: key, RowNumber: row})
}

// AddOrMarkDuplicate inserts key, or if an equal key is already present,
// flips that entry's IsDuplicate flag — the FK-reference accumulation rule
// in §4.4 ("replace it with its is_duplicate=true copy").
func (s *KeyValueSet) AddOrMarkDuplicate(key KeyValue, row int) {
	if existing := s.find(key); existing != nil {
		existing.IsDuplicate = true
		return
	}
	h := key.Hash()
	s.byHash[h] = append(s.byHash[h], &KeyValueWithContext{Key: key, RowNumber: row})
}

// All returns the set's entries in no particular order.
func (s *KeyValueSet) All() []*KeyValueWithContext {
	var out []*KeyValueWithContext
	for _, bucket := range s.byHash {
		out = append(out, bucket...)
	}
	return out
}

// Contains reports whether key (non-empty) is present, returning the
// matching entry so callers can inspect IsDuplicate.
func (s *KeyValueSet) Contains(key KeyValue) (*KeyValueWithContext, bool) {
	e := s.find(key)
	return e, e != nil
}
