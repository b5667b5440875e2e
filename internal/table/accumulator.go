package table

import "csvw/internal/schema"

// Accumulator is the per-table state built up across pass 1 and resolved
// in pass 2 (§4.4): warnings/errors, FK-definition and FK-reference key
// sets, and the hash-bucketed primary-key index used for collision
// detection.
type Accumulator struct {
	Report schema.WarningsAndErrors

	// ChildKeySets holds, per ForeignKeyDefinition declared on this table,
	// the set of local-column KeyValues seen (duplicates collapse).
	ChildKeySets map[*schema.ForeignKeyDefinition]*schema.KeyValueSet

	// ParentKeySets holds, per ReferencedForeignKey pointing at this
	// table, the set of candidate parent KeyValues (second insertion of an
	// equal key flips IsDuplicate rather than collapsing).
	ParentKeySets map[*schema.ReferencedForeignKey]*schema.KeyValueSet

	// pkHashBuckets maps KeyValue.Hash() to every row number whose primary
	// key hashed there. Only buckets of size >= 2 are candidates for
	// pass-2 verification.
	pkHashBuckets map[uint64][]int

	RowsProcessed int
}

// NewAccumulator builds an Accumulator pre-populated with empty key sets
// for every FK definition and reference declared on table.
func NewAccumulator(table *schema.Table) *Accumulator {
	a := &Accumulator{
		ChildKeySets:  make(map[*schema.ForeignKeyDefinition]*schema.KeyValueSet),
		ParentKeySets: make(map[*schema.ReferencedForeignKey]*schema.KeyValueSet),
		pkHashBuckets: make(map[uint64][]int),
	}
	if table.Schema != nil {
		for _, fk := range table.Schema.ForeignKeys {
			a.ChildKeySets[fk] = schema.NewKeyValueSet()
		}
	}
	for _, ref := range table.ReferencedKeys {
		a.ParentKeySets[ref] = schema.NewKeyValueSet()
	}
	return a
}

// RecordPrimaryKeyHash appends row to the bucket for key's hash (pass 1).
func (a *Accumulator) RecordPrimaryKeyHash(key schema.KeyValue, row int) {
	h := key.Hash()
	a.pkHashBuckets[h] = append(a.pkHashBuckets[h], row)
}

// CollidingRows returns the union of row numbers in every hash bucket of
// size >= 2 — the candidate set pass 2 must re-verify.
func (a *Accumulator) CollidingRows() map[int]bool {
	out := make(map[int]bool)
	for _, rows := range a.pkHashBuckets {
		if len(rows) < 2 {
			continue
		}
		for _, r := range rows {
			out[r] = true
		}
	}
	return out
}

func (a *Accumulator) addError(e schema.Entry) {
	a.Report.Errors = append(a.Report.Errors, e)
}

func (a *Accumulator) addWarning(e schema.Entry) {
	a.Report.Warnings = append(a.Report.Warnings, e)
}
