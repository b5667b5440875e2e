// Package integrity implements the cross-table foreign-key resolution that
// runs once every table has completed its two passes (SPEC_FULL.md §4.5).
package integrity

import (
	"fmt"

	"csvw/internal/schema"
)

// TableResult is the subset of a table pipeline's output the integrity
// checker needs: its schema (for FK definitions) and its accumulated child
// / parent key sets.
type TableResult struct {
	Table         *schema.Table
	ChildKeySets  map[*schema.ForeignKeyDefinition]*schema.KeyValueSet
	ParentKeySets map[*schema.ReferencedForeignKey]*schema.KeyValueSet
}

// Check resolves every ForeignKeyDefinition across all tables against its
// target table's ReferencedForeignKey parent-key set, returning the
// unmatched_foreign_key_reference / multiple_matched_rows errors.
func Check(results []*TableResult) schema.WarningsAndErrors {
	var out schema.WarningsAndErrors

	parentSetByDef := make(map[*schema.ForeignKeyDefinition]*schema.KeyValueSet)
	for _, r := range results {
		for ref, set := range r.ParentKeySets {
			parentSetByDef[ref.Definition] = set
		}
	}

	for _, r := range results {
		for def, childSet := range r.ChildKeySets {
			parentSet := parentSetByDef[def]
			for _, child := range childSet.All() {
				if child.Key.Empty() {
					continue // a null foreign key is not a reference, §4.5
				}
				if parentSet == nil {
					out.Errors = append(out.Errors, unmatchedEntry(child))
					continue
				}
				parentEntry, ok := parentSet.Contains(child.Key)
				if !ok {
					out.Errors = append(out.Errors, unmatchedEntry(child))
					continue
				}
				if parentEntry.IsDuplicate {
					out.Errors = append(out.Errors, multipleMatchEntry(child))
				}
			}
		}
	}

	return out
}

func unmatchedEntry(child *schema.KeyValueWithContext) schema.Entry {
	return schema.Entry{
		Type:     schema.ErrUnmatchedForeignKey,
		Category: schema.CategorySchemaLC,
		Row:      child.RowNumber,
		Content:  fmt.Sprintf("no row with key %s found in referenced table", child.Key.String()),
	}
}

func multipleMatchEntry(child *schema.KeyValueWithContext) schema.Entry {
	return schema.Entry{
		Type:     schema.ErrMultipleMatchedRows,
		Category: schema.CategorySchemaLC,
		Row:      child.RowNumber,
		Content:  fmt.Sprintf("multiple rows match key %s in referenced table", child.Key.String()),
	}
}
